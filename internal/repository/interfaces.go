package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/jjtjtyt6644/studify/pkg/entity"
)

type KVStoreI interface {
	// Returns value stored under key. ErrKeyNotFound when absent
	Get(ctx context.Context, key string) (string, error)
	// Inserts or overwrites value under key
	Set(ctx context.Context, key, value string) error
	// Removes key. Removing an absent key is not an error
	Remove(ctx context.Context, key string) error
	// Wipes the whole store
	Clear(ctx context.Context) error
}

type RoomsRepositoryI interface {
	// Writes the full room document and publishes the change
	Write(ctx context.Context, room *entity.StudyRoom) error
	// Reads the room document. ErrRoomNotFound when absent
	Read(ctx context.Context, code string) (*entity.StudyRoom, error)
	// Deletes the room document and publishes a tombstone
	Delete(ctx context.Context, code string) error
	// Streams room updates until teardown is called. A nil room on the
	// channel means the room was deleted
	Subscribe(ctx context.Context, code string) (<-chan *entity.StudyRoom, func(), error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}

// RedisCmd covers the commands the rooms repository issues. *redis.Client
// satisfies it; tests substitute a fake returning redis.New*Result values.
type RedisCmd interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisSubscriber is split out because Subscribe returns a concrete
// *redis.PubSub and only the real client provides it.
type RedisSubscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}
