package repository

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/jjtjtyt6644/studify/internal/error_values"
	"github.com/jjtjtyt6644/studify/pkg/cleanup"
)

// KVRepository is the durable key-value store backing all on-device state:
// coin balance, transaction history, homeworks, timer state, counters and
// settings. Values are plain strings or JSON-encoded documents.
type KVRepository struct {
	conn PgConnection
}

func NewKVRepo(cfg DBConfig) *KVRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for kvRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for kvRepo: " + err.Error())
	}
	_, err = pool.Exec(context.Background(),
		`CREATE TABLE IF NOT EXISTS kv_store (key TEXT PRIMARY KEY, value TEXT NOT NULL);`)
	if err != nil {
		log.Fatal("creating kv_store table error: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &KVRepository{
		conn: pool,
	}
}

func NewKVRepoWithConn(conn PgConnection) *KVRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for kvRepo: " + err.Error())
	}
	return &KVRepository{
		conn: conn,
	}
}

func (kv *KVRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	row := kv.conn.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1;`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errorvalues.ErrKeyNotFound
		}
		return "", errors.New("getting value by key error: " + err.Error())
	}
	return value, nil
}

func (kv *KVRepository) Set(ctx context.Context, key, value string) error {
	_, err := kv.conn.Exec(ctx,
		`INSERT INTO kv_store (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = $2;`,
		key, value,
	)
	if err != nil {
		return errors.New("setting value error: " + err.Error())
	}
	return nil
}

func (kv *KVRepository) Remove(ctx context.Context, key string) error {
	_, err := kv.conn.Exec(ctx, `DELETE FROM kv_store WHERE key = $1;`, key)
	if err != nil {
		return errors.New("removing key error: " + err.Error())
	}
	return nil
}

func (kv *KVRepository) Clear(ctx context.Context) error {
	_, err := kv.conn.Exec(ctx, `DELETE FROM kv_store;`)
	if err != nil {
		return errors.New("clearing store error: " + err.Error())
	}
	return nil
}
