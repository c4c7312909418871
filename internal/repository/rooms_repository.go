package repository

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	errorvalues "github.com/jjtjtyt6644/studify/internal/error_values"
	"github.com/jjtjtyt6644/studify/pkg/cleanup"
	"github.com/jjtjtyt6644/studify/pkg/entity"
)

const (
	roomKeyPrefix = "rooms:"
	// Deleted rooms publish this tombstone so subscribers can tear down
	roomTombstone = "null"
)

// RoomsRepository keeps study-room documents in redis and fans out every
// write over pub/sub, standing in for the hosted realtime database. Each
// mutation republishes the document it just wrote, so subscribers observe
// changes in write order.
type RoomsRepository struct {
	cmd RedisCmd
	sub RedisSubscriber
}

func NewRoomsRepo(address string) *RoomsRepository {
	client := redis.NewClient(&redis.Options{
		Addr: address,
	})
	err := client.Ping(context.Background()).Err()
	if err != nil {
		log.Fatal("error while pinging redis for roomsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing redis client",
		F:    client.Close,
	})
	return &RoomsRepository{
		cmd: client,
		sub: client,
	}
}

func NewRoomsRepoWithClient(cmd RedisCmd, sub RedisSubscriber) *RoomsRepository {
	return &RoomsRepository{
		cmd: cmd,
		sub: sub,
	}
}

func (rr *RoomsRepository) Write(ctx context.Context, room *entity.StudyRoom) error {
	doc, err := sonic.ConfigDefault.MarshalToString(room)
	if err != nil {
		return errors.New("marshalling room error: " + err.Error())
	}
	key := roomKeyPrefix + room.Code
	err = rr.cmd.Set(ctx, key, doc, 0).Err()
	if err != nil {
		return errors.New("writing room error: " + err.Error())
	}
	err = rr.cmd.Publish(ctx, key, doc).Err()
	if err != nil {
		return errors.New("publishing room update error: " + err.Error())
	}
	return nil
}

func (rr *RoomsRepository) Read(ctx context.Context, code string) (*entity.StudyRoom, error) {
	doc, err := rr.cmd.Get(ctx, roomKeyPrefix+code).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errorvalues.ErrRoomNotFound
		}
		return nil, errors.New("reading room error: " + err.Error())
	}
	var room entity.StudyRoom
	err = sonic.ConfigDefault.UnmarshalFromString(doc, &room)
	if err != nil {
		return nil, errors.New("unmarshalling room error: " + err.Error())
	}
	return &room, nil
}

func (rr *RoomsRepository) Delete(ctx context.Context, code string) error {
	key := roomKeyPrefix + code
	err := rr.cmd.Del(ctx, key).Err()
	if err != nil {
		return errors.New("deleting room error: " + err.Error())
	}
	err = rr.cmd.Publish(ctx, key, roomTombstone).Err()
	if err != nil {
		return errors.New("publishing room deletion error: " + err.Error())
	}
	return nil
}

func (rr *RoomsRepository) Subscribe(ctx context.Context, code string) (<-chan *entity.StudyRoom, func(), error) {
	pubsub := rr.sub.Subscribe(ctx, roomKeyPrefix+code)
	// Forces the subscription onto the wire before the first write can race it
	_, err := pubsub.Receive(ctx)
	if err != nil {
		pubsub.Close()
		return nil, nil, errors.New("subscribing to room error: " + err.Error())
	}
	updates := make(chan *entity.StudyRoom)
	done := make(chan struct{})
	go forwardRoomUpdates(pubsub.Channel(), updates, done)
	var once sync.Once
	teardown := func() {
		once.Do(func() {
			close(done)
			pubsub.Close()
		})
	}
	return updates, teardown, nil
}

// forwardRoomUpdates decodes published documents onto updates until the
// message stream closes or done is signalled. The watcher may stop reading
// at any moment, so every send races against done.
func forwardRoomUpdates(msgs <-chan *redis.Message, updates chan<- *entity.StudyRoom, done <-chan struct{}) {
	defer close(updates)
	for msg := range msgs {
		var room *entity.StudyRoom
		if msg.Payload != roomTombstone {
			var decoded entity.StudyRoom
			err := sonic.ConfigDefault.UnmarshalFromString(msg.Payload, &decoded)
			if err != nil {
				slog.Error("dropping malformed room update", slog.String("error", err.Error()))
				continue
			}
			room = &decoded
		}
		select {
		case updates <- room:
		case <-done:
			return
		}
	}
}
