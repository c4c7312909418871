package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	errorvalues "github.com/jjtjtyt6644/studify/internal/error_values"
	"github.com/jjtjtyt6644/studify/internal/service"
	"github.com/jjtjtyt6644/studify/pkg/entity"
)

// roomsRepoMock keeps room documents in memory and counts deletions.
type roomsRepoMock struct {
	mu      sync.Mutex
	rooms   map[string]entity.StudyRoom
	deleted []string
	state   mockState
}

func newRoomsRepoMock() *roomsRepoMock {
	return &roomsRepoMock{
		rooms: map[string]entity.StudyRoom{},
	}
}

func (rm *roomsRepoMock) Write(ctx context.Context, room *entity.StudyRoom) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.state == stateDBError {
		return errors.New("db error")
	}
	rm.rooms[room.Code] = *room
	return nil
}

func (rm *roomsRepoMock) Read(ctx context.Context, code string) (*entity.StudyRoom, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.state == stateDBError {
		return nil, errors.New("db error")
	}
	room, ok := rm.rooms[code]
	if !ok {
		return nil, errorvalues.ErrRoomNotFound
	}
	return &room, nil
}

func (rm *roomsRepoMock) Delete(ctx context.Context, code string) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.state == stateDBError {
		return errors.New("db error")
	}
	delete(rm.rooms, code)
	rm.deleted = append(rm.deleted, code)
	return nil
}

func (rm *roomsRepoMock) Subscribe(ctx context.Context, code string) (<-chan *entity.StudyRoom, func(), error) {
	updates := make(chan *entity.StudyRoom)
	close(updates)
	return updates, func() {}, nil
}

func TestCreateRoom(t *testing.T) {
	repo := newRoomsRepoMock()
	s := service.NewRoomsService(repo)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		room, err := s.Create(ctx, "device-1", "Alice")
		assert.NoError(t, err)
		assert.Equal(t, 6, len(room.Code))
		assert.Equal(t, "Alice", room.HostName)
		assert.Equal(t, 1, len(room.Members))
		assert.Equal(t, "device-1", room.Members[0].ID)
	})
	t.Run("name required", func(t *testing.T) {
		_, err := s.Create(ctx, "device-1", "   ")
		assert.ErrorIs(t, err, errorvalues.ErrNameRequired)
	})
	t.Run("db error", func(t *testing.T) {
		repo.state = stateDBError
		_, err := s.Create(ctx, "device-1", "Alice")
		assert.Error(t, err)
		repo.state = stateSuccess
	})
}

func TestJoinRoom(t *testing.T) {
	repo := newRoomsRepoMock()
	s := service.NewRoomsService(repo)
	ctx := context.Background()
	room, err := s.Create(ctx, "host", "Alice")
	assert.NoError(t, err)
	t.Run("success", func(t *testing.T) {
		joined, err := s.Join(ctx, room.Code, "guest", "Bob")
		assert.NoError(t, err)
		assert.Equal(t, 2, len(joined.Members))
	})
	t.Run("rejoining with a known id is a no-op", func(t *testing.T) {
		joined, err := s.Join(ctx, room.Code, "guest", "Bob")
		assert.NoError(t, err)
		assert.Equal(t, 2, len(joined.Members))
	})
	t.Run("code is case and whitespace insensitive", func(t *testing.T) {
		joined, err := s.Join(ctx, "  "+strings.ToLower(room.Code)+" ", "late", "Carol")
		assert.NoError(t, err)
		assert.Equal(t, 3, len(joined.Members))
	})
	t.Run("unknown room", func(t *testing.T) {
		_, err := s.Join(ctx, "NOSUCH", "guest", "Bob")
		assert.ErrorIs(t, err, errorvalues.ErrRoomNotFound)
	})
	t.Run("name required", func(t *testing.T) {
		_, err := s.Join(ctx, room.Code, "guest", "")
		assert.ErrorIs(t, err, errorvalues.ErrNameRequired)
	})
}

func TestLeaveRoom(t *testing.T) {
	repo := newRoomsRepoMock()
	s := service.NewRoomsService(repo)
	ctx := context.Background()
	room, err := s.Create(ctx, "host", "Alice")
	assert.NoError(t, err)
	_, err = s.Join(ctx, room.Code, "guest", "Bob")
	assert.NoError(t, err)
	t.Run("member not found", func(t *testing.T) {
		err := s.Leave(ctx, room.Code, "stranger")
		assert.ErrorIs(t, err, errorvalues.ErrMemberNotFound)
	})
	t.Run("removes the member", func(t *testing.T) {
		err := s.Leave(ctx, room.Code, "guest")
		assert.NoError(t, err)
		current, err := s.Get(ctx, room.Code)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(current.Members))
	})
	t.Run("last member out deletes the room", func(t *testing.T) {
		err := s.Leave(ctx, room.Code, "host")
		assert.NoError(t, err)
		_, err = s.Get(ctx, room.Code)
		assert.ErrorIs(t, err, errorvalues.ErrRoomNotFound)
		assert.Equal(t, []string{room.Code}, repo.deleted)
	})
}

func TestRoomStudyTime(t *testing.T) {
	repo := newRoomsRepoMock()
	s := service.NewRoomsService(repo)
	ctx := context.Background()
	room, err := s.Create(ctx, "host", "Alice")
	assert.NoError(t, err)
	_, err = s.Join(ctx, room.Code, "guest", "Bob")
	assert.NoError(t, err)
	t.Run("tick adds a minute and updates the aggregate", func(t *testing.T) {
		updated, err := s.TickStudyTime(ctx, room.Code, "host")
		assert.NoError(t, err)
		assert.Equal(t, 1, memberByID(t, updated, "host").StudyTime)
		assert.Equal(t, 1, updated.TotalStudyTime)
		updated, err = s.TickStudyTime(ctx, room.Code, "guest")
		assert.NoError(t, err)
		assert.Equal(t, 2, updated.TotalStudyTime)
	})
	t.Run("no progress while on break", func(t *testing.T) {
		updated, err := s.ToggleBreak(ctx, room.Code, "host")
		assert.NoError(t, err)
		assert.True(t, memberByID(t, updated, "host").IsOnBreak)
		updated, err = s.TickStudyTime(ctx, room.Code, "host")
		assert.NoError(t, err)
		assert.Equal(t, 1, memberByID(t, updated, "host").StudyTime)
	})
	t.Run("no progress while paused", func(t *testing.T) {
		updated, err := s.TogglePause(ctx, room.Code, "guest")
		assert.NoError(t, err)
		assert.True(t, memberByID(t, updated, "guest").IsPaused)
		updated, err = s.TickStudyTime(ctx, room.Code, "guest")
		assert.NoError(t, err)
		assert.Equal(t, 1, memberByID(t, updated, "guest").StudyTime)
	})
	t.Run("start studying clears break and pause", func(t *testing.T) {
		updated, err := s.StartStudying(ctx, room.Code, "host")
		assert.NoError(t, err)
		member := memberByID(t, updated, "host")
		assert.False(t, member.IsOnBreak)
		assert.False(t, member.IsPaused)
	})
	t.Run("member not found", func(t *testing.T) {
		_, err := s.TickStudyTime(ctx, room.Code, "stranger")
		assert.ErrorIs(t, err, errorvalues.ErrMemberNotFound)
	})
}

func TestSuggestedBreakMinutes(t *testing.T) {
	cases := []struct {
		study int
		want  int
	}{
		{0, 0},
		{24, 0},
		{25, 5},
		{49, 5},
		{50, 10},
		{125, 25},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, service.SuggestedBreakMinutes(c.study))
	}
}

func memberByID(t *testing.T, room *entity.StudyRoom, id string) *entity.StudyMember {
	for i := range room.Members {
		if room.Members[i].ID == id {
			return &room.Members[i]
		}
	}
	t.Fatalf("member %s not in room", id)
	return nil
}
