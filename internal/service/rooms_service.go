package service

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"strings"
	"time"

	errorvalues "github.com/jjtjtyt6644/studify/internal/error_values"
	"github.com/jjtjtyt6644/studify/internal/repository"
	"github.com/jjtjtyt6644/studify/pkg/entity"
)

const (
	roomCodeLength  = 6
	roomCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// Attempts before giving up on finding an unused code
	roomCodeRetries = 5
)

// RoomsService owns the study-room update rules; the realtime machinery
// itself lives behind the rooms repository. Every mutation is a full-document
// read-modify-write, matching the hosted-database model.
type RoomsService struct {
	repo repository.RoomsRepositoryI
}

func NewRoomsService(repo repository.RoomsRepositoryI) *RoomsService {
	if repo == nil {
		log.Fatal("provided nil rooms repo")
	}
	return &RoomsService{
		repo: repo,
	}
}

func (rs *RoomsService) Create(ctx context.Context, hostID, hostName string) (*entity.StudyRoom, error) {
	if strings.TrimSpace(hostName) == "" {
		return nil, errorvalues.ErrNameRequired
	}
	for i := 0; i < roomCodeRetries; i++ {
		code, err := generateRoomCode()
		if err != nil {
			return nil, err
		}
		_, err = rs.repo.Read(ctx, code)
		if err == nil {
			continue
		}
		if !errors.Is(err, errorvalues.ErrRoomNotFound) {
			return nil, errors.New("rooms repository error: " + err.Error())
		}
		room := entity.StudyRoom{
			Code:     code,
			HostName: hostName,
			Members: []entity.StudyMember{
				{
					ID:       hostID,
					Name:     hostName,
					JoinedAt: time.Now(),
				},
			},
			CreatedAt: time.Now(),
		}
		err = rs.repo.Write(ctx, &room)
		if err != nil {
			return nil, errors.New("rooms repository error: " + err.Error())
		}
		return &room, nil
	}
	return nil, errorvalues.ErrRoomCodeTaken
}

// Join appends the member unless already present; rejoining with a known id
// is a no-op that just hands the current document back.
func (rs *RoomsService) Join(ctx context.Context, code, memberID, name string) (*entity.StudyRoom, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errorvalues.ErrNameRequired
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	room, err := rs.read(ctx, code)
	if err != nil {
		return nil, err
	}
	for _, m := range room.Members {
		if m.ID == memberID {
			return room, nil
		}
	}
	room.Members = append(room.Members, entity.StudyMember{
		ID:       memberID,
		Name:     name,
		JoinedAt: time.Now(),
	})
	err = rs.repo.Write(ctx, room)
	if err != nil {
		return nil, errors.New("rooms repository error: " + err.Error())
	}
	return room, nil
}

// Leave removes the member and deletes the room once nobody is left.
func (rs *RoomsService) Leave(ctx context.Context, code, memberID string) error {
	room, err := rs.read(ctx, code)
	if err != nil {
		return err
	}
	members := make([]entity.StudyMember, 0, len(room.Members))
	for _, m := range room.Members {
		if m.ID != memberID {
			members = append(members, m)
		}
	}
	if len(members) == len(room.Members) {
		return errorvalues.ErrMemberNotFound
	}
	if len(members) == 0 {
		err = rs.repo.Delete(ctx, room.Code)
		if err != nil {
			return errors.New("rooms repository error: " + err.Error())
		}
		return nil
	}
	room.Members = members
	room.TotalStudyTime = sumStudyTime(members)
	err = rs.repo.Write(ctx, room)
	if err != nil {
		return errors.New("rooms repository error: " + err.Error())
	}
	return nil
}

func (rs *RoomsService) Get(ctx context.Context, code string) (*entity.StudyRoom, error) {
	return rs.read(ctx, code)
}

func (rs *RoomsService) TickStudyTime(ctx context.Context, code, memberID string) (*entity.StudyRoom, error) {
	return rs.mutateMember(ctx, code, memberID, func(m *entity.StudyMember) {
		if !m.IsOnBreak && !m.IsPaused {
			m.StudyTime++
		}
	})
}

func (rs *RoomsService) ToggleBreak(ctx context.Context, code, memberID string) (*entity.StudyRoom, error) {
	return rs.mutateMember(ctx, code, memberID, func(m *entity.StudyMember) {
		m.IsOnBreak = !m.IsOnBreak
	})
}

func (rs *RoomsService) TogglePause(ctx context.Context, code, memberID string) (*entity.StudyRoom, error) {
	return rs.mutateMember(ctx, code, memberID, func(m *entity.StudyMember) {
		m.IsPaused = !m.IsPaused
	})
}

func (rs *RoomsService) StartStudying(ctx context.Context, code, memberID string) (*entity.StudyRoom, error) {
	return rs.mutateMember(ctx, code, memberID, func(m *entity.StudyMember) {
		m.IsOnBreak = false
		m.IsPaused = false
	})
}

func (rs *RoomsService) Watch(ctx context.Context, code string) (<-chan *entity.StudyRoom, func(), error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	return rs.repo.Subscribe(ctx, code)
}

// SuggestedBreakMinutes recommends five minutes of break per studied
// 25-minute block.
func SuggestedBreakMinutes(studyMinutes int) int {
	return studyMinutes / 25 * 5
}

func (rs *RoomsService) mutateMember(ctx context.Context, code, memberID string, apply func(*entity.StudyMember)) (*entity.StudyRoom, error) {
	room, err := rs.read(ctx, code)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range room.Members {
		if room.Members[i].ID == memberID {
			apply(&room.Members[i])
			found = true
			break
		}
	}
	if !found {
		return nil, errorvalues.ErrMemberNotFound
	}
	room.TotalStudyTime = sumStudyTime(room.Members)
	err = rs.repo.Write(ctx, room)
	if err != nil {
		return nil, errors.New("rooms repository error: " + err.Error())
	}
	return room, nil
}

func (rs *RoomsService) read(ctx context.Context, code string) (*entity.StudyRoom, error) {
	room, err := rs.repo.Read(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, errorvalues.ErrRoomNotFound) {
			return nil, err
		}
		return nil, errors.New("rooms repository error: " + err.Error())
	}
	return room, nil
}

func sumStudyTime(members []entity.StudyMember) int {
	total := 0
	for _, m := range members {
		total += m.StudyTime
	}
	return total
}

func generateRoomCode() (string, error) {
	buf := make([]byte, roomCodeLength)
	_, err := rand.Read(buf)
	if err != nil {
		return "", errors.New("generating room code error: " + err.Error())
	}
	code := make([]byte, roomCodeLength)
	for i, b := range buf {
		code[i] = roomCodeCharset[int(b)%len(roomCodeCharset)]
	}
	return string(code), nil
}
