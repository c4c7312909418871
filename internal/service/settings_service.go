package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"

	errorvalues "github.com/jjtjtyt6644/studify/internal/error_values"
	"github.com/jjtjtyt6644/studify/internal/repository"
	"github.com/jjtjtyt6644/studify/pkg/entity"
)

const (
	workTimeKey      = "workTime"
	breakTimeKey     = "breakTime"
	longBreakTimeKey = "longBreakTime"

	DefaultWorkMinutes      = 25
	DefaultBreakMinutes     = 5
	DefaultLongBreakMinutes = 15
)

// SettingsService keeps the configured interval durations. Observers replace
// the interval polling the mobile app used for settings refresh: they fire
// synchronously after every successful mutation.
type SettingsService struct {
	mu        sync.Mutex
	kv        repository.KVStoreI
	observers []func()
}

func NewSettingsService(kv repository.KVStoreI) *SettingsService {
	if kv == nil {
		log.Fatal("provided nil kv store to settings service")
	}
	return &SettingsService{
		kv: kv,
	}
}

func (ss *SettingsService) Get(ctx context.Context) (*entity.Settings, error) {
	settings := entity.Settings{
		WorkMinutes:      DefaultWorkMinutes,
		BreakMinutes:     DefaultBreakMinutes,
		LongBreakMinutes: DefaultLongBreakMinutes,
	}
	for key, target := range map[string]*int{
		workTimeKey:      &settings.WorkMinutes,
		breakTimeKey:     &settings.BreakMinutes,
		longBreakTimeKey: &settings.LongBreakMinutes,
	} {
		raw, err := ss.kv.Get(ctx, key)
		if err != nil {
			if errors.Is(err, errorvalues.ErrKeyNotFound) {
				continue
			}
			return nil, errors.New("kv store error: " + err.Error())
		}
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		*target = minutes
	}
	return &settings, nil
}

func (ss *SettingsService) Update(ctx context.Context, req *UpdateSettingsRequest) error {
	err := validate.Struct(req)
	if err != nil {
		return errorvalues.ErrInvalidSettings
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	err = ss.persist(ctx, req.WorkMinutes, req.BreakMinutes, req.LongBreakMinutes)
	if err != nil {
		return err
	}
	ss.notify()
	return nil
}

func (ss *SettingsService) Reset(ctx context.Context) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	err := ss.persist(ctx, DefaultWorkMinutes, DefaultBreakMinutes, DefaultLongBreakMinutes)
	if err != nil {
		return err
	}
	ss.notify()
	return nil
}

func (ss *SettingsService) RegisterObserver(fn func()) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.observers = append(ss.observers, fn)
}

func (ss *SettingsService) persist(ctx context.Context, work, shortBreak, longBreak int) error {
	for key, minutes := range map[string]int{
		workTimeKey:      work,
		breakTimeKey:     shortBreak,
		longBreakTimeKey: longBreak,
	} {
		err := ss.kv.Set(ctx, key, strconv.Itoa(minutes))
		if err != nil {
			return errors.New("kv store error: " + err.Error())
		}
	}
	return nil
}

func (ss *SettingsService) notify() {
	for _, fn := range ss.observers {
		fn()
	}
}
