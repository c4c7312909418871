package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	errorvalues "github.com/jjtjtyt6644/studify/internal/error_values"
	"github.com/jjtjtyt6644/studify/internal/repository"
)

const (
	completedSessionsKey = "completedSessions"
	calendarSessionsKey  = "calendarSessions"
	dailyAppTimeKey      = "dailyAppTime"

	dayFormat = "2006-01-02"
)

// StatsService tracks the completed-session counter, the per-day calendar
// counts the planner renders, and daily app-usage minutes. Counters are
// monotonic. Observers fire on every mutation, replacing the statistics
// polling loop of the mobile app.
type StatsService struct {
	mu        sync.Mutex
	kv        repository.KVStoreI
	settings  SettingsServiceI
	observers []func()
}

func NewStatsService(kv repository.KVStoreI, settings SettingsServiceI) *StatsService {
	if kv == nil || settings == nil {
		log.Fatal("provided nil deps to stats service")
	}
	return &StatsService{
		kv:       kv,
		settings: settings,
	}
}

// RecordCompletedSession bumps the process-wide counter and today's calendar
// count. Called once per completed work interval.
func (st *StatsService) RecordCompletedSession(ctx context.Context) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	count, err := st.CompletedSessions(ctx)
	if err != nil {
		return err
	}
	err = st.kv.Set(ctx, completedSessionsKey, strconv.Itoa(count+1))
	if err != nil {
		return errors.New("kv store error: " + err.Error())
	}
	calendar, err := st.CalendarSessions(ctx)
	if err != nil {
		return err
	}
	today := time.Now().Format(dayFormat)
	calendar[today]++
	err = st.writeDayCounts(ctx, calendarSessionsKey, calendar)
	if err != nil {
		return err
	}
	st.notify()
	return nil
}

func (st *StatsService) CompletedSessions(ctx context.Context) (int, error) {
	raw, err := st.kv.Get(ctx, completedSessionsKey)
	if err != nil {
		if errors.Is(err, errorvalues.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, errors.New("kv store error: " + err.Error())
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, nil
	}
	return count, nil
}

func (st *StatsService) CalendarSessions(ctx context.Context) (map[string]int, error) {
	return st.readDayCounts(ctx, calendarSessionsKey)
}

func (st *StatsService) TodaySessions(ctx context.Context) (int, error) {
	calendar, err := st.CalendarSessions(ctx)
	if err != nil {
		return 0, err
	}
	return calendar[time.Now().Format(dayFormat)], nil
}

func (st *StatsService) Streak(ctx context.Context) (int, error) {
	calendar, err := st.CalendarSessions(ctx)
	if err != nil {
		return 0, err
	}
	streak := 0
	day := time.Now()
	for {
		if calendar[day.Format(dayFormat)] == 0 {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}

func (st *StatsService) AddAppTime(ctx context.Context, minutes int) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	daily, err := st.readDayCounts(ctx, dailyAppTimeKey)
	if err != nil {
		return err
	}
	daily[time.Now().Format(dayFormat)] += minutes
	err = st.writeDayCounts(ctx, dailyAppTimeKey, daily)
	if err != nil {
		return err
	}
	st.notify()
	return nil
}

func (st *StatsService) AppTimeToday(ctx context.Context) (int, error) {
	daily, err := st.readDayCounts(ctx, dailyAppTimeKey)
	if err != nil {
		return 0, err
	}
	return daily[time.Now().Format(dayFormat)], nil
}

// TotalStudyMinutes estimates total study time as every recorded session at
// the currently configured work length.
func (st *StatsService) TotalStudyMinutes(ctx context.Context) (int, error) {
	calendar, err := st.CalendarSessions(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, count := range calendar {
		total += count
	}
	settings, err := st.settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	return total * settings.WorkMinutes, nil
}

func (st *StatsService) RegisterObserver(fn func()) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.observers = append(st.observers, fn)
}

func (st *StatsService) notify() {
	for _, fn := range st.observers {
		fn()
	}
}

func (st *StatsService) readDayCounts(ctx context.Context, key string) (map[string]int, error) {
	raw, err := st.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, errorvalues.ErrKeyNotFound) {
			return map[string]int{}, nil
		}
		return nil, errors.New("kv store error: " + err.Error())
	}
	counts := make(map[string]int)
	err = sonic.ConfigDefault.UnmarshalFromString(raw, &counts)
	if err != nil {
		return nil, errors.New("unmarshalling day counts error: " + err.Error())
	}
	return counts, nil
}

func (st *StatsService) writeDayCounts(ctx context.Context, key string, counts map[string]int) error {
	raw, err := sonic.ConfigDefault.MarshalToString(counts)
	if err != nil {
		return errors.New("marshalling day counts error: " + err.Error())
	}
	err = st.kv.Set(ctx, key, raw)
	if err != nil {
		return errors.New("kv store error: " + err.Error())
	}
	return nil
}
