package service

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	errorvalues "github.com/jjtjtyt6644/studify/internal/error_values"
	"github.com/jjtjtyt6644/studify/internal/notify"
	"github.com/jjtjtyt6644/studify/internal/repository"
	"github.com/jjtjtyt6644/studify/pkg/entity"
)

const (
	timerStateKey = "timerState"
	// Single identifier keeps at most one completion notification outstanding
	timerNotificationID = "pomodoro_timer"
)

// TimerService runs the work/break countdown. State is persisted with
// wall-clock bounds while running so a suspended process can pick the
// countdown back up, and deleted on pause, reset and completion.
type TimerService struct {
	mu       sync.Mutex
	kv       repository.KVStoreI
	coins    CoinsServiceI
	stats    StatsServiceI
	settings SettingsServiceI
	sched    notify.Scheduler

	mode      string
	remaining int // seconds
	active    bool
	paused    bool
	stop      chan struct{}
}

func NewTimerService(kv repository.KVStoreI, coins CoinsServiceI, stats StatsServiceI, settings SettingsServiceI, sched notify.Scheduler) *TimerService {
	if kv == nil || coins == nil || stats == nil || settings == nil || sched == nil {
		log.Fatal("provided nil deps to timer service")
	}
	return &TimerService{
		kv:       kv,
		coins:    coins,
		stats:    stats,
		settings: settings,
		sched:    sched,
		mode:     entity.ModeWork,
	}
}

func (ts *TimerService) State(ctx context.Context) TimerSnapshot {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if !ts.active && !ts.paused && ts.remaining == 0 {
		ts.remaining = ts.configuredSeconds(ctx, ts.mode)
	}
	completed, err := ts.stats.CompletedSessions(ctx)
	if err != nil {
		completed = 0
	}
	return TimerSnapshot{
		Mode:              ts.mode,
		Minutes:           ts.remaining / 60,
		Seconds:           ts.remaining % 60,
		IsActive:          ts.active,
		IsPaused:          ts.paused,
		CompletedSessions: completed,
	}
}

func (ts *TimerService) Start(ctx context.Context) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.active && !ts.paused {
		return nil
	}
	if ts.remaining <= 0 {
		ts.remaining = ts.configuredSeconds(ctx, ts.mode)
	}
	return ts.run(ctx)
}

func (ts *TimerService) Pause(ctx context.Context) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if !ts.active || ts.paused {
		return errorvalues.ErrTimerNotRunning
	}
	ts.paused = true
	ts.stopLoop()
	ts.sched.Cancel(timerNotificationID)
	err := ts.kv.Remove(ctx, timerStateKey)
	if err != nil {
		return errors.New("kv store error: " + err.Error())
	}
	return nil
}

func (ts *TimerService) Resume(ctx context.Context) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if !ts.paused {
		return errorvalues.ErrTimerNotPaused
	}
	return ts.run(ctx)
}

func (ts *TimerService) Reset(ctx context.Context) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.active = false
	ts.paused = false
	ts.stopLoop()
	ts.sched.Cancel(timerNotificationID)
	ts.remaining = ts.configuredSeconds(ctx, ts.mode)
	err := ts.kv.Remove(ctx, timerStateKey)
	if err != nil {
		return errors.New("kv store error: " + err.Error())
	}
	return nil
}

// Tick advances the countdown by one second. The internal loop calls it once
// per second while running; tests drive it directly.
func (ts *TimerService) Tick(ctx context.Context) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if !ts.active || ts.paused {
		return nil
	}
	ts.remaining--
	if ts.remaining <= 0 {
		return ts.complete(ctx)
	}
	err := ts.persistState(ctx)
	if err != nil {
		// Persisting each tick is best-effort, countdown keeps going
		slog.Error("persisting timer state failed", slog.String("error", err.Error()))
	}
	return nil
}

// Restore reconciles a countdown the process was suspended in the middle of.
// Elapsed wall-clock time is charged against the persisted end instant; a
// countdown that already ran out completes immediately, exactly once.
func (ts *TimerService) Restore(ctx context.Context) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	raw, err := ts.kv.Get(ctx, timerStateKey)
	if err != nil {
		if errors.Is(err, errorvalues.ErrKeyNotFound) {
			ts.remaining = ts.configuredSeconds(ctx, ts.mode)
			return nil
		}
		return errors.New("kv store error: " + err.Error())
	}
	var state entity.TimerState
	err = sonic.ConfigDefault.UnmarshalFromString(raw, &state)
	if err != nil {
		ts.kv.Remove(ctx, timerStateKey)
		return errors.New("unmarshalling timer state error: " + err.Error())
	}
	if !state.IsActive || state.IsPaused {
		// Shouldn't have been persisted, drop it
		ts.kv.Remove(ctx, timerStateKey)
		ts.remaining = ts.configuredSeconds(ctx, ts.mode)
		return nil
	}
	ts.mode = state.Mode
	remaining := int(time.Until(state.EndsAt).Seconds())
	if remaining <= 0 {
		ts.active = true
		ts.remaining = 0
		return ts.complete(ctx)
	}
	ts.remaining = remaining
	return ts.run(ctx)
}

// run transitions to Running: persists state, (re)schedules the completion
// notification and starts the loop. Callers hold the mutex.
func (ts *TimerService) run(ctx context.Context) error {
	ts.active = true
	ts.paused = false
	err := ts.persistState(ctx)
	if err != nil {
		return err
	}
	endsAt := time.Now().Add(time.Duration(ts.remaining) * time.Second)
	ts.sched.Cancel(timerNotificationID)
	if ts.mode == entity.ModeWork {
		ts.sched.Schedule(timerNotificationID, endsAt,
			"Work Session Complete!",
			"Great job! Time for a break. +10 coins earned!")
	} else {
		ts.sched.Schedule(timerNotificationID, endsAt,
			"Break Complete!",
			"Break is over! Ready to get back to work?")
	}
	ts.startLoop()
	return nil
}

// complete handles a countdown reaching zero. Work completions feed the
// statistics and the ledger; either mode leaves the timer idle in the
// opposite mode. Callers hold the mutex.
func (ts *TimerService) complete(ctx context.Context) error {
	ts.active = false
	ts.paused = false
	ts.stopLoop()
	ts.sched.Cancel(timerNotificationID)
	err := ts.kv.Remove(ctx, timerStateKey)
	if err != nil {
		slog.Error("removing timer state failed", slog.String("error", err.Error()))
	}
	if ts.mode == entity.ModeWork {
		err = ts.stats.RecordCompletedSession(ctx)
		if err != nil {
			return errors.New("recording completed session error: " + err.Error())
		}
		_, err = ts.coins.Credit(ctx, RewardPomodoroComplete, "Completed Pomodoro session")
		if err != nil {
			return errors.New("crediting session reward error: " + err.Error())
		}
		ts.mode = entity.ModeBreak
	} else {
		ts.mode = entity.ModeWork
	}
	ts.remaining = ts.configuredSeconds(ctx, ts.mode)
	return nil
}

func (ts *TimerService) persistState(ctx context.Context) error {
	now := time.Now()
	state := entity.TimerState{
		Mode:      ts.mode,
		StartedAt: now,
		EndsAt:    now.Add(time.Duration(ts.remaining) * time.Second),
		IsActive:  true,
		IsPaused:  false,
	}
	raw, err := sonic.ConfigDefault.MarshalToString(state)
	if err != nil {
		return errors.New("marshalling timer state error: " + err.Error())
	}
	err = ts.kv.Set(ctx, timerStateKey, raw)
	if err != nil {
		return errors.New("kv store error: " + err.Error())
	}
	return nil
}

func (ts *TimerService) configuredSeconds(ctx context.Context, mode string) int {
	settings, err := ts.settings.Get(ctx)
	if err != nil {
		settings = &entity.Settings{
			WorkMinutes:  DefaultWorkMinutes,
			BreakMinutes: DefaultBreakMinutes,
		}
	}
	if mode == entity.ModeBreak {
		return settings.BreakMinutes * 60
	}
	return settings.WorkMinutes * 60
}

func (ts *TimerService) startLoop() {
	if ts.stop != nil {
		return
	}
	stop := make(chan struct{})
	ts.stop = stop
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				err := ts.Tick(context.Background())
				if err != nil {
					slog.Error("timer tick failed", slog.String("error", err.Error()))
				}
			}
		}
	}()
}

func (ts *TimerService) stopLoop() {
	if ts.stop != nil {
		close(ts.stop)
		ts.stop = nil
	}
}
