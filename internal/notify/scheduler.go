package notify

import (
	"log/slog"
	"sync"
	"time"
)

// Scheduler is the boundary to the platform notification service. At most one
// notification is live per id: scheduling an id again replaces the pending one.
type Scheduler interface {
	Schedule(id string, at time.Time, title, body string)
	Cancel(id string)
}

// DeliverFunc receives the notification when its instant arrives.
type DeliverFunc func(id, title, body string)

// LocalScheduler fires notifications from in-process timers. Instants already
// in the past are dropped, matching how the app only schedules future triggers.
type LocalScheduler struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	deliver DeliverFunc
}

func NewLocalScheduler(deliver DeliverFunc) *LocalScheduler {
	if deliver == nil {
		deliver = func(id, title, body string) {
			slog.Info("notification fired",
				slog.String("id", id),
				slog.String("title", title),
				slog.String("body", body),
			)
		}
	}
	return &LocalScheduler{
		timers:  make(map[string]*time.Timer),
		deliver: deliver,
	}
}

func (ls *LocalScheduler) Schedule(id string, at time.Time, title, body string) {
	delay := time.Until(at)
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if t, ok := ls.timers[id]; ok {
		t.Stop()
		delete(ls.timers, id)
	}
	if delay <= 0 {
		return
	}
	ls.timers[id] = time.AfterFunc(delay, func() {
		ls.mu.Lock()
		delete(ls.timers, id)
		ls.mu.Unlock()
		ls.deliver(id, title, body)
	})
}

func (ls *LocalScheduler) Cancel(id string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if t, ok := ls.timers[id]; ok {
		t.Stop()
		delete(ls.timers, id)
	}
}

// CancelAll stops every pending timer, used as a shutdown cleanup job.
func (ls *LocalScheduler) CancelAll() error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for id, t := range ls.timers {
		t.Stop()
		delete(ls.timers, id)
	}
	return nil
}
