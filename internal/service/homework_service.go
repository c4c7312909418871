package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	errorvalues "github.com/jjtjtyt6644/studify/internal/error_values"
	"github.com/jjtjtyt6644/studify/internal/notify"
	"github.com/jjtjtyt6644/studify/internal/repository"
	"github.com/jjtjtyt6644/studify/pkg/entity"
)

const (
	homeworksKey = "homeworks"

	// Due-day notifications fire at this local hour
	dueNotificationHour = 9
)

// HomeworkService keeps the homework collection as one JSON array, sorted
// ascending by due date after every mutation. Completing an item pays the
// ledger reward once; un-completing does not claw it back.
type HomeworkService struct {
	mu    sync.Mutex
	kv    repository.KVStoreI
	coins CoinsServiceI
	sched notify.Scheduler
}

func NewHomeworkService(kv repository.KVStoreI, coins CoinsServiceI, sched notify.Scheduler) *HomeworkService {
	if kv == nil || coins == nil || sched == nil {
		log.Fatal("provided nil deps to homework service")
	}
	return &HomeworkService{
		kv:    kv,
		coins: coins,
		sched: sched,
	}
}

func (hs *HomeworkService) Add(ctx context.Context, req *SaveHomeworkRequest) (*entity.Homework, error) {
	err := validate.Struct(req)
	if err != nil {
		return nil, errors.New("invalid homework: " + err.Error())
	}
	hs.mu.Lock()
	defer hs.mu.Unlock()
	items, err := hs.load(ctx)
	if err != nil {
		return nil, err
	}
	item := entity.Homework{
		ID:       uuid.New(),
		Title:    req.Title,
		Subject:  req.Subject,
		DueDate:  req.DueDate,
		Priority: req.Priority,
		Notes:    req.Notes,
	}
	items = append(items, item)
	err = hs.persist(ctx, items)
	if err != nil {
		return nil, err
	}
	hs.scheduleNotifications(&item)
	return &item, nil
}

func (hs *HomeworkService) Update(ctx context.Context, id uuid.UUID, req *SaveHomeworkRequest) (*entity.Homework, error) {
	err := validate.Struct(req)
	if err != nil {
		return nil, errors.New("invalid homework: " + err.Error())
	}
	hs.mu.Lock()
	defer hs.mu.Unlock()
	items, err := hs.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexByID(items, id)
	if idx < 0 {
		return nil, errorvalues.ErrHomeworkNotFound
	}
	items[idx].Title = req.Title
	items[idx].Subject = req.Subject
	items[idx].DueDate = req.DueDate
	items[idx].Priority = req.Priority
	items[idx].Notes = req.Notes
	// Copy before persisting: persist re-sorts the slice, so idx may point
	// at a different homework afterwards
	item := items[idx]
	err = hs.persist(ctx, items)
	if err != nil {
		return nil, err
	}
	hs.cancelNotifications(id)
	hs.scheduleNotifications(&item)
	return &item, nil
}

func (hs *HomeworkService) ToggleComplete(ctx context.Context, id uuid.UUID) (*entity.Homework, error) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	items, err := hs.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexByID(items, id)
	if idx < 0 {
		return nil, errorvalues.ErrHomeworkNotFound
	}
	items[idx].Completed = !items[idx].Completed
	item := items[idx]
	err = hs.persist(ctx, items)
	if err != nil {
		return nil, err
	}
	if item.Completed {
		hs.cancelNotifications(id)
		_, err = hs.coins.Credit(ctx, RewardHomeworkComplete, "Completed: "+item.Title)
		if err != nil {
			// Reward is best-effort, completion itself already persisted
			slog.Error("crediting homework reward failed", slog.String("error", err.Error()))
		}
	}
	return &item, nil
}

func (hs *HomeworkService) Remove(ctx context.Context, id uuid.UUID) error {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	items, err := hs.load(ctx)
	if err != nil {
		return err
	}
	idx := indexByID(items, id)
	if idx < 0 {
		return errorvalues.ErrHomeworkNotFound
	}
	hs.cancelNotifications(id)
	items = append(items[:idx], items[idx+1:]...)
	return hs.persist(ctx, items)
}

func (hs *HomeworkService) List(ctx context.Context) ([]entity.Homework, error) {
	return hs.load(ctx)
}

func (hs *HomeworkService) Pending(ctx context.Context) ([]entity.Homework, error) {
	items, err := hs.load(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]entity.Homework, 0, len(items))
	for _, item := range items {
		if !item.Completed {
			pending = append(pending, item)
		}
	}
	return pending, nil
}

func (hs *HomeworkService) Overdue(ctx context.Context) ([]entity.Homework, error) {
	items, err := hs.load(ctx)
	if err != nil {
		return nil, err
	}
	today := truncateToDay(time.Now())
	overdue := make([]entity.Homework, 0, len(items))
	for _, item := range items {
		if !item.Completed && truncateToDay(item.DueDate).Before(today) {
			overdue = append(overdue, item)
		}
	}
	return overdue, nil
}

// DueIn renders the calendar-day distance to the due date.
func DueIn(dueDate, now time.Time) string {
	days := int(truncateToDay(dueDate).Sub(truncateToDay(now)).Hours() / 24)
	switch {
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	case days == 0:
		return "Due today"
	case days == 1:
		return "Due tomorrow"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

func (hs *HomeworkService) load(ctx context.Context) ([]entity.Homework, error) {
	raw, err := hs.kv.Get(ctx, homeworksKey)
	if err != nil {
		if errors.Is(err, errorvalues.ErrKeyNotFound) {
			return []entity.Homework{}, nil
		}
		return nil, errors.New("kv store error: " + err.Error())
	}
	items := make([]entity.Homework, 0)
	err = sonic.ConfigDefault.UnmarshalFromString(raw, &items)
	if err != nil {
		return nil, errors.New("unmarshalling homeworks error: " + err.Error())
	}
	return items, nil
}

func (hs *HomeworkService) persist(ctx context.Context, items []entity.Homework) error {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DueDate.Before(items[j].DueDate)
	})
	raw, err := sonic.ConfigDefault.MarshalToString(items)
	if err != nil {
		return errors.New("marshalling homeworks error: " + err.Error())
	}
	err = hs.kv.Set(ctx, homeworksKey, raw)
	if err != nil {
		return errors.New("kv store error: " + err.Error())
	}
	return nil
}

// scheduleNotifications sets a due-day alert and a reminder 24 hours before
// it, skipping instants already in the past.
func (hs *HomeworkService) scheduleNotifications(item *entity.Homework) {
	due := item.DueDate
	dueAt := time.Date(due.Year(), due.Month(), due.Day(), dueNotificationHour, 0, 0, 0, due.Location())
	now := time.Now()
	if dueAt.After(now) {
		hs.sched.Schedule(item.ID.String(), dueAt,
			"Homework Due Today!", item.Subject+": "+item.Title)
		reminderAt := dueAt.AddDate(0, 0, -1)
		if reminderAt.After(now) {
			hs.sched.Schedule(item.ID.String()+"_reminder", reminderAt,
				"Homework Due Tomorrow!", item.Subject+": "+item.Title)
		}
	}
}

func (hs *HomeworkService) cancelNotifications(id uuid.UUID) {
	hs.sched.Cancel(id.String())
	hs.sched.Cancel(id.String() + "_reminder")
}

func indexByID(items []entity.Homework, id uuid.UUID) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
