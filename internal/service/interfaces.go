package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jjtjtyt6644/studify/pkg/entity"
)

type SaveHomeworkRequest struct {
	Title    string    `validate:"required,max=200"`
	Subject  string    `validate:"required,max=100"`
	DueDate  time.Time `validate:"required"`
	Priority string    `validate:"required,oneof=low medium high"`
	Notes    string    `validate:"max=2000"`
}

type UpdateSettingsRequest struct {
	WorkMinutes      int `validate:"min=1,max=120"`
	BreakMinutes     int `validate:"min=1,max=60"`
	LongBreakMinutes int `validate:"min=1,max=60"`
}

// TimerSnapshot is the displayable countdown state: minutes and seconds are
// derived from the total remaining seconds.
type TimerSnapshot struct {
	Mode              string `json:"mode"`
	Minutes           int    `json:"minutes"`
	Seconds           int    `json:"seconds"`
	IsActive          bool   `json:"is_active"`
	IsPaused          bool   `json:"is_paused"`
	CompletedSessions int    `json:"completed_sessions"`
}

type CoinsServiceI interface {
	// Current balance. Absent or unparsable stored value reads as 0
	Balance(ctx context.Context) (int, error)
	// Adds amount to the balance and logs a transaction. Returns new balance
	Credit(ctx context.Context, amount int, reason string) (int, error)
	// Subtracts amount if the balance covers it and logs a transaction.
	// Returns false without mutating anything when funds are insufficient
	Debit(ctx context.Context, amount int, reason string) (bool, error)
	// Transaction log, newest first, capped
	History(ctx context.Context) ([]entity.CoinTransaction, error)
}

type TimerServiceI interface {
	State(ctx context.Context) TimerSnapshot
	Start(ctx context.Context) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Reset(ctx context.Context) error
	// Advances the countdown by one second while running
	Tick(ctx context.Context) error
	// Reconciles a persisted countdown against wall-clock time on startup
	Restore(ctx context.Context) error
}

type HomeworkServiceI interface {
	Add(ctx context.Context, req *SaveHomeworkRequest) (*entity.Homework, error)
	Update(ctx context.Context, id uuid.UUID, req *SaveHomeworkRequest) (*entity.Homework, error)
	ToggleComplete(ctx context.Context, id uuid.UUID) (*entity.Homework, error)
	Remove(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.Homework, error)
	Pending(ctx context.Context) ([]entity.Homework, error)
	Overdue(ctx context.Context) ([]entity.Homework, error)
}

type SettingsServiceI interface {
	Get(ctx context.Context) (*entity.Settings, error)
	Update(ctx context.Context, req *UpdateSettingsRequest) error
	Reset(ctx context.Context) error
	// Fired synchronously after every successful mutation
	RegisterObserver(fn func())
}

type StatsServiceI interface {
	RecordCompletedSession(ctx context.Context) error
	CompletedSessions(ctx context.Context) (int, error)
	CalendarSessions(ctx context.Context) (map[string]int, error)
	TodaySessions(ctx context.Context) (int, error)
	// Consecutive trailing days with at least one completed session,
	// counted back from today
	Streak(ctx context.Context) (int, error)
	AddAppTime(ctx context.Context, minutes int) error
	AppTimeToday(ctx context.Context) (int, error)
	TotalStudyMinutes(ctx context.Context) (int, error)
	RegisterObserver(fn func())
}

type RoomsServiceI interface {
	Create(ctx context.Context, hostID, hostName string) (*entity.StudyRoom, error)
	Join(ctx context.Context, code, memberID, name string) (*entity.StudyRoom, error)
	Leave(ctx context.Context, code, memberID string) error
	Get(ctx context.Context, code string) (*entity.StudyRoom, error)
	// Adds one minute to the member's study time unless on break or paused,
	// and recomputes the room aggregate
	TickStudyTime(ctx context.Context, code, memberID string) (*entity.StudyRoom, error)
	ToggleBreak(ctx context.Context, code, memberID string) (*entity.StudyRoom, error)
	TogglePause(ctx context.Context, code, memberID string) (*entity.StudyRoom, error)
	StartStudying(ctx context.Context, code, memberID string) (*entity.StudyRoom, error)
	Watch(ctx context.Context, code string) (<-chan *entity.StudyRoom, func(), error)
}

type ShopServiceI interface {
	Items() []entity.ShopItem
	Owned(ctx context.Context) ([]string, error)
	Purchase(ctx context.Context, itemID string) error
}

type PetServiceI interface {
	Get(ctx context.Context) (*entity.Pet, error)
	// Grants XP for work sessions completed since the last sync
	Sync(ctx context.Context) (*entity.Pet, error)
}

type ChatServiceI interface {
	// Sends the conversation plus the new user message to the assistant.
	// Failures degrade to a single fallback assistant message
	SendMessage(ctx context.Context, history []entity.ChatMessage, text string) entity.ChatMessage
}
