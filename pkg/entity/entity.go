package entity

import (
	"time"

	"github.com/google/uuid"
)

// Timer modes and homework priorities are stored as plain strings so the
// persisted JSON stays readable in the kv store.
const (
	ModeWork  = "work"
	ModeBreak = "break"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type CoinTransaction struct {
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// TimerState is persisted only while the countdown is running. It carries
// wall-clock bounds so a restarted process can reconcile elapsed time.
type TimerState struct {
	Mode      string    `json:"mode"`
	StartedAt time.Time `json:"started_at"`
	EndsAt    time.Time `json:"ends_at"`
	IsActive  bool      `json:"is_active"`
	IsPaused  bool      `json:"is_paused"`
}

type Homework struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	DueDate   time.Time `json:"due_date"`
	Priority  string    `json:"priority"`
	Completed bool      `json:"completed"`
	Notes     string    `json:"notes"`
}

type Settings struct {
	WorkMinutes      int `json:"work_minutes"`
	BreakMinutes     int `json:"break_minutes"`
	LongBreakMinutes int `json:"long_break_minutes"`
}

type StudyMember struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StudyTime int       `json:"study_time"`
	IsOnBreak bool      `json:"is_on_break"`
	IsPaused  bool      `json:"is_paused"`
	JoinedAt  time.Time `json:"joined_at"`
}

type StudyRoom struct {
	Code           string        `json:"code"`
	HostName       string        `json:"host_name"`
	Members        []StudyMember `json:"members"`
	CreatedAt      time.Time     `json:"created_at"`
	TotalStudyTime int           `json:"total_study_time"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ShopItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Category    string `json:"category"`
}

type Pet struct {
	Name          string `json:"name"`
	Level         int    `json:"level"`
	XP            int    `json:"xp"`
	TotalSessions int    `json:"total_sessions"`
}
