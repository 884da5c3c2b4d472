package db

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = goerr.New("not found")

type User struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"external_id"`
	Timezone   string `json:"timezone"`
	CreatedAt  string `json:"created_at"`
}

// Reminder is a durable one-shot reminder. FireAt is always UTC.
type Reminder struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Recipient string    `json:"recipient"` // owner's external id, joined from users
	Text      string    `json:"text"`
	FireAt    time.Time `json:"fire_at"`
	Completed bool      `json:"completed"`
	Recurring bool      `json:"recurring"`
	CreatedAt string    `json:"created_at"`
}

type Note struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

type FocusSession struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Topic           string    `json:"topic"`
	DurationMinutes int       `json:"duration_minutes"`
	StartedAt       time.Time `json:"started_at"`
	EndsAt          time.Time `json:"ends_at"`
	Completed       bool      `json:"completed"`
}

type Schedule struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CronExpr  string `json:"cron_expr"`
	Message   string `json:"message"`
	Enabled   bool   `json:"enabled"`
	LastRun   string `json:"last_run,omitempty"`
	CreatedAt string `json:"created_at"`
}
