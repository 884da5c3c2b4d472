package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/chris/nudge/internal/db"
	"github.com/chris/nudge/internal/notify"
	"github.com/m-mizutani/goerr/v2"
)

type FocusStore interface {
	CreateFocusSession(ctx context.Context, userID int64, topic string, startedAt time.Time, duration time.Duration) (int64, error)
	CompleteFocusSession(ctx context.Context, id int64) error
}

// Focus runs pomodoro-style focus sessions on the same timers as reminders.
// Sessions are short and are not restored after a restart.
type Focus struct {
	timers   *Timers
	store    FocusStore
	notifier notify.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewFocus(timers *Timers, store FocusStore, notifier notify.Notifier, logger *slog.Logger) *Focus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Focus{
		timers:   timers,
		store:    store,
		notifier: notifier,
		logger:   logger.With("component", "focus"),
		now:      time.Now,
	}
}

func (f *Focus) Start(ctx context.Context, userID int64, recipient, topic string, d time.Duration) (*db.FocusSession, error) {
	start := f.now().UTC()
	id, err := f.store.CreateFocusSession(ctx, userID, topic, start, d)
	if err != nil {
		return nil, goerr.Wrap(err, "starting focus session")
	}
	ends := start.Add(d)
	f.timers.Set("focus:"+strconv.FormatInt(id, 10), ends, func() { f.finish(id, recipient, topic, d) })
	f.logger.Info("focus started", "session_id", id, "minutes", int(d.Minutes()))

	return &db.FocusSession{
		ID:              id,
		UserID:          userID,
		Topic:           topic,
		DurationMinutes: int(d.Minutes()),
		StartedAt:       start,
		EndsAt:          ends,
	}, nil
}

func (f *Focus) finish(id int64, recipient, topic string, d time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), fireTimeout)
	defer cancel()

	msg := fmt.Sprintf("Focus session over: %s (%d min). Take a short break.", topic, int(d.Minutes()))
	if err := f.notifier.Send(ctx, recipient, msg); err != nil {
		f.logger.Warn("focus delivery failed", "session_id", id, "error", err)
	}
	if err := f.store.CompleteFocusSession(ctx, id); err != nil {
		f.logger.Error("completing focus session", "session_id", id, "error", err)
	}
}
