package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/chris/nudge/internal/db"
	"github.com/chris/nudge/internal/notify"
	"github.com/m-mizutani/goerr/v2"
)

const (
	fireTimeout = 30 * time.Second
	// lateAfter is how late a firing may be before it is logged as such.
	lateAfter = 5 * time.Second
)

// ReminderStore is the durable side of reminders. Its completion flag is the
// source of truth; the in-memory timers only record the intent to fire.
type ReminderStore interface {
	GetReminder(ctx context.Context, id int64) (*db.Reminder, error)
	ListActiveFutureReminders(ctx context.Context, now time.Time) ([]db.Reminder, error)
	MarkReminderCompleted(ctx context.Context, id int64) (bool, error)
	DeleteReminder(ctx context.Context, id int64) (bool, error)
}

// Reminders arms one timer per active reminder. A reminder goes from
// scheduled to either fired or cancelled, and both are terminal.
//
// Delivery is at most once: if the notifier fails, the failure is logged and
// the reminder is still marked completed. Nothing is retried.
type Reminders struct {
	timers   *Timers
	store    ReminderStore
	notifier notify.Notifier
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	inflight map[int64]bool
}

func NewReminders(timers *Timers, store ReminderStore, notifier notify.Notifier, logger *slog.Logger) *Reminders {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reminders{
		timers:   timers,
		store:    store,
		notifier: notifier,
		logger:   logger.With("component", "scheduler"),
		now:      time.Now,
		inflight: make(map[int64]bool),
	}
}

func reminderKey(id int64) string {
	return "reminder:" + strconv.FormatInt(id, 10)
}

// Arm registers the one-shot timer for a reminder, replacing any timer
// already armed for the same id.
func (r *Reminders) Arm(id int64, fireAt time.Time, recipient string) {
	r.timers.Set(reminderKey(id), fireAt, func() { r.fire(id, fireAt, recipient) })
}

// Disarm drops a pending timer. It is a no-op if the reminder already fired
// or was never armed.
func (r *Reminders) Disarm(id int64) {
	r.timers.Cancel(reminderKey(id))
}

func (r *Reminders) Armed(id int64) bool {
	return r.timers.Pending(reminderKey(id))
}

// OnBoot re-arms every uncompleted reminder whose fire time is still ahead.
// Reminders that came due while the process was down are left alone. A
// store failure here is fatal for startup.
func (r *Reminders) OnBoot(ctx context.Context) (int, error) {
	pending, err := r.store.ListActiveFutureReminders(ctx, r.now().UTC())
	if err != nil {
		return 0, goerr.Wrap(err, "loading reminders at boot")
	}
	for _, rem := range pending {
		r.Arm(rem.ID, rem.FireAt, rem.Recipient)
	}
	r.logger.Info("reminders re-armed", "count", len(pending))
	return len(pending), nil
}

// Complete marks a reminder done and disarms it.
func (r *Reminders) Complete(ctx context.Context, id int64) (bool, error) {
	changed, err := r.store.MarkReminderCompleted(ctx, id)
	if err != nil {
		return false, goerr.Wrap(err, "completing reminder", goerr.V("id", id))
	}
	r.Disarm(id)
	return changed, nil
}

// Cancel deletes a reminder and disarms it.
func (r *Reminders) Cancel(ctx context.Context, id int64) (bool, error) {
	deleted, err := r.store.DeleteReminder(ctx, id)
	if err != nil {
		return false, goerr.Wrap(err, "deleting reminder", goerr.V("id", id))
	}
	r.Disarm(id)
	return deleted, nil
}

// fire delivers one reminder. The completion flag is re-read right before
// sending so a reminder completed or deleted after arming is skipped.
func (r *Reminders) fire(id int64, fireAt time.Time, recipient string) {
	if !r.begin(id) {
		return
	}
	defer r.end(id)

	ctx, cancel := context.WithTimeout(context.Background(), fireTimeout)
	defer cancel()
	logger := r.logger.With("reminder_id", id)

	if late := r.now().Sub(fireAt); late > lateAfter {
		logger.Warn("reminder firing late", "late", late.Round(time.Second))
	}

	rem, err := r.store.GetReminder(ctx, id)
	if err != nil {
		logger.Error("loading reminder", "error", err)
		return
	}
	if rem == nil || rem.Completed {
		logger.Debug("reminder no longer active, skipping")
		return
	}
	if rem.Recipient != "" {
		recipient = rem.Recipient
	}

	if err := r.notifier.Send(ctx, recipient, fmt.Sprintf("Reminder: %s", rem.Text)); err != nil {
		logger.Warn("reminder delivery failed", "recipient", recipient, "error", err)
	}
	if _, err := r.store.MarkReminderCompleted(ctx, id); err != nil {
		logger.Error("marking reminder completed", "error", err)
		return
	}
	logger.Info("reminder fired", "recipient", recipient)
}

func (r *Reminders) begin(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inflight[id] {
		return false
	}
	r.inflight[id] = true
	return true
}

func (r *Reminders) end(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inflight, id)
}
