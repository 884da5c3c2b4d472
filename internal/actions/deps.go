package actions

import (
	"context"
	"time"

	"github.com/chris/nudge/internal/db"
	"github.com/chris/nudge/internal/timeparse"
	"github.com/m-mizutani/goerr/v2"
)

type UserStore interface {
	GetOrCreateUser(ctx context.Context, externalID, defaultTZ string) (*db.User, error)
}

type ReminderStore interface {
	CreateReminder(ctx context.Context, userID int64, text string, fireAt time.Time, recurring bool) (int64, error)
	GetReminder(ctx context.Context, id int64) (*db.Reminder, error)
	ListUserReminders(ctx context.Context, userID int64, completed bool, limit int) ([]db.Reminder, error)
}

type NoteStore interface {
	SaveNote(ctx context.Context, userID int64, text string) (int64, error)
}

type EnergyStore interface {
	SaveEnergyLevel(ctx context.Context, userID int64, level int) error
	LatestEnergySince(ctx context.Context, userID int64, since time.Time) (int, bool, error)
}

// Scheduler is the part of the reminder scheduler handlers need.
type Scheduler interface {
	Arm(id int64, fireAt time.Time, recipient string)
	Complete(ctx context.Context, id int64) (bool, error)
}

type FocusTimer interface {
	Start(ctx context.Context, userID int64, recipient, topic string, d time.Duration) (*db.FocusSession, error)
}

// Deps wires handlers to their stores. Now defaults to time.Now.
type Deps struct {
	Users           UserStore
	Reminders       ReminderStore
	Notes           NoteStore
	Energy          EnergyStore
	Scheduler       Scheduler
	Focus           FocusTimer
	Resolver        *timeparse.Resolver
	Now             func() time.Time
	DefaultTimezone string
	FocusMinutes    int
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

func (d *Deps) user(ctx context.Context, c Caller) (*db.User, error) {
	u, err := d.Users.GetOrCreateUser(ctx, c.ExternalID, d.DefaultTimezone)
	if err != nil {
		return nil, goerr.Wrap(ErrStore, "failed to resolve user", goerr.V("user", c.ExternalID), goerr.V("cause", err.Error()))
	}
	return u, nil
}

// storeFailure is the reply for any persistence error.
func storeFailure(err error) Result {
	return Fail(err, "I couldn't save that right now. Please try again in a minute.")
}

// Default returns the full action palette in the order it is shown to the
// model.
func Default(d *Deps) []Action {
	return []Action{
		createReminder(d),
		addNote(d),
		startFocusTimer(d),
		resolveTimeExpression(d),
		getEnergyLevel(d),
		recordEnergyLevel(d),
		breakDownTask(),
		completeReminder(d),
		listReminders(d),
	}
}
