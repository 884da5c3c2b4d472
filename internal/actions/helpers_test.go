package actions

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chris/nudge/internal/db"
	"github.com/chris/nudge/internal/llm"
	"github.com/chris/nudge/internal/timeparse"
	"github.com/m-mizutani/gt"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type armed struct {
	id        int64
	at        time.Time
	recipient string
}

type fakeScheduler struct {
	mu        sync.Mutex
	store     *db.DB
	armed     []armed
	completed []int64
}

func (f *fakeScheduler) Arm(id int64, at time.Time, recipient string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.armed = append(f.armed, armed{id, at, recipient})
}

func (f *fakeScheduler) Complete(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	f.completed = append(f.completed, id)
	f.mu.Unlock()
	return f.store.MarkReminderCompleted(ctx, id)
}

type fakeFocus struct {
	topic    string
	duration time.Duration
}

func (f *fakeFocus) Start(_ context.Context, userID int64, _, topic string, d time.Duration) (*db.FocusSession, error) {
	f.topic, f.duration = topic, d
	return &db.FocusSession{ID: 1, UserID: userID, Topic: topic, StartedAt: testNow, EndsAt: testNow.Add(d)}, nil
}

type fixture struct {
	store    *db.DB
	sched    *fakeScheduler
	focus    *fakeFocus
	registry *Registry
	caller   Caller
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	store, err := db.Open(":memory:")
	gt.NoError(t, err).Required()
	t.Cleanup(func() { store.Close() })

	f := &fixture{
		store:  store,
		sched:  &fakeScheduler{store: store},
		focus:  &fakeFocus{},
		caller: Caller{ExternalID: "42", Location: time.UTC},
	}
	deps := &Deps{
		Users:           store,
		Reminders:       store,
		Notes:           store,
		Energy:          store,
		Scheduler:       f.sched,
		Focus:           f.focus,
		Resolver:        timeparse.New(),
		Now:             func() time.Time { return now },
		DefaultTimezone: "UTC",
		FocusMinutes:    25,
	}
	f.registry, err = NewRegistry(Default(deps)...)
	gt.NoError(t, err).Required()
	return f
}

func (f *fixture) run(name string, params map[string]any) Result {
	return f.registry.Execute(context.Background(), f.caller, llm.ToolCall{ID: "t", Name: name, Params: params})
}

func (f *fixture) user(t *testing.T) int64 {
	t.Helper()
	u, err := f.store.GetOrCreateUser(context.Background(), f.caller.ExternalID, "UTC")
	gt.NoError(t, err).Required()
	return u.ID
}
