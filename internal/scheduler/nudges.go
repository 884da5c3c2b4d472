package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chris/nudge/internal/db"
	"github.com/chris/nudge/internal/notify"
	"github.com/m-mizutani/goerr/v2"
	"github.com/robfig/cron/v3"
)

const (
	defaultNudgeName = "evening-checkin"
	reloadInterval   = 5 * time.Minute
)

type ScheduleStore interface {
	ListSchedules(ctx context.Context, enabledOnly bool) ([]db.Schedule, error)
	CreateSchedule(ctx context.Context, name, cronExpr, message string) (int64, error)
	RecordScheduleRun(ctx context.Context, id int64) error
	ListUsers(ctx context.Context) ([]db.User, error)
}

// Nudges sends recurring plain messages (the daily check-in) to every known
// user. Cron expressions are read in the configured user timezone.
type Nudges struct {
	cron     *cron.Cron
	store    ScheduleStore
	notifier notify.Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	entryIDs map[int64]cron.EntryID // schedule id -> cron entry
}

func NewNudges(store ScheduleStore, notifier notify.Notifier, loc *time.Location, logger *slog.Logger) *Nudges {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	logger = logger.With("component", "nudges")
	cl := cronLogger{logger}
	return &Nudges{
		cron:     cron.New(cron.WithLocation(loc), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		store:    store,
		notifier: notifier,
		logger:   logger,
		entryIDs: make(map[int64]cron.EntryID),
	}
}

// SeedDefault inserts the check-in schedule when the table is empty.
func (n *Nudges) SeedDefault(ctx context.Context, cronExpr, message string) error {
	if cronExpr == "" {
		return nil
	}
	if _, err := cron.ParseStandard(cronExpr); err != nil {
		return goerr.Wrap(err, "invalid check-in cron expression", goerr.V("cron", cronExpr))
	}
	schedules, err := n.store.ListSchedules(ctx, false)
	if err != nil {
		return goerr.Wrap(err, "checking schedules")
	}
	if len(schedules) > 0 {
		return nil
	}
	if _, err := n.store.CreateSchedule(ctx, defaultNudgeName, cronExpr, message); err != nil {
		return goerr.Wrap(err, "seeding default schedule")
	}
	n.logger.Info("seeded default schedule", "cron", cronExpr)
	return nil
}

// Start loads schedules, starts the runner and reloads every few minutes
// until ctx is done.
func (n *Nudges) Start(ctx context.Context) error {
	if _, err := n.Load(ctx); err != nil {
		return err
	}
	n.cron.Start()
	go func() {
		t := time.NewTicker(reloadInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if _, err := n.Load(ctx); err != nil {
					n.logger.Error("reloading schedules", "error", err)
				}
			}
		}
	}()
	return nil
}

func (n *Nudges) Stop() context.Context {
	return n.cron.Stop()
}

// Load replaces all registered entries with the enabled schedules. Invalid
// cron expressions are skipped with a log line.
func (n *Nudges) Load(ctx context.Context) (int, error) {
	schedules, err := n.store.ListSchedules(ctx, true)
	if err != nil {
		return 0, goerr.Wrap(err, "loading schedules")
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	for _, id := range n.entryIDs {
		n.cron.Remove(id)
	}
	n.entryIDs = make(map[int64]cron.EntryID)

	for _, s := range schedules {
		entryID, err := n.cron.AddFunc(s.CronExpr, func() { n.run(context.Background(), s) })
		if err != nil {
			n.logger.Warn("invalid cron expression", "schedule", s.Name, "cron", s.CronExpr, "error", err)
			continue
		}
		n.entryIDs[s.ID] = entryID
	}
	n.logger.Debug("schedules loaded", "count", len(n.entryIDs))
	return len(n.entryIDs), nil
}

func (n *Nudges) run(ctx context.Context, s db.Schedule) {
	logger := n.logger.With("schedule", s.Name)
	users, err := n.store.ListUsers(ctx)
	if err != nil {
		logger.Error("listing users", "error", err)
		return
	}
	sent := 0
	for _, u := range users {
		if err := n.notifier.Send(ctx, u.ExternalID, s.Message); err != nil {
			logger.Warn("nudge delivery failed", "recipient", u.ExternalID, "error", err)
			continue
		}
		sent++
	}
	if err := n.store.RecordScheduleRun(ctx, s.ID); err != nil {
		logger.Error("recording run", "error", err)
	}
	logger.Info("nudge sent", "recipients", sent)
}
