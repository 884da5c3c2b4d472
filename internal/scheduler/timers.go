// Package scheduler owns every time-driven job: one-shot reminder and focus
// timers, and recurring nudges. All of them run on robfig/cron.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// onceAt is a cron.Schedule that activates exactly once. The first Next
// returns the instant even when it is already due, so cron runs it on its
// next tick; every later call returns the zero time, which cron reads as
// "never".
type onceAt struct {
	at   time.Time
	used atomic.Bool
}

func (o *onceAt) Next(time.Time) time.Time {
	if o.used.Swap(true) {
		return time.Time{}
	}
	return o.at
}

type timerEntry struct {
	id  cron.EntryID
	gen uint64
}

// Timers is a registry of keyed one-shot jobs. Setting a key again replaces
// the pending job; each Set fires at most once.
type Timers struct {
	cron    *cron.Cron
	logger  *slog.Logger
	mu      sync.Mutex
	gen     uint64
	entries map[string]timerEntry
}

// NewTimers starts the underlying cron runner; call Stop on shutdown.
func NewTimers(logger *slog.Logger) *Timers {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "scheduler")
	cl := cronLogger{logger}
	t := &Timers{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		logger:  logger,
		entries: make(map[string]timerEntry),
	}
	t.cron.Start()
	return t
}

// Set arms fn to run at at. An instant that is already due runs on the
// runner's next tick.
func (t *Timers) Set(key string, at time.Time, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.removeLocked(key)
	t.gen++
	gen := t.gen
	id := t.cron.Schedule(&onceAt{at: at.UTC()}, cron.FuncJob(func() { t.run(key, gen, fn) }))
	t.entries[key] = timerEntry{id: id, gen: gen}
	t.logger.Debug("timer set", "key", key, "at", at.UTC())
}

// Cancel removes a pending job. It reports whether one was pending.
func (t *Timers) Cancel(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.removeLocked(key)
}

func (t *Timers) Pending(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[key]
	return ok
}

func (t *Timers) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Stop halts the runner and returns a context that is done once running jobs
// have finished.
func (t *Timers) Stop() context.Context {
	return t.cron.Stop()
}

func (t *Timers) run(key string, gen uint64, fn func()) {
	t.mu.Lock()
	e, ok := t.entries[key]
	if !ok || e.gen != gen {
		t.mu.Unlock()
		return
	}
	delete(t.entries, key)
	t.cron.Remove(e.id)
	t.mu.Unlock()
	fn()
}

func (t *Timers) removeLocked(key string) bool {
	e, ok := t.entries[key]
	if !ok {
		return false
	}
	t.cron.Remove(e.id)
	delete(t.entries, key)
	return true
}

// cronLogger routes cron's own logging to slog.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
