// Package timeparse turns free-form Russian or English time expressions into
// absolute UTC instants relative to a caller-supplied "now".
package timeparse

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/olebedev/when/rules/ru"
)

var (
	ErrUnresolved = goerr.New("time expression could not be resolved")
	ErrPastTime   = goerr.New("time already passed")
)

// Confidence grades how the instant was obtained.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	default:
		return "low"
	}
}

// Resolved is an intermediate value; only UTC is ever persisted.
type Resolved struct {
	UTC        time.Time
	Local      time.Time
	Confidence Confidence
	Source     string // relative, clock, daypart, parser
}

// Resolver is safe for concurrent use; the underlying parser holds only its
// rule set.
type Resolver struct {
	parser *when.Parser
}

func New() *Resolver {
	w := when.New(nil)
	w.Add(ru.All...)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Resolver{parser: w}
}

// Resolve interprets text against now in the user's zone. now is read once by
// the caller; both the zone-local reference handed to the parser and the
// instant used for arithmetic derive from it.
//
// A result that is not strictly after now is returned together with
// ErrPastTime so callers can show what was understood.
func (r *Resolver) Resolve(text string, now time.Time, loc *time.Location) (Resolved, error) {
	if loc == nil {
		loc = time.UTC
	}
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return Resolved{}, goerr.Wrap(ErrUnresolved, "empty time expression")
	}
	localNow := now.In(loc)

	var cand time.Time
	var res Resolved

	if rest, ok := relativeTail(lower); ok {
		if d, ok := relativeDuration(rest); ok {
			cand, res.Confidence, res.Source = now.Add(d), ConfidenceHigh, "relative"
		} else if t, ok := r.parse(lower, localNow, loc); ok && t.After(now) {
			cand, res.Confidence, res.Source = t, ConfidenceMedium, "parser"
		}
	} else if t, ok := r.atClock(lower, localNow, loc); ok {
		cand, res.Confidence, res.Source = t, ConfidenceHigh, "clock"
	} else if t, ok := dayPart(lower, localNow); ok {
		cand, res.Confidence, res.Source = t, ConfidenceMedium, "daypart"
	} else if t, ok := r.parse(lower, localNow, loc); ok {
		cand, res.Confidence, res.Source = preferFuture(t, localNow, lower), ConfidenceHigh, "parser"
	}

	if cand.IsZero() {
		return Resolved{}, goerr.Wrap(ErrUnresolved, "no time found", goerr.V("text", text))
	}

	res.UTC = cand.UTC()
	res.Local = cand.In(loc)
	if !res.UTC.After(now) {
		return res, goerr.Wrap(ErrPastTime, "resolved time is not in the future",
			goerr.V("time", res.UTC.Format(time.RFC3339)),
			goerr.V("now", now.UTC().Format(time.RFC3339)))
	}
	return res, nil
}

func (r *Resolver) parse(text string, localNow time.Time, loc *time.Location) (time.Time, bool) {
	m, err := r.parser.Parse(text, localNow)
	if err != nil || m == nil {
		return time.Time{}, false
	}
	return attachZone(m.Time, loc), true
}

// attachZone gives a zone-less parser result the user's zone. A result in
// UTC while the user is elsewhere is taken as a bare wall-clock reading.
func attachZone(t time.Time, loc *time.Location) time.Time {
	if t.Location() == loc || loc == time.UTC {
		return t
	}
	if t.Location() == time.UTC {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
	}
	return t
}

// preferFuture rolls a time-of-day that already passed today to tomorrow,
// unless the user explicitly said "today".
func preferFuture(t, localNow time.Time, lower string) time.Time {
	if t.After(localNow) || mentionsToday(lower) || !sameDay(t, localNow) {
		return t
	}
	return t.AddDate(0, 0, 1)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func mentionsToday(lower string) bool {
	return containsWord(lower, "сегодня") || containsWord(lower, "today")
}
