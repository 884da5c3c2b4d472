package timeparse

import (
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
)

var snapshot = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func madrid(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Madrid")
	gt.NoError(t, err).Required()
	return loc
}

func TestResolveRelativeMinutes(t *testing.T) {
	r := New()
	for _, text := range []string{"через 10 минут", "in 10 minutes"} {
		t.Run(text, func(t *testing.T) {
			res, err := r.Resolve(text, snapshot, madrid(t))
			gt.NoError(t, err).Required()
			gt.Value(t, res.UTC).Equal(time.Date(2025, 6, 1, 12, 10, 0, 0, time.UTC))
			gt.Value(t, res.Local.Location().String()).Equal("Europe/Madrid")
		})
	}
}

func TestResolveRelativeIsExactOffset(t *testing.T) {
	r := New()
	units := []struct {
		ru, en string
		d      time.Duration
	}{
		{"минут", "minutes", time.Minute},
		{"часов", "hours", time.Hour},
	}
	for _, n := range []int{2, 5, 15, 45} {
		for _, u := range units {
			for _, text := range []string{
				fmt.Sprintf("через %d %s", n, u.ru),
				fmt.Sprintf("in %d %s", n, u.en),
			} {
				res, err := r.Resolve(text, snapshot, time.UTC)
				gt.NoError(t, err).Required()
				gt.Value(t, res.UTC.Sub(snapshot)).Equal(time.Duration(n) * u.d)
			}
		}
	}
}

func TestRelativeDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"10 минут":         10 * time.Minute,
		"1 минуту":         time.Minute,
		"час":              time.Hour,
		"полчаса":          30 * time.Minute,
		"полтора часа":     90 * time.Minute,
		"2 часа 30 минут":  150 * time.Minute,
		"2 часа и 5 минут": 125 * time.Minute,
		"45 seconds":       45 * time.Second,
		"an hour":          time.Hour,
		"5 минут позвонить Мине": 5 * time.Minute,
	}
	for in, want := range cases {
		d, ok := relativeDuration(in)
		gt.Bool(t, ok).True()
		gt.Value(t, d).Equal(want)
	}

	_, ok := relativeDuration("неделю")
	gt.Bool(t, ok).False()
}

func TestRelativeTail(t *testing.T) {
	rest, ok := relativeTail("напомни через 10 минут выпить воды")
	gt.Bool(t, ok).True()
	gt.String(t, rest).Contains("10 минут")

	_, ok = relativeTail("in the evening")
	gt.Bool(t, ok).False()
	_, ok = relativeTail("завтра в 9")
	gt.Bool(t, ok).False()
}

func TestResolveDayParts(t *testing.T) {
	loc := madrid(t)
	r := New()
	// 12:00Z is 14:00 in Madrid during summer time.
	cases := []struct {
		text string
		want time.Time
	}{
		{"завтра утром", time.Date(2025, 6, 2, 9, 0, 0, 0, loc)},
		{"вечером", time.Date(2025, 6, 1, 19, 0, 0, 0, loc)},
		{"в обед", time.Date(2025, 6, 2, 13, 0, 0, 0, loc)},
		{"tomorrow in the morning", time.Date(2025, 6, 2, 9, 0, 0, 0, loc)},
		{"послезавтра ночью", time.Date(2025, 6, 3, 22, 0, 0, 0, loc)},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			res, err := r.Resolve(tc.text, snapshot, loc)
			gt.NoError(t, err).Required()
			gt.Value(t, res.UTC).Equal(tc.want.UTC())
			gt.Value(t, res.Source).Equal("daypart")
		})
	}
}

func TestResolveClockTimes(t *testing.T) {
	loc := madrid(t)
	r := New()
	// now is 14:00 local
	cases := []struct {
		text string
		want time.Time
	}{
		{"напомни позвонить маме завтра в 10", time.Date(2025, 6, 2, 10, 0, 0, 0, loc)},
		{"завтра в 3 часа", time.Date(2025, 6, 2, 15, 0, 0, 0, loc)},
		{"завтра в 15:00", time.Date(2025, 6, 2, 15, 0, 0, 0, loc)},
		{"послезавтра в 9:30", time.Date(2025, 6, 3, 9, 30, 0, 0, loc)},
		{"в 15 часов", time.Date(2025, 6, 1, 15, 0, 0, 0, loc)},
		{"в 10", time.Date(2025, 6, 2, 10, 0, 0, 0, loc)},
		{"в 9:30", time.Date(2025, 6, 2, 9, 30, 0, 0, loc)},
		{"к 18:45 сдать отчёт", time.Date(2025, 6, 1, 18, 45, 0, 0, loc)},
		{"в 8 вечера", time.Date(2025, 6, 1, 20, 0, 0, 0, loc)},
		{"завтра в 7 утра", time.Date(2025, 6, 2, 7, 0, 0, 0, loc)},
		{"в 3 часа дня", time.Date(2025, 6, 1, 15, 0, 0, 0, loc)},
		{"в 2 ночи", time.Date(2025, 6, 2, 2, 0, 0, 0, loc)},
		{"завтра утром в 5", time.Date(2025, 6, 2, 5, 0, 0, 0, loc)},
		{"вечером в 7", time.Date(2025, 6, 1, 19, 0, 0, 0, loc)},
		{"tomorrow at 3pm", time.Date(2025, 6, 2, 15, 0, 0, 0, loc)},
		{"remind me at 9am", time.Date(2025, 6, 2, 9, 0, 0, 0, loc)},
		{"at 16:20", time.Date(2025, 6, 1, 16, 20, 0, 0, loc)},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			res, err := r.Resolve(tc.text, snapshot, loc)
			gt.NoError(t, err).Required()
			gt.Value(t, res.Local.Format(time.DateTime)).Equal(tc.want.Format(time.DateTime))
			gt.Value(t, res.UTC).Equal(tc.want.UTC())
			gt.Value(t, res.Source).Equal("clock")
		})
	}
}

func TestResolveClockTodayInPast(t *testing.T) {
	res, err := New().Resolve("сегодня в 9", snapshot, madrid(t))
	gt.Error(t, err).Is(ErrPastTime)
	gt.Value(t, res.Local.Hour()).Equal(9)
	gt.Value(t, res.Local.Day()).Equal(1)
}

func TestClockOfIgnoresCounts(t *testing.T) {
	for _, text := range []string{
		"купить 2 хлеба",
		"в 10 минут",
		"к 5 июня",
		"в 2025 году",
		"at 3 days",
	} {
		_, _, ok := clockOf(text)
		gt.Bool(t, ok).False()
	}
}

func TestResolveTomorrowKeepsTimeOfDay(t *testing.T) {
	loc := madrid(t)
	res, err := New().Resolve("завтра", snapshot, loc)
	gt.NoError(t, err).Required()
	gt.Value(t, res.UTC.Format(time.RFC3339)).Equal("2025-06-02T12:00:00Z")
	gt.Value(t, res.Source).Equal("parser")
}

func TestResolveCompoundRelative(t *testing.T) {
	r := New()
	cases := map[string]time.Duration{
		"через 2 часа 30 минут":  150 * time.Minute,
		"in 1 hour 30 minutes":   90 * time.Minute,
		"через 1 час и 5 минут":  65 * time.Minute,
		"напомни через полчаса":  30 * time.Minute,
		"через полтора часа":     90 * time.Minute,
		"after 2 hours 1 minute": 121 * time.Minute,
	}
	for text, want := range cases {
		t.Run(text, func(t *testing.T) {
			res, err := r.Resolve(text, snapshot, madrid(t))
			gt.NoError(t, err).Required()
			gt.Value(t, res.UTC.Sub(snapshot)).Equal(want)
			gt.Value(t, res.Source).Equal("relative")
		})
	}
}

func TestResolveTodayDayPartInPast(t *testing.T) {
	_, err := New().Resolve("сегодня утром", snapshot, madrid(t))
	gt.Error(t, err).Is(ErrPastTime)
}

func TestResolveUnresolved(t *testing.T) {
	r := New()
	for _, text := range []string{"", "   ", "когда-нибудь потом"} {
		_, err := r.Resolve(text, snapshot, time.UTC)
		gt.Error(t, err).Is(ErrUnresolved)
	}
}

func TestResolveNilLocationIsUTC(t *testing.T) {
	res, err := New().Resolve("через 1 час", snapshot, nil)
	gt.NoError(t, err).Required()
	gt.Value(t, res.UTC).Equal(snapshot.Add(time.Hour))
	gt.Value(t, res.Local.Location()).Equal(time.UTC)
}

func TestPreferFuture(t *testing.T) {
	localNow := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	early := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	gt.Value(t, preferFuture(early, localNow, "at 9am")).Equal(early.AddDate(0, 0, 1))
	gt.Value(t, preferFuture(early, localNow, "today at 9am")).Equal(early)

	later := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	gt.Value(t, preferFuture(later, localNow, "at 11am")).Equal(later)
}

func TestAttachZone(t *testing.T) {
	loc := madrid(t)
	bare := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	got := attachZone(bare, loc)
	gt.Value(t, got.Hour()).Equal(15)
	gt.Value(t, got.Location()).Equal(loc)

	zoned := time.Date(2025, 6, 1, 15, 0, 0, 0, loc)
	gt.Value(t, attachZone(zoned, loc)).Equal(zoned)
}

func TestContainsWord(t *testing.T) {
	gt.Bool(t, containsWord("сегодня в 9", "сегодня")).True()
	gt.Bool(t, containsWord("послезавтра утром", "завтра")).False()
	gt.Bool(t, containsWord("today", "today")).True()
	gt.Bool(t, containsWord("todays", "today")).False()
}
