package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
)

func TestCreateReminderPersistsAndArms(t *testing.T) {
	f := newFixture(t, testNow)
	want := time.Date(2025, 6, 1, 12, 10, 0, 0, time.UTC)

	res := f.run("create_reminder", map[string]any{"text": "выпить воды", "when_iso": "2025-06-01T12:10:00Z"})
	gt.Bool(t, res.Success).True()
	gt.String(t, res.Message).Contains("выпить воды")
	gt.String(t, res.Message).Contains("10 minutes from now")

	gt.Array(t, f.sched.armed).Length(1)
	gt.Bool(t, f.sched.armed[0].at.Equal(want)).True()
	gt.Value(t, f.sched.armed[0].recipient).Equal("42")

	r, err := f.store.GetReminder(context.Background(), f.sched.armed[0].id)
	gt.NoError(t, err).Required()
	gt.Value(t, r).NotNil()
	gt.Bool(t, r.FireAt.Equal(want)).True()
	gt.Value(t, res.Payload["fire_at"]).Equal("2025-06-01T12:10:00Z")
}

func TestCreateReminderUsesStoredSecond(t *testing.T) {
	f := newFixture(t, testNow)
	want := time.Date(2025, 6, 1, 12, 10, 0, 0, time.UTC)

	res := f.run("create_reminder", map[string]any{"text": "x", "when_iso": "2025-06-01T12:10:00.750Z"})
	gt.Bool(t, res.Success).True()
	gt.Value(t, res.Payload["fire_at"]).Equal("2025-06-01T12:10:00Z")
	gt.Array(t, f.sched.armed).Length(1).Required()
	gt.Bool(t, f.sched.armed[0].at.Equal(want)).True()

	r, err := f.store.GetReminder(context.Background(), f.sched.armed[0].id)
	gt.NoError(t, err).Required()
	gt.Value(t, r).NotNil().Required()
	gt.Bool(t, r.FireAt.Equal(f.sched.armed[0].at)).True()
}

func TestCreateReminderSubSecondAheadIsPast(t *testing.T) {
	f := newFixture(t, testNow)
	res := f.run("create_reminder", map[string]any{"text": "x", "when_iso": "2025-06-01T12:00:00.500Z"})
	gt.Bool(t, errors.Is(res.Err, ErrPastTime)).True()
	gt.Array(t, f.sched.armed).Length(0)
}

func TestCreateReminderZonelessIsUTC(t *testing.T) {
	f := newFixture(t, testNow)
	res := f.run("create_reminder", map[string]any{"text": "x", "when_iso": "2025-06-01 13:00:00"})
	gt.Bool(t, res.Success).True()
	gt.Bool(t, f.sched.armed[0].at.Equal(time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC))).True()
}

func TestCreateReminderRejectsPastTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	res := f.run("create_reminder", map[string]any{"text": "встреча", "when_iso": "2025-06-01T08:00:00Z"})
	gt.Bool(t, res.Success).False()
	gt.Bool(t, errors.Is(res.Err, ErrPastTime)).True()
	gt.String(t, res.Message).Contains("already passed")
	gt.String(t, res.Message).Contains("08:00")

	gt.Array(t, f.sched.armed).Length(0)
	all, err := f.store.ListActiveFutureReminders(context.Background(), time.Time{})
	gt.NoError(t, err).Required()
	gt.Array(t, all).Length(0)
}

func TestCreateReminderRejectsNow(t *testing.T) {
	f := newFixture(t, testNow)
	res := f.run("create_reminder", map[string]any{"text": "x", "when_iso": "2025-06-01T12:00:00Z"})
	gt.Bool(t, errors.Is(res.Err, ErrPastTime)).True()
}

func TestCreateReminderValidation(t *testing.T) {
	f := newFixture(t, testNow)

	res := f.run("create_reminder", map[string]any{"text": "x"})
	gt.Bool(t, res.Success).False()
	gt.Bool(t, errors.Is(res.Err, ErrValidation)).True()
	gt.String(t, res.Message).Contains("when_iso")

	res = f.run("create_reminder", map[string]any{"text": "x", "when_iso": "tomorrow-ish"})
	gt.Bool(t, errors.Is(res.Err, ErrValidation)).True()
	gt.String(t, res.Message).Contains("tomorrow-ish")

	res = f.run("create_reminder", map[string]any{"text": "  ", "when_iso": "2025-06-01T13:00:00Z"})
	gt.Bool(t, errors.Is(res.Err, ErrValidation)).True()
	gt.Array(t, f.sched.armed).Length(0)
}

func TestParseInstant(t *testing.T) {
	cases := map[string]time.Time{
		"2025-06-01T12:10:00Z":      time.Date(2025, 6, 1, 12, 10, 0, 0, time.UTC),
		"2025-06-01T14:10:00+02:00": time.Date(2025, 6, 1, 12, 10, 0, 0, time.UTC),
		"2025-06-01T12:10:00":       time.Date(2025, 6, 1, 12, 10, 0, 0, time.UTC),
		"2025-06-01 12:10":          time.Date(2025, 6, 1, 12, 10, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseInstant(in)
		gt.NoError(t, err).Required()
		gt.Bool(t, got.Equal(want)).True()
		gt.Value(t, got.Location()).Equal(time.UTC)
	}

	_, err := ParseInstant("01/06/2025")
	gt.Error(t, err).Is(ErrValidation)
}

func TestCompleteReminder(t *testing.T) {
	f := newFixture(t, testNow)
	created := f.run("create_reminder", map[string]any{"text": "позвонить", "when_iso": "2025-06-01T15:00:00Z"})
	gt.Bool(t, created.Success).True()
	id := f.sched.armed[0].id

	res := f.run("complete_reminder", map[string]any{"id": id})
	gt.Bool(t, res.Success).True()
	gt.String(t, res.Message).Contains("позвонить")
	gt.Value(t, f.sched.completed).Equal([]int64{id})

	again := f.run("complete_reminder", map[string]any{"id": id})
	gt.String(t, again.Message).Contains("already done")

	missing := f.run("complete_reminder", map[string]any{"id": 999})
	gt.Bool(t, missing.Success).False()
	gt.String(t, missing.Message).Contains("#999")
}

func TestCompleteReminderOtherUser(t *testing.T) {
	f := newFixture(t, testNow)
	f.run("create_reminder", map[string]any{"text": "secret", "when_iso": "2025-06-01T15:00:00Z"})
	id := f.sched.armed[0].id

	f.caller = Caller{ExternalID: "7"}
	res := f.run("complete_reminder", map[string]any{"id": id})
	gt.Bool(t, res.Success).False()
	gt.Array(t, f.sched.completed).Length(0)
}

func TestListReminders(t *testing.T) {
	f := newFixture(t, testNow)
	empty := f.run("list_reminders", nil)
	gt.Value(t, empty.Message).Equal("No active reminders.")

	f.run("create_reminder", map[string]any{"text": "вода", "when_iso": "2025-06-01T12:30:00Z"})
	f.run("create_reminder", map[string]any{"text": "обед", "when_iso": "2025-06-01T14:00:00Z"})

	res := f.run("list_reminders", nil)
	gt.Bool(t, res.Success).True()
	gt.String(t, res.Message).Contains("вода, 30 minutes from now")
	gt.String(t, res.Message).Contains("обед, 2 hours from now")
	gt.Value(t, res.Payload["count"]).Equal(2)
}
