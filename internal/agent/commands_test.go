package agent

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
)

func TestNoteCommands(t *testing.T) {
	f := newFixture(t, textReply("unused"))

	gt.Value(t, f.handle("/notes")).Equal("No notes yet.")
	gt.Value(t, f.handle("/note купить молоко")).Equal("Note saved: купить молоко")
	gt.Value(t, f.handle("/note buy bread")).Equal("Note saved: buy bread")
	gt.Value(t, f.handle("/note")).Equal(askWhatToWrite)

	gt.String(t, f.handle("/notes")).Contains("купить молоко")
	found := f.handle("/find молоко")
	gt.String(t, found).Contains("купить молоко")
	gt.Bool(t, strings.Contains(found, "buy bread")).False()
	gt.Value(t, f.handle("/find nothing-like-this")).Equal("Nothing found.")
	gt.Array(t, f.client.calls).Length(0)
}

func TestReminderCommands(t *testing.T) {
	f := newFixture(t, textReply("unused"))
	ctx := context.Background()

	u, err := f.store.GetOrCreateUser(ctx, "42", "UTC")
	gt.NoError(t, err).Required()
	first, err := f.store.CreateReminder(ctx, u.ID, "stretch", testNow.Add(30*time.Minute), false)
	gt.NoError(t, err).Required()
	second, err := f.store.CreateReminder(ctx, u.ID, "call mom", testNow.Add(time.Hour), false)
	gt.NoError(t, err).Required()

	list := f.handle("/reminders")
	gt.String(t, list).Contains("stretch")
	gt.String(t, list).Contains("call mom")

	gt.String(t, f.handle("/done "+strconv.FormatInt(first, 10))).Contains("Done: stretch")
	gt.String(t, f.handle("/delete #"+strconv.FormatInt(second, 10))).Contains("Deleted reminder")
	gt.Value(t, f.sched.canceled).Equal([]int64{second})
	gt.Value(t, f.handle("/reminders")).Equal("No active reminders.")

	gt.Value(t, f.handle("/done x")).Equal("Usage: /done <id>")
	gt.String(t, f.handle("/delete 999")).Contains("not found")
}

func TestDeleteRejectsOtherUsersReminder(t *testing.T) {
	f := newFixture(t, textReply("unused"))
	ctx := context.Background()

	other, err := f.store.GetOrCreateUser(ctx, "someone-else", "UTC")
	gt.NoError(t, err).Required()
	id, err := f.store.CreateReminder(ctx, other.ID, "secret", testNow.Add(time.Minute), false)
	gt.NoError(t, err).Required()

	gt.String(t, f.handle("/delete "+strconv.FormatInt(id, 10))).Contains("not found")
	gt.Array(t, f.sched.canceled).Length(0)
}

func TestTimezoneCommand(t *testing.T) {
	f := newFixture(t, textReply("unused"))

	gt.String(t, f.handle("/tz")).Contains("Your timezone is UTC")
	gt.String(t, f.handle("/tz Mars/Olympus")).Contains("don't know the timezone")
	gt.Value(t, f.handle("/tz Europe/Madrid")).Equal("Timezone set to Europe/Madrid. Local time there is 14:00.")

	u, err := f.store.GetOrCreateUser(context.Background(), "42", "UTC")
	gt.NoError(t, err).Required()
	gt.Value(t, u.Timezone).Equal("Europe/Madrid")
}

func TestHelpAndUnknownCommands(t *testing.T) {
	f := newFixture(t, textReply("unused"))

	gt.String(t, f.handle("/help")).Contains("/reminders")
	gt.String(t, f.handle("/start@nudge_bot")).Contains("/notes")
	gt.String(t, f.handle("/bogus")).Contains("Unknown command")
}

func TestParseID(t *testing.T) {
	id, ok := parseID("#12")
	gt.Bool(t, ok).True()
	gt.Value(t, id).Equal(int64(12))

	_, ok = parseID("0")
	gt.Bool(t, ok).False()
	_, ok = parseID("")
	gt.Bool(t, ok).False()
}
