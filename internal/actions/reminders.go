package actions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/goerr/v2"
)

const displayLayout = "Mon 2 Jan 15:04"

// zonelessLayouts are read as UTC.
var zonelessLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseInstant reads an ISO-8601 instant. A value without a zone marker is
// taken as UTC.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, goerr.Wrap(ErrValidation, "not an ISO-8601 instant", goerr.V("value", s))
}

func createReminder(d *Deps) Action {
	return New("create_reminder",
		"Create a one-shot reminder. when_iso is the absolute fire time in ISO-8601 UTC, e.g. 2025-06-01T15:00:00Z. Use resolve_time_expression first if the user's phrasing is relative or vague.",
		objReq(map[string]any{
			"text":      prop("string", "What to remind the user about, in their words"),
			"when_iso":  prop("string", "Fire time, ISO-8601 UTC"),
			"recurring": map[string]any{"type": "boolean", "description": "Recorded only; reminders fire once", "default": false},
		}, "text", "when_iso"),
		func(ctx context.Context, inv Invocation) Result {
			text := argString(inv.Args, "text")
			whenISO := argString(inv.Args, "when_iso")
			if text == "" || whenISO == "" {
				return Fail(goerr.Wrap(ErrValidation, "text and when_iso are required"),
					"I need both what to remind you about and when.")
			}
			fireAt, err := ParseInstant(whenISO)
			if err != nil {
				return Fail(err, fmt.Sprintf("I couldn't read the time %q. Use a form like 2025-06-01T15:00:00Z.", whenISO))
			}

			// The store keeps whole seconds; arm and report that same instant.
			fireAt = fireAt.Truncate(time.Second)
			now := d.now()
			loc := inv.Caller.loc()
			if !fireAt.After(now) {
				return Fail(goerr.Wrap(ErrPastTime, "reminder time is not in the future",
					goerr.V("fire_at", fireAt.Format(time.RFC3339)), goerr.V("now", now.Format(time.RFC3339))),
					fmt.Sprintf("That time already passed: %s. Pick a time in the future.", fireAt.In(loc).Format(displayLayout)))
			}

			u, err := d.user(ctx, inv.Caller)
			if err != nil {
				return storeFailure(err)
			}
			id, err := d.Reminders.CreateReminder(ctx, u.ID, text, fireAt, argBool(inv.Args, "recurring"))
			if err != nil {
				return storeFailure(goerr.Wrap(ErrStore, "failed to create reminder", goerr.V("cause", err.Error())))
			}
			d.Scheduler.Arm(id, fireAt, inv.Caller.ExternalID)

			return OK(
				fmt.Sprintf("Reminder set: %s, %s (%s).", text, humanize.RelTime(fireAt, now, "ago", "from now"), fireAt.In(loc).Format(displayLayout)),
				map[string]any{"id": id, "fire_at": fireAt.Format(time.RFC3339)},
			)
		})
}

func completeReminder(d *Deps) Action {
	return New("complete_reminder",
		"Mark a reminder as done so it will not fire.",
		objReq(map[string]any{
			"id": prop("integer", "Reminder ID"),
		}, "id"),
		func(ctx context.Context, inv Invocation) Result {
			id := int64(argInt(inv.Args, "id", 0))
			u, err := d.user(ctx, inv.Caller)
			if err != nil {
				return storeFailure(err)
			}
			r, err := d.Reminders.GetReminder(ctx, id)
			if err != nil {
				return storeFailure(goerr.Wrap(ErrStore, "failed to load reminder", goerr.V("id", id), goerr.V("cause", err.Error())))
			}
			if r == nil || r.UserID != u.ID {
				return Fail(goerr.Wrap(ErrValidation, "reminder not found", goerr.V("id", id)),
					fmt.Sprintf("Reminder #%d not found.", id))
			}
			changed, err := d.Scheduler.Complete(ctx, id)
			if err != nil {
				return storeFailure(goerr.Wrap(ErrStore, "failed to complete reminder", goerr.V("id", id), goerr.V("cause", err.Error())))
			}
			if !changed {
				return OK(fmt.Sprintf("Reminder #%d was already done.", id), map[string]any{"id": id})
			}
			return OK(fmt.Sprintf("Done: %s.", r.Text), map[string]any{"id": id})
		})
}

func listReminders(d *Deps) Action {
	return New("list_reminders",
		"List the user's active reminders with their IDs.",
		obj(nil),
		func(ctx context.Context, inv Invocation) Result {
			u, err := d.user(ctx, inv.Caller)
			if err != nil {
				return storeFailure(err)
			}
			rs, err := d.Reminders.ListUserReminders(ctx, u.ID, false, 20)
			if err != nil {
				return storeFailure(goerr.Wrap(ErrStore, "failed to list reminders", goerr.V("cause", err.Error())))
			}
			if len(rs) == 0 {
				return OK("No active reminders.", map[string]any{"count": 0})
			}
			now := d.now()
			loc := inv.Caller.loc()
			var b strings.Builder
			b.WriteString("Active reminders:")
			for _, r := range rs {
				fmt.Fprintf(&b, "\n#%d %s, %s (%s)", r.ID, r.Text,
					humanize.RelTime(r.FireAt, now, "ago", "from now"), r.FireAt.In(loc).Format(displayLayout))
			}
			return OK(b.String(), map[string]any{"count": len(rs)})
		})
}
