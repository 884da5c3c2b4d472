package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chris/nudge/internal/actions"
	"github.com/chris/nudge/internal/db"
	"github.com/chris/nudge/internal/llm"
	"github.com/google/uuid"
)

const notesLimit = 10

const helpText = `I can remember notes and remind you of things.
Just write: "напомни позвонить маме завтра в 10", "remind me to stretch in 20 minutes", "запиши купить молоко".
Commands:
/note <text>    save a note
/notes          latest notes
/find <words>   search notes
/reminders      active reminders
/done <id>      mark a reminder done
/delete <id>    delete a reminder
/tz <zone>      set your timezone, e.g. /tz Europe/Madrid
/reset          forget our conversation so far`

// command handles slash commands without the model.
func (r *Router) command(ctx context.Context, user *db.User, caller actions.Caller, text string) string {
	name, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)
	// Discord-style "/cmd@bot" suffixes
	name, _, _ = strings.Cut(strings.ToLower(name), "@")

	switch name {
	case "/start", "/help":
		return helpText
	case "/note":
		if arg == "" {
			return askWhatToWrite
		}
		return r.run(ctx, caller, "add_note", map[string]any{"text": arg})
	case "/notes":
		notes, err := r.store.ListNotes(ctx, user.ID, notesLimit)
		if err != nil {
			r.logger.Error("listing notes", "user", user.ExternalID, "error", err)
			return genericFailure
		}
		return formatNotes("Your notes:", "No notes yet.", notes)
	case "/find":
		if arg == "" {
			return "Usage: /find <words>"
		}
		notes, err := r.store.SearchNotes(ctx, user.ID, arg, notesLimit)
		if err != nil {
			r.logger.Error("searching notes", "user", user.ExternalID, "error", err)
			return genericFailure
		}
		return formatNotes(fmt.Sprintf("Notes matching %q:", arg), "Nothing found.", notes)
	case "/reminders":
		return r.run(ctx, caller, "list_reminders", map[string]any{})
	case "/done":
		id, ok := parseID(arg)
		if !ok {
			return "Usage: /done <id>"
		}
		return r.run(ctx, caller, "complete_reminder", map[string]any{"id": id})
	case "/delete":
		id, ok := parseID(arg)
		if !ok {
			return "Usage: /delete <id>"
		}
		return r.deleteReminder(ctx, user, id)
	case "/tz":
		return r.setTimezone(ctx, user, arg)
	case "/reset":
		r.history.reset(user.ExternalID)
		return "Okay, starting fresh."
	default:
		return "Unknown command. /help lists what I can do."
	}
}

func (r *Router) run(ctx context.Context, caller actions.Caller, name string, args map[string]any) string {
	res := r.registry.Execute(ctx, caller, llm.ToolCall{ID: uuid.NewString(), Name: name, Params: args})
	return actions.Aggregate([]actions.Result{res})
}

func (r *Router) deleteReminder(ctx context.Context, user *db.User, id int64) string {
	rem, err := r.store.GetReminder(ctx, id)
	if err != nil {
		r.logger.Error("loading reminder", "id", id, "error", err)
		return genericFailure
	}
	if rem == nil || rem.UserID != user.ID {
		return fmt.Sprintf("Reminder #%d not found.", id)
	}
	if _, err := r.reminders.Cancel(ctx, id); err != nil {
		r.logger.Error("deleting reminder", "id", id, "error", err)
		return genericFailure
	}
	return fmt.Sprintf("Deleted reminder #%d: %s.", id, rem.Text)
}

func (r *Router) setTimezone(ctx context.Context, user *db.User, tz string) string {
	if tz == "" {
		return fmt.Sprintf("Your timezone is %s. Change it with /tz <zone>, e.g. /tz Europe/Madrid.", user.Timezone)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Sprintf("I don't know the timezone %q. Use an IANA name such as Europe/Madrid.", tz)
	}
	if err := r.store.SetUserTimezone(ctx, user.ID, loc.String()); err != nil {
		r.logger.Error("setting timezone", "user", user.ExternalID, "error", err)
		return genericFailure
	}
	return fmt.Sprintf("Timezone set to %s. Local time there is %s.", loc, r.now().In(loc).Format("15:04"))
}

func formatNotes(header, empty string, notes []db.Note) string {
	if len(notes) == 0 {
		return empty
	}
	var b strings.Builder
	b.WriteString(header)
	for _, n := range notes {
		fmt.Fprintf(&b, "\n#%d %s", n.ID, n.Text)
	}
	return b.String()
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	return id, err == nil && id > 0
}
