// Package agent is the conversation router: it turns one incoming message
// into one reply, using the intent heuristics to force the right action and
// falling back to deterministic handling when the model is unavailable.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chris/nudge/internal/actions"
	"github.com/chris/nudge/internal/db"
	"github.com/chris/nudge/internal/intent"
	"github.com/chris/nudge/internal/llm"
	"github.com/chris/nudge/internal/timeparse"
	"github.com/google/uuid"
)

const (
	defaultContextTokens = 8000
	replyReserve         = 1024
	minHistoryBudget     = 500
)

// Store is what the router reads directly; everything else goes through
// actions.
type Store interface {
	GetOrCreateUser(ctx context.Context, externalID, defaultTZ string) (*db.User, error)
	SetUserTimezone(ctx context.Context, userID int64, tz string) error
	ListNotes(ctx context.Context, userID int64, limit int) ([]db.Note, error)
	SearchNotes(ctx context.Context, userID int64, query string, limit int) ([]db.Note, error)
	GetReminder(ctx context.Context, id int64) (*db.Reminder, error)
}

// ReminderCanceler deletes a reminder and drops its timer.
type ReminderCanceler interface {
	Cancel(ctx context.Context, id int64) (bool, error)
}

type Options struct {
	Client           llm.Client
	Classifier       *intent.Classifier
	Resolver         *timeparse.Resolver
	Registry         *actions.Registry
	Dispatcher       *actions.Dispatcher
	Store            Store
	Reminders        ReminderCanceler
	DefaultTimezone  string
	MaxContextTokens int
	Now              func() time.Time
	Logger           *slog.Logger
}

type Router struct {
	client      llm.Client
	classifier  *intent.Classifier
	resolver    *timeparse.Resolver
	registry    *actions.Registry
	dispatcher  *actions.Dispatcher
	store       Store
	reminders   ReminderCanceler
	defaultTZ   string
	maxContext  int
	now         func() time.Time
	logger      *slog.Logger
	history     *history
	userLocksMu sync.Mutex
	userLocks   map[string]*sync.Mutex
}

func New(opts Options) *Router {
	r := &Router{
		client:     opts.Client,
		classifier: opts.Classifier,
		resolver:   opts.Resolver,
		registry:   opts.Registry,
		dispatcher: opts.Dispatcher,
		store:      opts.Store,
		reminders:  opts.Reminders,
		defaultTZ:  opts.DefaultTimezone,
		maxContext: opts.MaxContextTokens,
		now:        opts.Now,
		logger:     opts.Logger,
		history:    newHistory(),
		userLocks:  make(map[string]*sync.Mutex),
	}
	if r.classifier == nil {
		r.classifier = intent.New(nil)
	}
	if r.resolver == nil {
		r.resolver = timeparse.New()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.logger = r.logger.With("component", "router")
	if r.maxContext <= 0 {
		r.maxContext = defaultContextTokens
	}
	if r.dispatcher == nil {
		r.dispatcher = actions.NewDispatcher(r.registry, r.logger)
	}
	return r
}

// Handle processes one message from externalUserID and returns the reply.
// It never returns an error: every failure becomes a user-facing message.
func (r *Router) Handle(ctx context.Context, text, externalUserID string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	unlock := r.lockUser(externalUserID)
	defer unlock()

	if r.classifier.IsCancel(text) {
		return "Okay, cancelled."
	}

	now := r.now().UTC()
	user, err := r.store.GetOrCreateUser(ctx, externalUserID, r.defaultTZ)
	if err != nil {
		r.logger.Error("resolving user", "user", externalUserID, "error", err)
		return genericFailure
	}
	caller := actions.Caller{ExternalID: externalUserID, Location: r.location(user.Timezone)}

	if strings.HasPrefix(text, "/") {
		return r.command(ctx, user, caller, text)
	}

	res := r.classifier.Classify(text)
	logger := r.logger.With("user", externalUserID, "intent", res.Kind.String(), "rule", res.Rule)
	if res.NeedsPrompt {
		logger.Debug("bare trigger, asking for content")
		return askWhatToWrite
	}

	prompt := r.instruction(res, text, now, caller.Location)
	system := llm.BuildSystemPrompt(now, caller.Location)
	tools := r.registry.DescribeTools()
	budget := llm.HistoryBudget(r.maxContext, system, tools, replyReserve)
	if budget < minHistoryBudget {
		budget = minHistoryBudget
	}
	messages := llm.TrimMessages(append(r.history.get(externalUserID), llm.Message{Role: "user", Content: prompt}), budget)

	var opts []llm.ChatOption
	if name := forcedTool(res.Kind); name != "" {
		opts = append(opts, llm.WithToolChoice(name))
	}
	resp, err := r.client.Chat(ctx, system, messages, tools, opts...)
	if err == nil && resp == nil {
		resp = &llm.Response{}
	}
	var reply string
	switch {
	case err != nil:
		logger.Warn("model call failed, using fallback", "error", err)
		reply = r.fallback(ctx, caller, res)
	case len(resp.ToolCalls) > 0:
		reply, _ = r.dispatcher.Dispatch(ctx, caller, resp.ToolCalls)
	case res.Kind == intent.Note:
		logger.Info("model answered with text for a note, saving directly")
		reply = r.saveNotes(ctx, caller, res.NoteBody)
	default:
		reply = strings.TrimSpace(resp.Content)
		if reply == "" {
			reply = actions.NothingToReport
		}
	}

	r.history.append(externalUserID, r.maxContext,
		llm.Message{Role: "user", Content: text},
		llm.Message{Role: "assistant", Content: reply},
	)
	return reply
}

// forcedTool is the action a classified intent must end in.
func forcedTool(k intent.Kind) string {
	switch k {
	case intent.Reminder:
		return "create_reminder"
	case intent.Note:
		return "add_note"
	}
	return ""
}

// instruction wraps the raw text with a directive that forces the matching
// action. The user's words are passed through unchanged.
func (r *Router) instruction(res intent.Result, text string, now time.Time, loc *time.Location) string {
	switch res.Kind {
	case intent.Reminder:
		var b strings.Builder
		b.WriteString("The user wants a reminder. You MUST call create_reminder; do not reply with plain text.")
		if resolved, err := r.resolver.Resolve(text, now, loc); err == nil {
			fmt.Fprintf(&b, " The time in the message resolves to %s (%s local).",
				resolved.UTC.Format(time.RFC3339), resolved.Local.Format("2006-01-02 15:04"))
		} else if errors.Is(err, timeparse.ErrPastTime) {
			b.WriteString(" The time in the message appears to be in the past; still call create_reminder with it so the user is told.")
		}
		b.WriteString(" Use the user's words, minus the command, as the reminder text.\n\nMessage: ")
		b.WriteString(text)
		return b.String()
	case intent.Note:
		return "The user wants to save a note. You MUST call add_note. If the message lists several items joined by \"и\", \"and\" or commas, call add_note once per item.\n\nMessage: " + text
	default:
		return text
	}
}

// fallback runs when the model call failed. Notes are saved without the
// model; reminders are not guessed at because the time cannot be trusted.
func (r *Router) fallback(ctx context.Context, caller actions.Caller, res intent.Result) string {
	switch res.Kind {
	case intent.Note:
		return r.saveNotes(ctx, caller, res.NoteBody)
	case intent.Reminder:
		return "I couldn't set that reminder right now, the assistant is unavailable. Please try again in a minute; /reminders shows what is already set."
	default:
		return "Sorry, I can't think right now. You can still use /note <text>, /notes, /reminders or \"запиши ...\"."
	}
}

// saveNotes stores each item of a note body through add_note.
func (r *Router) saveNotes(ctx context.Context, caller actions.Caller, body string) string {
	items := intent.SplitNotes(body, r.classifier.Lexicon())
	if len(items) == 0 {
		return askWhatToWrite
	}
	calls := make([]llm.ToolCall, 0, len(items))
	for _, item := range items {
		calls = append(calls, llm.ToolCall{ID: uuid.NewString(), Name: "add_note", Params: map[string]any{"text": item}})
	}
	reply, _ := r.dispatcher.Dispatch(ctx, caller, calls)
	return reply
}

func (r *Router) location(tz string) *time.Location {
	for _, name := range []string{tz, r.defaultTZ} {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
		r.logger.Warn("unknown timezone", "tz", name)
	}
	return time.UTC
}

// lockUser serializes messages from one user so replies and history stay in
// arrival order.
func (r *Router) lockUser(id string) func() {
	r.userLocksMu.Lock()
	mu, ok := r.userLocks[id]
	if !ok {
		mu = &sync.Mutex{}
		r.userLocks[id] = mu
	}
	r.userLocksMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

const (
	genericFailure = "Something went wrong on my side. Please try again in a minute."
	askWhatToWrite = "What should I write down? For example: \"запиши купить молоко\"."
)
