package actions

import (
	"context"
	"log/slog"
	"strings"

	"github.com/chris/nudge/internal/llm"
	"github.com/google/uuid"
)

// NothingToReport is returned when no result carried a message. Normal
// operation never reaches it.
const NothingToReport = "Done, but there is nothing to report."

// Dispatcher executes the model's requested calls and folds their results
// into one reply. It never calls the model itself.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

func NewDispatcher(registry *Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{registry: registry, logger: logger.With("component", "dispatcher")}
}

// Dispatch runs calls in order. Calls are independent: a failure does not
// roll back earlier successes.
func (d *Dispatcher) Dispatch(ctx context.Context, caller Caller, calls []llm.ToolCall) (string, []Result) {
	results := make([]Result, 0, len(calls))
	for _, call := range calls {
		if call.ID == "" {
			call.ID = uuid.NewString()
		}
		res := d.registry.Execute(ctx, caller, call)
		if res.Success {
			d.logger.Info("action done", "action", call.Name, "call_id", call.ID, "user", caller.ExternalID)
		} else {
			d.logger.Warn("action failed", "action", call.Name, "call_id", call.ID, "user", caller.ExternalID, "error", res.Err)
		}
		results = append(results, res)
	}
	return Aggregate(results), results
}

// Aggregate applies the reply policy: any successes win and are listed one
// per line; with no successes a single distinct failure is returned as is,
// several are combined under "Errors:".
func Aggregate(results []Result) string {
	var successes, failures []string
	seen := map[string]bool{}
	for _, r := range results {
		if r.Message == "" {
			continue
		}
		if r.Success {
			successes = append(successes, r.Message)
			continue
		}
		if !seen[r.Message] {
			seen[r.Message] = true
			failures = append(failures, r.Message)
		}
	}

	switch {
	case len(successes) > 0:
		return strings.Join(successes, "\n")
	case len(failures) == 1:
		return failures[0]
	case len(failures) > 1:
		return "Errors: " + strings.Join(failures, "; ")
	default:
		return NothingToReport
	}
}
