package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/nudge/internal/timeparse"
	"github.com/m-mizutani/goerr/v2"
)

// UnresolvedHint lists phrasings the resolver understands.
const UnresolvedHint = `I couldn't understand the time. Try "через 10 минут", "завтра в 15:00", "после обеда" or "in 2 hours".`

func resolveTimeExpression(d *Deps) Action {
	return New("resolve_time_expression",
		"Convert a natural-language time (Russian or English) into an ISO-8601 UTC instant using the user's timezone. Use the returned when_iso for create_reminder.",
		objReq(map[string]any{
			"text": prop("string", "The time phrase, e.g. 'через 2 часа' or 'tomorrow at 3pm'"),
		}, "text"),
		func(ctx context.Context, inv Invocation) Result {
			text := argString(inv.Args, "text")
			if text == "" {
				return Fail(goerr.Wrap(ErrValidation, "text is required"), UnresolvedHint)
			}
			loc := inv.Caller.loc()
			res, err := d.Resolver.Resolve(text, d.now(), loc)
			return resolvedResult(res, err, loc)
		})
}

func resolvedResult(res timeparse.Resolved, err error, loc *time.Location) Result {
	switch {
	case errors.Is(err, timeparse.ErrPastTime):
		return Fail(goerr.Wrap(ErrPastTime, err.Error()),
			fmt.Sprintf("That time already passed: %s.", res.Local.Format(displayLayout)))
	case err != nil:
		return Fail(goerr.Wrap(ErrUnresolvedTime, err.Error()), UnresolvedHint)
	}
	return OK(
		fmt.Sprintf("%s UTC (%s %s)", res.UTC.Format(time.RFC3339), res.Local.Format(displayLayout), loc.String()),
		map[string]any{
			"when_iso":   res.UTC.Format(time.RFC3339),
			"local":      res.Local.Format(time.RFC3339),
			"confidence": res.Confidence.String(),
		},
	)
}
