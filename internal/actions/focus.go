package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const maxFocusMinutes = 240

func startFocusTimer(d *Deps) Action {
	def := d.FocusMinutes
	if def <= 0 {
		def = 25
	}
	return New("start_focus_timer",
		"Start a focus (pomodoro) timer. The user gets a message when it ends.",
		objReq(map[string]any{
			"topic": prop("string", "What the user is focusing on"),
			"duration": map[string]any{
				"type":        "integer",
				"description": "Length in minutes",
				"minimum":     1,
				"maximum":     maxFocusMinutes,
				"default":     def,
			},
		}, "topic"),
		func(ctx context.Context, inv Invocation) Result {
			topic := argString(inv.Args, "topic")
			if topic == "" {
				return Fail(goerr.Wrap(ErrValidation, "topic is required"), "What do you want to focus on?")
			}
			minutes := argInt(inv.Args, "duration", def)
			u, err := d.user(ctx, inv.Caller)
			if err != nil {
				return storeFailure(err)
			}
			s, err := d.Focus.Start(ctx, u.ID, inv.Caller.ExternalID, topic, time.Duration(minutes)*time.Minute)
			if err != nil {
				return storeFailure(goerr.Wrap(ErrStore, "failed to start focus timer", goerr.V("cause", err.Error())))
			}
			return OK(
				fmt.Sprintf("Focus on %s for %d minutes. I'll ping you at %s.", topic, minutes, s.EndsAt.In(inv.Caller.loc()).Format("15:04")),
				map[string]any{"session_id": s.ID, "ends_at": s.EndsAt.Format(time.RFC3339)},
			)
		})
}
