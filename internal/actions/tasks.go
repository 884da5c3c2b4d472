package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

func breakDownTask() Action {
	return New("break_down_task",
		"Show a task broken into small concrete steps. You write the steps; keep them tiny (5-15 minutes each).",
		objReq(map[string]any{
			"task": prop("string", "The task being broken down"),
			"steps": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    1,
				"description": "Ordered small steps",
			},
		}, "task", "steps"),
		func(_ context.Context, inv Invocation) Result {
			task := argString(inv.Args, "task")
			steps := argStrings(inv.Args, "steps")
			if task == "" || len(steps) == 0 {
				return Fail(goerr.Wrap(ErrValidation, "task and steps are required"), "Tell me the task and I'll split it into steps.")
			}
			var b strings.Builder
			fmt.Fprintf(&b, "%s, step by step:", task)
			for i, s := range steps {
				fmt.Fprintf(&b, "\n%d. %s", i+1, s)
			}
			return OK(b.String(), map[string]any{"steps": len(steps)})
		})
}
