package actions

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

func addNote(d *Deps) Action {
	return New("add_note",
		"Save one note for the user. Call once per item when the user lists several things.",
		objReq(map[string]any{
			"text": prop("string", "The note text, without the command words"),
		}, "text"),
		func(ctx context.Context, inv Invocation) Result {
			text := argString(inv.Args, "text")
			if text == "" {
				return Fail(goerr.Wrap(ErrValidation, "text is required"), "What should I write down?")
			}
			u, err := d.user(ctx, inv.Caller)
			if err != nil {
				return storeFailure(err)
			}
			id, err := d.Notes.SaveNote(ctx, u.ID, text)
			if err != nil {
				return storeFailure(goerr.Wrap(ErrStore, "failed to save note", goerr.V("cause", err.Error())))
			}
			return OK(fmt.Sprintf("Note saved: %s", text), map[string]any{"id": id})
		})
}
