package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// EnergyAdvice maps a 0-100 level to a suggestion for how much to take on.
func EnergyAdvice(level int) string {
	switch {
	case level < 40:
		return "Low energy. Pick one tiny task, five minutes at most, and rest after it."
	case level < 60:
		return "Medium energy. Good for one main task; anything else is a bonus."
	default:
		return "High energy. One main goal plus two or three small tasks, but don't overdo it."
	}
}

func recordEnergyLevel(d *Deps) Action {
	return New("record_energy_level",
		"Record how much energy the user has right now, 0 to 100.",
		objReq(map[string]any{
			"level": map[string]any{"type": "integer", "minimum": 0, "maximum": 100, "description": "Energy level 0-100"},
		}, "level"),
		func(ctx context.Context, inv Invocation) Result {
			level := argInt(inv.Args, "level", -1)
			if level < 0 || level > 100 {
				return Fail(goerr.Wrap(ErrValidation, "level out of range"), "Energy level should be a number from 0 to 100.")
			}
			u, err := d.user(ctx, inv.Caller)
			if err != nil {
				return storeFailure(err)
			}
			if err := d.Energy.SaveEnergyLevel(ctx, u.ID, level); err != nil {
				return storeFailure(goerr.Wrap(ErrStore, "failed to save energy level", goerr.V("cause", err.Error())))
			}
			return OK(fmt.Sprintf("Energy %d/100 noted. %s", level, EnergyAdvice(level)), map[string]any{"level": level})
		})
}

func getEnergyLevel(d *Deps) Action {
	return New("get_energy_level",
		"Get the user's latest energy level recorded today, with advice.",
		obj(nil),
		func(ctx context.Context, inv Invocation) Result {
			u, err := d.user(ctx, inv.Caller)
			if err != nil {
				return storeFailure(err)
			}
			local := d.now().In(inv.Caller.loc())
			midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
			level, ok, err := d.Energy.LatestEnergySince(ctx, u.ID, midnight.UTC())
			if err != nil {
				return storeFailure(goerr.Wrap(ErrStore, "failed to read energy level", goerr.V("cause", err.Error())))
			}
			if !ok {
				return OK("No energy level recorded today. How are you feeling, 0 to 100?", map[string]any{"recorded": false})
			}
			return OK(fmt.Sprintf("Today's energy: %d/100. %s", level, EnergyAdvice(level)),
				map[string]any{"recorded": true, "level": level})
		})
}
