package config

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("USER_TIMEZONE", "")
	t.Setenv("FOCUS_MINUTES", "")
	t.Setenv("MAX_CONTEXT_TOKENS", "")

	cfg := Load()
	gt.Value(t, cfg.LLMProvider).Equal("anthropic")
	gt.Value(t, cfg.UserTimezone).Equal("Europe/Madrid")
	gt.Value(t, cfg.FocusMinutes).Equal(25)
	gt.Value(t, cfg.MaxContextTokens).Equal(8000)
}

func TestEnvIntRejectsGarbage(t *testing.T) {
	t.Setenv("FOCUS_MINUTES", "soon")
	gt.Value(t, envInt("FOCUS_MINUTES", 25)).Equal(25)

	t.Setenv("FOCUS_MINUTES", "-5")
	gt.Value(t, envInt("FOCUS_MINUTES", 25)).Equal(25)

	t.Setenv("FOCUS_MINUTES", "50")
	gt.Value(t, envInt("FOCUS_MINUTES", 25)).Equal(50)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{UserTimezone: "Mars/Olympus_Mons"}
	gt.Value(t, cfg.Location()).Equal(time.UTC)

	cfg.UserTimezone = "UTC"
	gt.Value(t, cfg.Location().String()).Equal("UTC")
}
