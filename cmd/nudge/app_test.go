package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chris/nudge/config"
	"github.com/m-mizutani/gt"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		LLMProvider:      "ollama",
		DatabasePath:     filepath.Join(t.TempDir(), "nudge.db"),
		UserTimezone:     "UTC",
		MaxContextTokens: 8000,
		FocusMinutes:     25,
	}
}

func TestChatRunsCommandsWithoutModel(t *testing.T) {
	cfg := testConfig(t)
	in := strings.NewReader("/note купить хлеб\n\n/notes\nexit\n/notes\n")
	var out bytes.Buffer

	gt.NoError(t, runChat(context.Background(), cfg, "local", in, &out)).Required()
	gt.String(t, out.String()).Contains("Note saved: купить хлеб")
	gt.String(t, out.String()).Contains("Your notes:")
	gt.Value(t, strings.Count(out.String(), "Your notes:")).Equal(1)
}

func TestChatPersistsAcrossRuns(t *testing.T) {
	cfg := testConfig(t)

	var out bytes.Buffer
	gt.NoError(t, runChat(context.Background(), cfg, "local", strings.NewReader("/note first\n"), &out)).Required()

	out.Reset()
	gt.NoError(t, runChat(context.Background(), cfg, "local", strings.NewReader("/find first\n"), &out)).Required()
	gt.String(t, out.String()).Contains("first")
}

func TestBuildRejectsUnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLMProvider = "carrier-pigeon"
	_, err := build(context.Background(), cfg, nil)
	gt.Value(t, err).NotNil()
}

func TestRunServerNeedsTransport(t *testing.T) {
	gt.Value(t, runServer(context.Background(), testConfig(t))).NotNil()
}
