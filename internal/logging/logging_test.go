package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			gt.Value(t, ParseLevel(tt.in)).Equal(tt.want)
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "json").Info("armed", "reminder_id", 7)

	var rec map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &rec)).Required()
	gt.Value(t, rec["msg"]).Equal("armed")
	gt.Value(t, rec["reminder_id"]).Equal(float64(7))
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "warn", "text").Info("hidden")
	gt.Value(t, buf.Len()).Equal(0)
}
