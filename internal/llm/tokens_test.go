package llm

import (
	"testing"

	"github.com/m-mizutani/gt"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"short", "hi", 1},
		{"five chars rounds up", "hello", 2},
		{"cyrillic counts double", "привет", 3},
		{"mixed", "ok да", 1 + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, EstimateTokens(tt.input)).Equal(tt.want)
		})
	}
}

func TestEstimateMessageTokens(t *testing.T) {
	gt.Value(t, EstimateMessageTokens(Message{Role: "user", Content: "hello"})).Equal(4 + 2)
	gt.Value(t, EstimateMessageTokens(Message{Role: "assistant"})).Equal(4)

	withCall := Message{Role: "assistant", ToolCalls: []ToolCall{{ID: "1", Name: "add_note", Params: map[string]any{}}}}
	// overhead + name(8 chars) + framing + "{}"
	gt.Value(t, EstimateMessageTokens(withCall)).Equal(4 + 2 + 4 + 1)

	result := Message{Role: "user", Content: "ok", ToolCallID: "abcd"}
	gt.Value(t, EstimateMessageTokens(result)).Equal(4 + 1 + 1 + 2)
}

func TestHistoryBudget(t *testing.T) {
	tools := []Tool{{Name: "add_note", Description: "Save a note", Parameters: map[string]any{"type": "object"}}}
	used := EstimateTokens("system") + EstimateToolsTokens(tools) + 100
	gt.Value(t, HistoryBudget(1000, "system", tools, 100)).Equal(1000 - used)
	gt.Value(t, HistoryBudget(10, "system", tools, 100)).Equal(0)
}
