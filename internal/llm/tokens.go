package llm

import (
	"encoding/json"
	"unicode/utf8"
)

// Tokenizers split Cyrillic into far more pieces than Latin text, so the two
// are counted at different rates.
const (
	asciiCharsPerToken = 4
	otherCharsPerToken = 2
)

// EstimateTokens returns a rough token count for a string.
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}
	var ascii, other int
	for _, r := range s {
		if r < utf8.RuneSelf {
			ascii++
		} else {
			other++
		}
	}
	return ceilDiv(ascii, asciiCharsPerToken) + ceilDiv(other, otherCharsPerToken)
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

// EstimateMessageTokens counts content, tool calls and per-message framing.
func EstimateMessageTokens(m Message) int {
	tokens := 4
	tokens += EstimateTokens(m.Content)
	for _, tc := range m.ToolCalls {
		tokens += EstimateTokens(tc.Name) + 4
		if params, err := json.Marshal(tc.Params); err == nil {
			tokens += EstimateTokens(string(params))
		}
	}
	if m.ToolCallID != "" {
		tokens += EstimateTokens(m.ToolCallID) + 2
	}
	return tokens
}

func EstimateMessagesTokens(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += EstimateMessageTokens(m)
	}
	return total
}

// EstimateToolsTokens counts the serialized tool palette, which is sent with
// every request.
func EstimateToolsTokens(tools []Tool) int {
	total := 0
	for _, t := range tools {
		total += EstimateTokens(t.Name) + EstimateTokens(t.Description) + 10
		if schema, err := json.Marshal(t.Parameters); err == nil {
			total += EstimateTokens(string(schema))
		}
	}
	return total
}

// HistoryBudget is what is left for conversation history once the system
// prompt, the tool palette and a reply reserve are taken out of maxContext.
func HistoryBudget(maxContext int, systemPrompt string, tools []Tool, reserve int) int {
	budget := maxContext - EstimateTokens(systemPrompt) - EstimateToolsTokens(tools) - reserve
	if budget < 0 {
		return 0
	}
	return budget
}
