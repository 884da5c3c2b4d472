package llm

// TrimMessages drops the oldest turns until the history fits maxTokens. The
// newest turn is always kept, an assistant tool-call message is never
// separated from its results, and the result never starts with an assistant
// turn (providers reject that).
func TrimMessages(messages []Message, maxTokens int) []Message {
	if len(messages) == 0 {
		return messages
	}

	turns := splitTurns(messages)
	total := 0
	for _, t := range turns {
		total += t.tokens
	}

	start := 0
	for start < len(turns)-1 && total > maxTokens {
		total -= turns[start].tokens
		start++
	}
	for start < len(turns)-1 && turns[start].messages[0].Role != "user" {
		start++
	}
	if start == 0 {
		return messages
	}

	var out []Message
	for _, t := range turns[start:] {
		out = append(out, t.messages...)
	}
	return out
}

// turn is the unit TrimMessages keeps or drops whole.
type turn struct {
	messages []Message
	tokens   int
}

// splitTurns groups an assistant tool-call message with the tool results
// that follow it; every other message stands alone.
func splitTurns(messages []Message) []turn {
	var turns []turn
	for i := 0; i < len(messages); {
		t := turn{messages: []Message{messages[i]}, tokens: EstimateMessageTokens(messages[i])}
		isCall := messages[i].Role == "assistant" && len(messages[i].ToolCalls) > 0
		i++
		for isCall && i < len(messages) && messages[i].ToolCallID != "" {
			t.messages = append(t.messages, messages[i])
			t.tokens += EstimateMessageTokens(messages[i])
			i++
		}
		turns = append(turns, t)
	}
	return turns
}
