package agent

import (
	"sync"

	"github.com/chris/nudge/internal/llm"
)

// history keeps recent turns per user in memory. It is lost on restart.
type history struct {
	mu    sync.Mutex
	turns map[string][]llm.Message
}

func newHistory() *history {
	return &history{turns: make(map[string][]llm.Message)}
}

func (h *history) get(user string) []llm.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]llm.Message(nil), h.turns[user]...)
}

// append adds messages and trims the stored history to maxTokens.
func (h *history) append(user string, maxTokens int, msgs ...llm.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns[user] = llm.TrimMessages(append(h.turns[user], msgs...), maxTokens)
}

func (h *history) reset(user string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.turns, user)
}
