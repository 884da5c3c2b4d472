// Package llm is the model-call collaborator: a provider-neutral message
// format, the Anthropic and OpenAI-compatible clients, and context budgeting.
package llm

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// ErrProvider marks any failure of the model call itself (network, auth,
// rate limit, malformed response). Callers treat it as recoverable.
var ErrProvider = goerr.New("model provider call failed")

type Message struct {
	Role       string     `json:"role"` // user, assistant
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // set on tool result messages
}

// ToolCall is one action the model asked for.
type ToolCall struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

// Response carries either plain text or a list of tool calls (or both).
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Client sends one turn to a model. Tool choice is left to the model unless
// WithToolChoice names a tool.
type Client interface {
	Chat(ctx context.Context, systemPrompt string, messages []Message, tools []Tool, opts ...ChatOption) (*Response, error)
}

// ChatOptions are the per-call settings a Client honors.
type ChatOptions struct {
	// ToolChoice, when set, requires the model to call this tool.
	ToolChoice string
}

type ChatOption func(*ChatOptions)

// WithToolChoice forces the named tool. It is ignored when tools does not
// contain that name.
func WithToolChoice(name string) ChatOption {
	return func(o *ChatOptions) { o.ToolChoice = name }
}

// NewChatOptions applies opts and drops a forced tool that is not offered.
func NewChatOptions(tools []Tool, opts ...ChatOption) ChatOptions {
	var o ChatOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.ToolChoice != "" && !hasTool(tools, o.ToolChoice) {
		o.ToolChoice = ""
	}
	return o
}

func hasTool(tools []Tool, name string) bool {
	for _, t := range tools {
		if t.Name == name {
			return true
		}
	}
	return false
}
