package llm

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m-mizutani/goerr/v2"
)

const (
	defaultAnthropicModel = "claude-sonnet-4-20250514"
	anthropicMaxTokens    = 2048
)

type AnthropicClient struct {
	client anthropic.Client
	model  string
}

// NewAnthropicClient authenticates with an OAuth token when one is given,
// otherwise with the API key.
func NewAnthropicClient(apiKey, authToken, model string) *AnthropicClient {
	opts := []option.RequestOption{option.WithHeader("User-Agent", "nudge/1.0")}
	if authToken != "" {
		opts = append(opts,
			option.WithAuthToken(authToken),
			option.WithHeader("anthropic-beta", "oauth-2025-04-20"),
		)
	} else if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicClient{client: anthropic.NewClient(opts...), model: model}
}

func (c *AnthropicClient) Chat(ctx context.Context, systemPrompt string, messages []Message, tools []Tool, opts ...ChatOption) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: anthropicMaxTokens,
		Messages:  toAnthropicMessages(messages),
		Tools:     toAnthropicTools(tools),
	}
	if o := NewChatOptions(tools, opts...); o.ToolChoice != "" {
		params.ToolChoice = anthropicToolChoice(o.ToolChoice)
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, goerr.Wrap(ErrProvider, "anthropic chat", goerr.V("model", c.model), goerr.V("cause", err.Error()))
	}

	result := &Response{}
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			result.Content += block.Text
		case "tool_use":
			params := map[string]any{}
			if len(block.Input) > 0 {
				if err := json.Unmarshal(block.Input, &params); err != nil {
					return nil, goerr.Wrap(ErrProvider, "tool input is not an object", goerr.V("tool", block.Name))
				}
			}
			result.ToolCalls = append(result.ToolCalls, ToolCall{ID: block.ID, Name: block.Name, Params: params})
		}
	}
	return result, nil
}

func anthropicToolChoice(name string) anthropic.ToolChoiceUnionParam {
	return anthropic.ToolChoiceUnionParam{OfTool: &anthropic.ToolChoiceToolParam{Name: name}}
}

func toAnthropicTools(tools []Tool) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		schema := anthropic.ToolInputSchemaParam{Properties: t.Parameters["properties"]}
		if req, ok := t.Parameters["required"].([]string); ok {
			schema.Required = req
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: schema,
		}})
	}
	return out
}

// toAnthropicMessages folds consecutive tool results into a single user
// turn, which the Messages API requires after a multi-tool assistant turn.
func toAnthropicMessages(messages []Message) []anthropic.MessageParam {
	var out []anthropic.MessageParam
	var results []anthropic.ContentBlockParamUnion
	flush := func() {
		if len(results) > 0 {
			out = append(out, anthropic.NewUserMessage(results...))
			results = nil
		}
	}

	for _, m := range messages {
		if m.Role == "user" && m.ToolCallID != "" {
			results = append(results, anthropic.NewToolResultBlock(m.ToolCallID, m.Content, false))
			continue
		}
		flush()
		switch m.Role {
		case "user":
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case "assistant":
			var blocks []anthropic.ContentBlockParamUnion
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, tc.Params, tc.Name))
			}
			if len(blocks) > 0 {
				out = append(out, anthropic.NewAssistantMessage(blocks...))
			}
		}
	}
	flush()
	return out
}
