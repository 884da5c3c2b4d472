package llm

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint,
// including a local Ollama server.
type OpenAIClient struct {
	client openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model, baseURL string) *OpenAIClient {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	if model == "" {
		model = string(openai.ChatModelGPT4o)
	}
	return &OpenAIClient{client: client, model: model}
}

func (c *OpenAIClient) Chat(ctx context.Context, systemPrompt string, messages []Message, tools []Tool, opts ...ChatOption) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: toOpenAIMessages(systemPrompt, messages),
	}
	if len(tools) > 0 {
		params.Tools = toOpenAITools(tools)
	}
	if o := NewChatOptions(tools, opts...); o.ToolChoice != "" {
		params.ToolChoice = openAIToolChoice(o.ToolChoice)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, goerr.Wrap(ErrProvider, "openai chat", goerr.V("model", c.model), goerr.V("cause", err.Error()))
	}
	if len(resp.Choices) == 0 {
		return &Response{}, nil
	}

	choice := resp.Choices[0]
	result := &Response{Content: choice.Message.Content}
	for _, tc := range choice.Message.ToolCalls {
		ftc := tc.AsFunction()
		args := map[string]any{}
		if ftc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(ftc.Function.Arguments), &args); err != nil {
				return nil, goerr.Wrap(ErrProvider, "tool arguments are not an object", goerr.V("tool", ftc.Function.Name))
			}
		}
		result.ToolCalls = append(result.ToolCalls, ToolCall{
			ID:     ftc.ID,
			Name:   ftc.Function.Name,
			Params: args,
		})
	}
	return result, nil
}

func openAIToolChoice(name string) openai.ChatCompletionToolChoiceOptionUnionParam {
	return openai.ChatCompletionToolChoiceOptionUnionParam{
		OfFunctionToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
			Function: openai.ChatCompletionNamedToolChoiceFunctionParam{Name: name},
		},
	}
}

func toOpenAITools(tools []Tool) []openai.ChatCompletionToolUnionParam {
	out := make([]openai.ChatCompletionToolUnionParam, len(tools))
	for i, t := range tools {
		out[i] = openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
			Parameters:  openai.FunctionParameters(t.Parameters),
		})
	}
	return out
}

func toOpenAIMessages(systemPrompt string, messages []Message) []openai.ChatCompletionMessageParamUnion {
	oaiMsgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
	}
	for _, m := range messages {
		switch m.Role {
		case "user":
			if m.ToolCallID != "" {
				oaiMsgs = append(oaiMsgs, openai.ToolMessage(m.Content, m.ToolCallID))
			} else {
				oaiMsgs = append(oaiMsgs, openai.UserMessage(m.Content))
			}
		case "assistant":
			if len(m.ToolCalls) > 0 {
				toolCalls := make([]openai.ChatCompletionMessageToolCallUnionParam, len(m.ToolCalls))
				for j, tc := range m.ToolCalls {
					argsJSON, _ := json.Marshal(tc.Params)
					toolCalls[j] = openai.ChatCompletionMessageToolCallUnionParam{
						OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
							ID: tc.ID,
							Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
								Name:      tc.Name,
								Arguments: string(argsJSON),
							},
						},
					}
				}
				oaiMsgs = append(oaiMsgs, openai.ChatCompletionMessageParamUnion{
					OfAssistant: &openai.ChatCompletionAssistantMessageParam{
						Content: openai.ChatCompletionAssistantMessageParamContentUnion{
							OfString: param.NewOpt(m.Content),
						},
						ToolCalls: toolCalls,
					},
				})
			} else {
				oaiMsgs = append(oaiMsgs, openai.AssistantMessage(m.Content))
			}
		}
	}

	return oaiMsgs
}
