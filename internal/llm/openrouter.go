package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	openrouter "github.com/revrost/go-openrouter"
)

// OpenRouter serves any model routable through openrouter.ai.
type OpenRouter struct {
	client *openrouter.Client
}

func NewOpenRouter(apiKey, baseURL string, timeout time.Duration) *OpenRouter {
	cfg := openrouter.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimSpace(baseURL)
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenRouter{client: openrouter.NewClientWithConfig(*cfg)}
}

func (p *OpenRouter) Name() string { return "openrouter" }

func (p *OpenRouter) Chat(ctx context.Context, req Request) (Response, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openrouter.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    openRouterMessages(req),
		Tools:       openRouterTools(req.Tools),
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return Response{}, err
	}
	if len(resp.Choices) == 0 {
		return Response{}, ErrEmptyResponse
	}

	choice := resp.Choices[0]
	out := Response{
		Message: Message{
			Role:      RoleAssistant,
			Content:   choice.Message.Content.Text,
			ToolCalls: fromOpenRouterToolCalls(choice.Message.ToolCalls),
		},
	}
	if len(out.Message.ToolCalls) > 0 {
		out.StopReason = StopReasonToolCalls
	} else {
		out.StopReason = mapStopReason(string(choice.FinishReason))
	}
	if resp.Usage != nil {
		out.Usage = Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
			Cost:             resp.Usage.Cost,
		}
	}
	return out, nil
}

func openRouterMessages(req Request) []openrouter.ChatCompletionMessage {
	messages := make([]openrouter.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openrouter.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			messages = append(messages, openrouter.SystemMessage(m.Content))
		case RoleUser:
			messages = append(messages, openrouter.UserMessage(m.Content))
		case RoleTool:
			messages = append(messages, openrouter.ToolMessage(m.ToolCallID, m.Content))
		case RoleAssistant:
			messages = append(messages, openrouter.ChatCompletionMessage{
				Role:      openrouter.ChatMessageRoleAssistant,
				Content:   openrouter.Content{Text: m.Content},
				ToolCalls: toOpenRouterToolCalls(m.ToolCalls),
			})
		}
	}
	return messages
}

func openRouterTools(tools []ToolDefinition) []openrouter.Tool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]openrouter.Tool, len(tools))
	for i, t := range tools {
		out[i] = openrouter.Tool{
			Type: openrouter.ToolTypeFunction,
			Function: &openrouter.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		}
	}
	return out
}

func toOpenRouterToolCalls(calls []ToolCall) []openrouter.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]openrouter.ToolCall, len(calls))
	for i, tc := range calls {
		out[i] = openrouter.ToolCall{
			ID:   tc.ID,
			Type: openrouter.ToolTypeFunction,
			Function: openrouter.FunctionCall{
				Name:      tc.Name,
				Arguments: tc.Arguments,
			},
		}
	}
	return out
}

func fromOpenRouterToolCalls(calls []openrouter.ToolCall) []ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]ToolCall, len(calls))
	for i, tc := range calls {
		out[i] = ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}
	}
	return out
}

func mapStopReason(reason string) StopReason {
	switch reason {
	case "length", "max_tokens":
		return StopReasonLength
	case "tool_calls", "tool_use":
		return StopReasonToolCalls
	default:
		return StopReasonStop
	}
}
