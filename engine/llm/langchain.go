package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// LangChainClient adapts a langchaingo model to the Client interface.
type LangChainClient struct {
	model llms.Model
}

// NewLangChainClient builds a Client for the configured backend.
func NewLangChainClient(cfg *ProviderConfig) (*LangChainClient, error) {
	model, err := NewModel(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	return &LangChainClient{model: model}, nil
}

// NewLangChainClientFromModel wraps an existing model. Used in tests.
func NewLangChainClientFromModel(model llms.Model) *LangChainClient {
	return &LangChainClient{model: model}
}

// GenerateContent implements Client.
func (c *LangChainClient) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if err := ValidateConversation(req.Messages); err != nil {
		return nil, err
	}
	messages := convertMessages(req.Messages)
	options := buildCallOptions(req)

	resp, err := c.model.GenerateContent(ctx, messages, options...)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}
	return convertResponse(resp)
}

// Close implements Client. LangChain models hold no resources to release.
func (c *LangChainClient) Close() error { return nil }

func convertMessages(in []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(in))
	for _, msg := range in {
		switch {
		case len(msg.ToolCalls) > 0:
			out = append(out, assistantToolCallMessage(msg))
		case len(msg.ToolResults) > 0:
			out = append(out, toolResultMessages(msg)...)
		default:
			out = append(out, llms.TextParts(mapRole(msg.Role), msg.Content))
		}
	}
	return out
}

func assistantToolCallMessage(msg Message) llms.MessageContent {
	parts := make([]llms.ContentPart, 0, len(msg.ToolCalls)+1)
	if msg.Content != "" {
		parts = append(parts, llms.TextContent{Text: msg.Content})
	}
	for _, tc := range msg.ToolCalls {
		parts = append(parts, llms.ToolCall{
			ID:   tc.ID,
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      tc.Name,
				Arguments: string(tc.Arguments),
			},
		})
	}
	return llms.MessageContent{Role: llms.ChatMessageTypeAI, Parts: parts}
}

func toolResultMessages(msg Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(msg.ToolResults))
	for _, tr := range msg.ToolResults {
		out = append(out, llms.MessageContent{
			Role: llms.ChatMessageTypeTool,
			Parts: []llms.ContentPart{
				llms.ToolCallResponse{
					ToolCallID: tr.ID,
					Name:       tr.Name,
					Content:    tr.Content,
				},
			},
		})
	}
	return out
}

func mapRole(role string) llms.ChatMessageType {
	switch role {
	case RoleSystem:
		return llms.ChatMessageTypeSystem
	case RoleAssistant:
		return llms.ChatMessageTypeAI
	case RoleTool:
		return llms.ChatMessageTypeTool
	default:
		return llms.ChatMessageTypeHuman
	}
}

func buildCallOptions(req *Request) []llms.CallOption {
	var options []llms.CallOption
	if req.Options.Temperature > 0 {
		options = append(options, llms.WithTemperature(req.Options.Temperature))
	}
	if req.Options.MaxTokens > 0 {
		options = append(options, llms.WithMaxTokens(req.Options.MaxTokens))
	}
	if len(req.Tools) > 0 {
		options = append(options, llms.WithTools(convertTools(req.Tools)))
		if req.Options.ToolChoice != "" {
			options = append(options, llms.WithToolChoice(req.Options.ToolChoice))
		}
	}
	return options
}

func convertTools(tools []ToolDefinition) []llms.Tool {
	out := make([]llms.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}

func convertResponse(resp *llms.ContentResponse) (*Response, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from model")
	}
	choice := resp.Choices[0]
	out := &Response{Content: choice.Content}
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.FunctionCall.Name,
			Arguments: json.RawMessage(tc.FunctionCall.Arguments),
		})
	}
	return out, nil
}
