package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Message role constants for adapter-level conversations.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a provider-independent conversation message.
type Message struct {
	Role    string
	Content string
	// ToolCalls carries tool invocations emitted by the assistant.
	// Only messages with Role == "assistant" may contain ToolCalls.
	ToolCalls []ToolCall
	// ToolResults carries tool outputs fed back to the model.
	// Only messages with Role == "tool" may contain ToolResults.
	ToolResults []ToolResult
}

// ToolDefinition describes a tool the model may invoke.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON Schema
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolResult is the outcome of one tool invocation, success or failure,
// correlated with the originating call by ID.
type ToolResult struct {
	ID      string
	Name    string
	Content string
}

// CallOptions tunes a single completion call.
type CallOptions struct {
	Temperature float64
	MaxTokens   int
	ToolChoice  string // "auto", "none", or a specific tool name
}

// Request is a single completion request, independent of provider.
type Request struct {
	Messages []Message
	Tools    []ToolDefinition
	Options  CallOptions
}

// Response is the model's reply: text, tool calls, or both.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// Client is the LLM collaborator interface consumed by providers.
type Client interface {
	GenerateContent(ctx context.Context, req *Request) (*Response, error)
	Close() error
}

// ValidateConversation asserts role constraints on messages: only assistant
// messages may carry ToolCalls and only tool messages may carry ToolResults.
// Catches wiring mistakes before they reach a provider API.
func ValidateConversation(messages []Message) error {
	for i, m := range messages {
		if len(m.ToolCalls) > 0 && m.Role != RoleAssistant {
			return fmt.Errorf("message[%d] role %q cannot contain ToolCalls", i, m.Role)
		}
		if len(m.ToolResults) > 0 && m.Role != RoleTool {
			return fmt.Errorf("message[%d] role %q cannot contain ToolResults", i, m.Role)
		}
	}
	return nil
}
