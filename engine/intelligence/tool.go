package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/telassist/telassist/engine/core"
	"github.com/telassist/telassist/engine/llm"
	"github.com/telassist/telassist/engine/mcp"
	"github.com/telassist/telassist/pkg/logger"
)

const (
	toolTemperature = 0.3
	toolMaxTokens   = 300
)

// ToolAugmented lets the model consult live backend data before answering.
// Each Ask runs exactly one decide/execute/synthesize cycle against a fresh
// tool-server session: round one offers the catalog and lets the model
// request tool calls, round two synthesizes the final answer from the tool
// results with no catalog attached, so tool use is bounded per turn.
type ToolAugmented struct {
	client    llm.Client
	connector mcp.Connector
	policy    Policy
}

// NewToolAugmented builds the tool-augmented provider.
func NewToolAugmented(client llm.Client, connector mcp.Connector, policy Policy) *ToolAugmented {
	return &ToolAugmented{client: client, connector: connector, policy: policy}
}

func (p *ToolAugmented) Name() string { return ProviderToolAugmented }

// Ask implements Provider. Connection, catalog, and model-call failures
// propagate to the orchestrator. A single tool's execution failure does
// not: it is surfaced to the model as an error tool-result so the model
// can narrate it to the customer.
func (p *ToolAugmented) Ask(ctx context.Context, history core.History, cust *core.CustomerContext) (string, error) {
	log := logger.FromContext(ctx)

	session, err := p.connector.Connect(ctx)
	if err != nil {
		return "", fmt.Errorf("tool server connection failed: %w", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			log.Warn("failed to close tool session", "error", closeErr)
		}
	}()

	tools, err := session.ListTools(ctx)
	if err != nil {
		return "", fmt.Errorf("tool catalog fetch failed: %w", err)
	}

	messages := p.composeMessages(history, cust)

	// Round 1: decide. The model may answer directly or request tools.
	decide, err := p.client.GenerateContent(ctx, &llm.Request{
		Messages: messages,
		Tools:    tools,
		Options: llm.CallOptions{
			Temperature: toolTemperature,
			MaxTokens:   toolMaxTokens,
			ToolChoice:  "auto",
		},
	})
	if err != nil {
		return "", fmt.Errorf("decide round failed: %w", err)
	}
	if len(decide.ToolCalls) == 0 {
		if strings.TrimSpace(decide.Content) == "" {
			return "", fmt.Errorf("model returned neither text nor tool calls")
		}
		return decide.Content, nil
	}

	results := p.executeToolCalls(ctx, session, decide.ToolCalls)
	messages = append(messages,
		llm.Message{Role: llm.RoleAssistant, Content: decide.Content, ToolCalls: decide.ToolCalls},
		llm.Message{Role: llm.RoleTool, ToolResults: results},
	)

	// Round 2: synthesize. No catalog attached; further tool calls are
	// not honored this turn.
	final, err := p.client.GenerateContent(ctx, &llm.Request{
		Messages: messages,
		Options: llm.CallOptions{
			Temperature: toolTemperature,
			MaxTokens:   toolMaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("synthesize round failed: %w", err)
	}
	if strings.TrimSpace(final.Content) == "" {
		return "", fmt.Errorf("model returned an empty synthesis")
	}
	return final.Content, nil
}

// composeMessages builds the round-1 prompt: tool policy, optional customer
// snapshot, then the caller's history untouched.
func (p *ToolAugmented) composeMessages(history core.History, cust *core.CustomerContext) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: toolSystemPrompt(p.policy)})
	if ctxPrompt := customerContextPrompt(cust); ctxPrompt != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: ctxPrompt})
	}
	for _, m := range history {
		messages = append(messages, llm.Message{Role: string(m.Role), Content: m.Content})
	}
	return messages
}

// executeToolCalls runs every requested call through the session. Each call
// is independent: one failure becomes an error tool-result and the rest
// still run.
func (p *ToolAugmented) executeToolCalls(
	ctx context.Context,
	session mcp.Session,
	calls []llm.ToolCall,
) []llm.ToolResult {
	log := logger.FromContext(ctx)
	results := make([]llm.ToolResult, 0, len(calls))
	for _, call := range calls {
		content := p.executeOne(ctx, session, call)
		log.Debug("tool call executed", "tool", call.Name, "call_id", call.ID)
		results = append(results, llm.ToolResult{
			ID:      call.ID,
			Name:    call.Name,
			Content: content,
		})
	}
	return results
}

func (p *ToolAugmented) executeOne(ctx context.Context, session mcp.Session, call llm.ToolCall) string {
	var args map[string]any
	if len(call.Arguments) > 0 {
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return fmt.Sprintf("Tool call failed: invalid arguments: %v", err)
		}
	}
	out, err := session.CallTool(ctx, call.Name, args)
	if err != nil {
		logger.FromContext(ctx).Warn("tool execution failed", "tool", call.Name, "error", err)
		return fmt.Sprintf("Tool call failed: %v", err)
	}
	return out
}
