package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/telassist/telassist/engine/core"
	"github.com/telassist/telassist/engine/llm"
)

// Single-shot completions favor consistent, factual-sounding replies that
// are safe to read aloud: low temperature, tight output cap.
const (
	directTemperature = 0.3
	directMaxTokens   = 150
)

// DirectModel answers with one LLM completion, using a system prompt
// synthesized from the customer context. No tools are involved; errors
// propagate to the orchestrator, which owns retry and fallback.
type DirectModel struct {
	client llm.Client
	policy Policy
}

// NewDirectModel builds the single-shot provider.
func NewDirectModel(client llm.Client, policy Policy) *DirectModel {
	return &DirectModel{client: client, policy: policy}
}

func (p *DirectModel) Name() string { return ProviderDirectModel }

// Ask implements Provider.
func (p *DirectModel) Ask(ctx context.Context, history core.History, cust *core.CustomerContext) (string, error) {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: directSystemPrompt(p.policy, cust),
	})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: string(m.Role), Content: m.Content})
	}

	resp, err := p.client.GenerateContent(ctx, &llm.Request{
		Messages: messages,
		Options: llm.CallOptions{
			Temperature: directTemperature,
			MaxTokens:   directMaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("direct model completion failed: %w", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("direct model returned an empty completion")
	}
	return resp.Content, nil
}
