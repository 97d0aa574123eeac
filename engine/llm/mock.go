package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// MockModel is a deterministic in-process model used for tests and for
// running the stack without upstream credentials.
type MockModel struct {
	model string
}

// NewMockModel creates a mock model.
func NewMockModel(model string) *MockModel {
	return &MockModel{model: model}
}

// GenerateContent echoes a predictable reply derived from the last user turn.
func (m *MockModel) GenerateContent(
	ctx context.Context,
	messages []llms.MessageContent,
	_ ...llms.CallOption,
) (*llms.ContentResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var lastUser string
	for _, message := range messages {
		if message.Role != llms.ChatMessageTypeHuman {
			continue
		}
		for _, part := range message.Parts {
			if text, ok := part.(llms.TextContent); ok {
				lastUser = text.Text
			}
		}
	}
	content := "How can I help you with your mobile service today?"
	if strings.TrimSpace(lastUser) != "" {
		content = fmt.Sprintf("I heard: %s. How can I help further?", strings.TrimSpace(lastUser))
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: content}},
	}, nil
}

// Call implements the legacy single-prompt interface.
func (m *MockModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, opts...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}
