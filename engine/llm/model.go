package llm

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// ProviderName identifies a model backend.
type ProviderName string

const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderGroq      ProviderName = "groq"
	ProviderAnthropic ProviderName = "anthropic"
	ProviderOllama    ProviderName = "ollama"
	ProviderMock      ProviderName = "mock"
)

// ProviderConfig holds model-backend settings.
type ProviderConfig struct {
	Provider ProviderName
	Model    string
	APIKey   string
	APIURL   string
}

// NewModel builds a langchaingo model for the configured backend.
func NewModel(cfg *ProviderConfig) (llms.Model, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return newOpenAIModel(cfg, "")
	case ProviderGroq:
		return newOpenAIModel(cfg, "https://api.groq.com/openai/v1")
	case ProviderAnthropic:
		return newAnthropicModel(cfg)
	case ProviderOllama:
		return newOllamaModel(cfg)
	case ProviderMock:
		return NewMockModel(cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

func newOpenAIModel(cfg *ProviderConfig, defaultBaseURL string) (llms.Model, error) {
	opts := []openai.Option{
		openai.WithModel(cfg.Model),
	}
	baseURL := cfg.APIURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, openai.WithToken(cfg.APIKey))
	}
	return openai.New(opts...)
}

func newAnthropicModel(cfg *ProviderConfig) (llms.Model, error) {
	opts := []anthropic.Option{
		anthropic.WithModel(cfg.Model),
	}
	if cfg.APIKey != "" {
		opts = append(opts, anthropic.WithToken(cfg.APIKey))
	}
	return anthropic.New(opts...)
}

func newOllamaModel(cfg *ProviderConfig) (llms.Model, error) {
	opts := []ollama.Option{
		ollama.WithModel(cfg.Model),
	}
	if cfg.APIURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.APIURL))
	}
	return ollama.New(opts...)
}
