// Package config loads application configuration from defaults and
// environment variables. Nested keys map to env vars with a TELASSIST_
// prefix and "__" as the level separator, e.g.
// TELASSIST_ORCHESTRATOR__MAX_RETRIES.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "TELASSIST_"

// Config is the full application configuration tree.
type Config struct {
	Log          LogConfig          `koanf:"log"`
	Server       ServerConfig       `koanf:"server"`
	LLM          LLMConfig          `koanf:"llm"`
	Orchestrator OrchestratorConfig `koanf:"orchestrator"`
	MCP          MCPConfig          `koanf:"mcp"`
	Customer     CustomerConfig     `koanf:"customer"`
	Redis        RedisConfig        `koanf:"redis"`
	Database     DatabaseConfig     `koanf:"database"`
	Policy       PolicyConfig       `koanf:"policy"`
	History      HistoryConfig      `koanf:"history"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port" validate:"gt=0,lte=65535"`
}

type LLMConfig struct {
	Provider string `koanf:"provider" validate:"oneof=openai groq anthropic ollama mock"`
	Model    string `koanf:"model"    validate:"required"`
	APIKey   string `koanf:"api_key"`
	APIURL   string `koanf:"api_url"`
}

type OrchestratorConfig struct {
	Primary    string        `koanf:"primary"     validate:"oneof=tool_augmented direct_model"`
	Timeout    time.Duration `koanf:"timeout"     validate:"gt=0"`
	MaxRetries int           `koanf:"max_retries" validate:"gte=0,lte=5"`
	RetryDelay time.Duration `koanf:"retry_delay" validate:"gte=0"`
}

type MCPConfig struct {
	// Command is the tool server executable; empty disables the
	// tool-augmented provider.
	Command string   `koanf:"command"`
	Args    []string `koanf:"args"`
	Env     []string `koanf:"env"`
}

type CustomerConfig struct {
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

type RedisConfig struct {
	// Addr empty means conversation memory stays in-process.
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

type DatabaseConfig struct {
	// DSN empty disables interaction logging.
	DSN string `koanf:"dsn"`
}

type PolicyConfig struct {
	Brand           string  `koanf:"brand"`
	EmergencyNumber string  `koanf:"emergency_number"`
	SupportLine     string  `koanf:"support_line"`
	PriceMinTRY     float64 `koanf:"price_min_try" validate:"gte=0"`
	PriceMaxTRY     float64 `koanf:"price_max_try" validate:"gtefield=PriceMinTRY"`
}

type HistoryConfig struct {
	// MaxMessages bounds per-caller conversation memory; oldest turns
	// are dropped first.
	MaxMessages int `koanf:"max_messages" validate:"gt=0"`
}

// Default returns the baseline configuration before env overrides.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info"},
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		LLM:    LLMConfig{Provider: "openai", Model: "gpt-4o-mini"},
		Orchestrator: OrchestratorConfig{
			Primary:    "tool_augmented",
			Timeout:    10 * time.Second,
			MaxRetries: 1,
			RetryDelay: 100 * time.Millisecond,
		},
		Customer: CustomerConfig{Timeout: 10 * time.Second},
		Redis:    RedisConfig{TTL: 30 * time.Minute},
		Policy: PolicyConfig{
			Brand:           "Turkcell",
			EmergencyNumber: "112",
			SupportLine:     "532",
			PriceMinTRY:     150,
			PriceMaxTRY:     1200,
		},
		History: HistoryConfig{MaxMessages: 20},
	}
}

// Load assembles configuration from defaults and TELASSIST_* environment
// variables, then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	envProvider := env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			key = strings.ReplaceAll(key, "__", ".")
			return key, value
		},
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
