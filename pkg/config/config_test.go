package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Should load production defaults without any environment", func(t *testing.T) {
		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "openai", cfg.LLM.Provider)
		assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
		assert.Equal(t, "tool_augmented", cfg.Orchestrator.Primary)
		assert.Equal(t, 10*time.Second, cfg.Orchestrator.Timeout)
		assert.Equal(t, 1, cfg.Orchestrator.MaxRetries)
		assert.Equal(t, 100*time.Millisecond, cfg.Orchestrator.RetryDelay)
		assert.Equal(t, "Turkcell", cfg.Policy.Brand)
		assert.Equal(t, "112", cfg.Policy.EmergencyNumber)
		assert.Equal(t, "532", cfg.Policy.SupportLine)
		assert.Equal(t, 20, cfg.History.MaxMessages)
		assert.Empty(t, cfg.MCP.Command)
		assert.Empty(t, cfg.Redis.Addr)
		assert.Empty(t, cfg.Database.DSN)
	})

	t.Run("Should override nested keys from the environment", func(t *testing.T) {
		t.Setenv("TELASSIST_LLM__PROVIDER", "groq")
		t.Setenv("TELASSIST_LLM__MODEL", "llama-3.3-70b-versatile")
		t.Setenv("TELASSIST_ORCHESTRATOR__PRIMARY", "direct_model")
		t.Setenv("TELASSIST_ORCHESTRATOR__MAX_RETRIES", "2")
		t.Setenv("TELASSIST_ORCHESTRATOR__TIMEOUT", "15s")
		t.Setenv("TELASSIST_SERVER__PORT", "9090")
		t.Setenv("TELASSIST_REDIS__ADDR", "localhost:6379")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "groq", cfg.LLM.Provider)
		assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Model)
		assert.Equal(t, "direct_model", cfg.Orchestrator.Primary)
		assert.Equal(t, 2, cfg.Orchestrator.MaxRetries)
		assert.Equal(t, 15*time.Second, cfg.Orchestrator.Timeout)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	})

	t.Run("Should reject an unknown provider", func(t *testing.T) {
		t.Setenv("TELASSIST_LLM__PROVIDER", "watson")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("Should reject an unknown primary strategy", func(t *testing.T) {
		t.Setenv("TELASSIST_ORCHESTRATOR__PRIMARY", "oracle")

		_, err := Load()

		require.Error(t, err)
	})

	t.Run("Should reject an out-of-range port", func(t *testing.T) {
		t.Setenv("TELASSIST_SERVER__PORT", "70000")

		_, err := Load()

		require.Error(t, err)
	})

	t.Run("Should reject an inverted price band", func(t *testing.T) {
		t.Setenv("TELASSIST_POLICY__PRICE_MAX_TRY", "10")

		_, err := Load()

		require.Error(t, err)
	})
}
