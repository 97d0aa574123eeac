package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Should write structured output at the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Level: "debug", Output: &buf})

		log.Debug("connecting", "addr", "localhost:6379")

		assert.Contains(t, buf.String(), "connecting")
		assert.Contains(t, buf.String(), "localhost:6379")
	})

	t.Run("Should suppress entries below the level", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Level: "error", Output: &buf})

		log.Info("ignored")

		assert.Empty(t, buf.String())
	})

	t.Run("Should emit JSON when configured", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Level: "info", JSON: true, Output: &buf})

		log.Info("started")

		assert.Contains(t, buf.String(), `"msg":"started"`)
	})

	t.Run("Should carry With fields on child loggers", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Level: "info", Output: &buf}).With("component", "orchestrator")

		log.Info("ready")

		assert.Contains(t, buf.String(), "orchestrator")
	})
}

func TestContext(t *testing.T) {
	t.Run("Should round-trip a logger through the context", func(t *testing.T) {
		log := Nop()
		ctx := ContextWithLogger(context.Background(), log)
		assert.Same(t, log, FromContext(ctx))
	})

	t.Run("Should hand out a default logger when none is attached", func(t *testing.T) {
		require.NotNil(t, FromContext(context.Background()))
	})
}
