package store

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionStore_Log(t *testing.T) {
	ctx := context.Background()

	t.Run("Should insert one row per interaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("INSERT INTO interaction_history").
			WithArgs("SUB-42", "VOICE", "kalan internetim ne kadar", "5 GB kaldı.", "sess-1").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		store := NewInteractionStore(mock)
		err = store.Log(ctx, Interaction{
			CustomerID:     "SUB-42",
			Channel:        "VOICE",
			UserMessage:    "kalan internetim ne kadar",
			AssistantReply: "5 GB kaldı.",
			SessionID:      "sess-1",
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should wrap database errors", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("INSERT INTO interaction_history").
			WithArgs("SUB-42", "CHAT", "hi", "hello", "sess-2").
			WillReturnError(errors.New("connection reset"))

		store := NewInteractionStore(mock)
		err = store.Log(ctx, Interaction{
			CustomerID:     "SUB-42",
			Channel:        "CHAT",
			UserMessage:    "hi",
			AssistantReply: "hello",
			SessionID:      "sess-2",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to log interaction")
	})
}
