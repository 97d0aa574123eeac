// Package store persists interaction history. Logging is best-effort
// plumbing: a failed insert is logged and never fails the request.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Interaction is one user turn and the assistant's reply.
type Interaction struct {
	CustomerID     string
	Channel        string // "VOICE", "CHAT"
	UserMessage    string
	AssistantReply string
	SessionID      string
}

// DB is the subset of pgxpool.Pool the store needs. pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// InteractionStore writes interaction records to Postgres.
type InteractionStore struct {
	db DB
}

// NewInteractionStore wraps a pgx pool (or mock).
func NewInteractionStore(db DB) *InteractionStore {
	return &InteractionStore{db: db}
}

const insertInteraction = `
INSERT INTO interaction_history
	(customer_id, channel, user_message, assistant_reply, session_id)
VALUES ($1, $2, $3, $4, $5)`

// Log records one interaction.
func (s *InteractionStore) Log(ctx context.Context, in Interaction) error {
	_, err := s.db.Exec(ctx, insertInteraction,
		in.CustomerID, in.Channel, in.UserMessage, in.AssistantReply, in.SessionID)
	if err != nil {
		return fmt.Errorf("failed to log interaction: %w", err)
	}
	return nil
}
