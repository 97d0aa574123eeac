// Package session holds per-caller conversation memory. The channel
// adapters own the truncation policy; the store is a plain keyed
// history container with pluggable backing.
package session

import (
	"context"
	"sync"

	"github.com/telassist/telassist/engine/core"
)

// Store keeps conversation histories keyed by caller identifier.
type Store interface {
	// Get returns the stored history for key, or an empty history when
	// none exists.
	Get(ctx context.Context, key string) (core.History, error)
	// Put replaces the stored history for key.
	Put(ctx context.Context, key string, history core.History) error
}

// MemoryStore is a mutex-guarded in-process store. Suitable for tests and
// single-instance deployments; conversation memory does not survive a
// restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]core.History
}

// NewMemoryStore builds an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]core.History)}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (core.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[key].Clone(), nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, key string, history core.History) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = history.Clone()
	return nil
}
