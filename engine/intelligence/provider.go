// Package intelligence turns a conversational turn into a reply while
// absorbing the unreliability of upstream AI services. An Orchestrator
// tries interchangeable reasoning providers in priority order with
// per-attempt timeouts and bounded retries, and a dependency-free
// fallback guarantees a response is always produced.
package intelligence

import (
	"context"

	"github.com/telassist/telassist/engine/core"
)

// Provider names as used for primary selection and logging.
const (
	ProviderToolAugmented = "tool_augmented"
	ProviderDirectModel   = "direct_model"
	ProviderSafeFallback  = "safe_fallback"
)

// Provider is a strategy for turning a conversation into a reply.
// Implementations must not mutate the history they are given.
type Provider interface {
	Name() string
	Ask(ctx context.Context, history core.History, cust *core.CustomerContext) (string, error)
}
