package intelligence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/telassist/telassist/engine/core"
	"github.com/telassist/telassist/pkg/logger"
)

// Config tunes the orchestrator's attempt policy.
type Config struct {
	// Primary selects which provider family leads: ProviderToolAugmented
	// or ProviderDirectModel. The other configured provider becomes the
	// secondary.
	Primary string
	// Timeout is the hard wall-clock budget per attempt.
	Timeout time.Duration
	// MaxRetries is the number of additional attempts per provider after
	// the first.
	MaxRetries int
	// RetryDelay is the pause between attempts on the same provider.
	RetryDelay time.Duration
}

// DefaultConfig mirrors the production defaults: tools lead, generous
// per-attempt budget because tool round-trips take time.
func DefaultConfig() Config {
	return Config{
		Primary:    ProviderToolAugmented,
		Timeout:    10 * time.Second,
		MaxRetries: 1,
		RetryDelay: 100 * time.Millisecond,
	}
}

// Orchestrator sequences reasoning providers: primary first, bounded
// retries per provider, advance on failure, safe fallback when everything
// is exhausted. It holds no mutable state, so one instance is safe for
// concurrent requests; construction is cheap enough to build per request.
type Orchestrator struct {
	providers  []Provider
	fallback   Provider
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// New builds an orchestrator. toolAugmented and directModel may each be
// nil when unconfigured; order is primary-first among those present.
// fallback must be non-nil and non-failing; pass NewSafeFallback.
func New(cfg Config, toolAugmented, directModel, fallback Provider) *Orchestrator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultConfig().RetryDelay
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if fallback == nil {
		fallback = NewSafeFallback(DefaultPolicy())
	}

	ordered := []Provider{toolAugmented, directModel}
	if cfg.Primary == ProviderDirectModel {
		ordered = []Provider{directModel, toolAugmented}
	}
	providers := make([]Provider, 0, len(ordered))
	for _, p := range ordered {
		if p != nil {
			providers = append(providers, p)
		}
	}

	return &Orchestrator{
		providers:  providers,
		fallback:   fallback,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
}

// Ask produces exactly one reply for the given turn. It never panics,
// never returns an empty string, and never surfaces an error: every
// upstream failure is a "try next" signal, and total exhaustion is
// absorbed by the fallback provider.
func (o *Orchestrator) Ask(ctx context.Context, history core.History, cust *core.CustomerContext) string {
	log := logger.FromContext(ctx)

	for _, provider := range o.providers {
		reply, err := o.askProvider(ctx, provider, history, cust)
		if err == nil {
			return reply
		}
		log.Warn("provider exhausted all attempts, switching to next",
			"provider", provider.Name(), "code", core.ErrorCode(err), "error", err)
	}

	log.Error("all reasoning providers failed, using safe fallback")
	reply, _ := o.fallback.Ask(ctx, history, cust)
	return reply
}

// askProvider runs up to maxRetries+1 attempts against one provider.
// Failure kinds are deliberately not distinguished: timeout, transport
// error, and malformed response all mean "retry, then move on".
func (o *Orchestrator) askProvider(
	ctx context.Context,
	provider Provider,
	history core.History,
	cust *core.CustomerContext,
) (string, error) {
	log := logger.FromContext(ctx)
	backoff := retry.WithMaxRetries(uint64(o.maxRetries), retry.NewConstant(o.retryDelay))

	var reply string
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		log.Debug("asking provider", "provider", provider.Name(), "attempt", attempt)
		text, attemptErr := o.attempt(ctx, provider, history, cust)
		if attemptErr != nil {
			log.Warn("provider attempt failed",
				"provider", provider.Name(), "attempt", attempt, "error", attemptErr)
			return retry.RetryableError(attemptErr)
		}
		reply = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

type attemptResult struct {
	text string
	err  error
}

// attempt invokes the provider under a hard deadline. On expiry the
// in-flight call is abandoned: its eventual result goes to a buffered
// channel nobody reads, and control returns to the retry loop immediately.
func (o *Orchestrator) attempt(
	ctx context.Context,
	provider Provider,
	history core.History,
	cust *core.CustomerContext,
) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	results := make(chan attemptResult, 1)
	go func() {
		text, err := provider.Ask(attemptCtx, history, cust)
		results <- attemptResult{text: text, err: err}
	}()

	select {
	case res := <-results:
		if res.err != nil {
			return "", res.err
		}
		if strings.TrimSpace(res.text) == "" {
			return "", fmt.Errorf("provider %q returned an empty reply", provider.Name())
		}
		return res.text, nil
	case <-attemptCtx.Done():
		return "", fmt.Errorf("provider %q timed out after %s: %w",
			provider.Name(), o.timeout, attemptCtx.Err())
	}
}
