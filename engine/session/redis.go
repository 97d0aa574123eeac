package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/telassist/telassist/engine/core"
)

const keyPrefix = "telassist:session:"

// RedisStore persists conversation histories in Redis with a TTL, so
// memory survives process restarts and is shared across instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing Redis client. A zero ttl means sessions
// never expire.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (core.History, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session %q: %w", key, err)
	}
	var history core.History
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil, fmt.Errorf("failed to decode session %q: %w", key, err)
	}
	return history, nil
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, key string, history core.History) error {
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode session %q: %w", key, err)
	}
	if err := s.client.Set(ctx, keyPrefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session %q: %w", key, err)
	}
	return nil
}
