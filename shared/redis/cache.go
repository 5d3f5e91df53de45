package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ViewCache is a generic JSON-backed Redis cache for read projections.
// A ViewCache built on a nil client is a no-op that always misses.
type ViewCache[T any] struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewViewCache creates a ViewCache storing keys under prefix. Pass ttl 0 for
// keys that should not expire.
func NewViewCache[T any](client *goredis.Client, prefix string, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, prefix: prefix, ttl: ttl}
}

func (c *ViewCache[T]) Enabled() bool {
	return c != nil && c.client != nil
}

// Get retrieves and unmarshals a value.
// Returns (nil, false) on any miss or deserialisation error.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	if !c.Enabled() {
		return nil, false
	}
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// GetMany fetches several keys in one round trip. Missing keys are absent
// from the result.
func (c *ViewCache[T]) GetMany(ctx context.Context, keys []string) map[string]*T {
	found := make(map[string]*T, len(keys))
	if !c.Enabled() || len(keys) == 0 {
		return found
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	values, err := c.client.MGet(ctx, full...).Result()
	if err != nil {
		log.Warn().Err(err).Str("prefix", c.prefix).Msg("view cache: mget failed")
		return found
	}
	for i, raw := range values {
		s, ok := raw.(string)
		if !ok {
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			continue
		}
		found[keys[i]] = &v
	}
	return found
}

// Set marshals value and stores it under key.
// Errors are logged rather than returned; a failed cache write is non-fatal.
func (c *ViewCache[T]) Set(ctx context.Context, key string, value *T) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", c.prefix+key).Msg("view cache: marshal error")
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", c.prefix+key).Msg("view cache: write error")
	}
}

// Delete removes a key.
func (c *ViewCache[T]) Delete(ctx context.Context, key string) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		log.Warn().Err(err).Str("key", c.prefix+key).Msg("view cache: delete error")
	}
}
