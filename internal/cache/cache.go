// In file: internal/cache/cache.go

// Package cache provides an optional Redis-backed cache for finished turns.
// The assistant works without it; when REDIS_ADDR is unset the cache is
// simply nil and every lookup misses.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dileep-u-k/groq-assistant/internal/api"
	"github.com/dileep-u-k/groq-assistant/internal/logging"
	"github.com/dileep-u-k/groq-assistant/internal/version"
)

const keyPrefix = "llmcache"

// ResponseCache stores completed single-turn responses keyed by a versioned
// hash of the prompt. Lookups and stores fail open: a Redis error is logged
// and treated as a miss.
type ResponseCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, addr string, ttl time.Duration, logger *logging.Logger) (*ResponseCache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", addr, err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ResponseCache{rdb: rdb, ttl: ttl, logger: logger}, nil
}

// Check looks up a cached turn for the prompt. A nil receiver, a Redis
// error, or a corrupt entry all count as a miss.
func (c *ResponseCache) Check(ctx context.Context, prompt string) (*api.CachedTurn, bool) {
	if c == nil {
		return nil, false
	}
	key := version.GenerateVersionedCacheKey(keyPrefix, prompt)
	raw, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Errorf("cache lookup failed: %v", err)
		return nil, false
	}

	var turn api.CachedTurn
	if err := json.Unmarshal([]byte(raw), &turn); err != nil {
		c.logger.Errorf("discarding corrupt cache entry: %v", err)
		return nil, false
	}
	return &turn, true
}

// Store saves a finished turn. Failures are logged and ignored.
func (c *ResponseCache) Store(ctx context.Context, prompt string, turn *api.CachedTurn) {
	if c == nil || turn == nil {
		return
	}
	turn.CachedAt = time.Now()
	raw, err := json.Marshal(turn)
	if err != nil {
		c.logger.Errorf("failed to encode turn for caching: %v", err)
		return
	}
	key := version.GenerateVersionedCacheKey(keyPrefix, prompt)
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Errorf("failed to cache response: %v", err)
	}
}

// Close releases the Redis connection.
func (c *ResponseCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
