// Package cache stores JSON snapshots of public read endpoints in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Keys for cached public payloads.
const (
	KeyContent = "cache:content"
	KeyEvents  = "cache:events"
	KeyTeam    = "cache:team"
)

// Cache is a small JSON read-through cache. A nil *Cache is valid and caches nothing.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a cache with the given TTL.
func New(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Get decodes the cached value for key into dst. It reports false on a miss.
func (c *Cache) Get(ctx context.Context, key string, dst interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("cache decode", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores v under key. Failures are logged, never returned; the cache is best effort.
func (c *Cache) Set(ctx context.Context, key string, v interface{}) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache encode", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops keys after a write.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidate", zap.Strings("keys", keys), zap.Error(err))
	}
}

// String renders the cache settings for startup logs.
func (c *Cache) String() string {
	if c == nil {
		return "cache(disabled)"
	}
	return fmt.Sprintf("cache(ttl=%s)", c.ttl)
}
