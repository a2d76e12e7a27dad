// Package cache is a thin JSON-over-Redis cache. A nil *Redis is a valid,
// always-missing cache so callers never branch on whether Redis is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/stockroom/pkg/logger"
)

// Redis stores JSON-encoded values under a key prefix.
type Redis struct {
	client *redis.Client
	prefix string
}

// Connect creates a client for addr and verifies it with a ping.
// Returns an error so the caller can decide to run without a cache.
func Connect(ctx context.Context, addr, password, prefix string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return New(client, prefix), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Key returns the namespaced key for k.
func (c *Redis) Key(k string) string {
	if c == nil {
		return k
	}
	return c.prefix + k
}

// Get unmarshals the value at key into dest and reports a hit.
// Redis errors other than a miss are logged and treated as a miss.
func (c *Redis) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}

	val, err := c.client.Get(ctx, c.Key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WithCtx(ctx).Warn("cache: get failed", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(val, dest); err != nil {
		logger.WithCtx(ctx).Warn("cache: corrupt entry", "key", key, "error", err)
		return false
	}
	return true
}

// Set stores value under key for ttl.
func (c *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return c.client.Set(ctx, c.Key(key), data, ttl).Err()
}

// Del removes keys.
func (c *Redis) Del(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.Key(k)
	}
	return c.client.Del(ctx, full...).Err()
}

// Ping reports whether Redis answers.
func (c *Redis) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Redis) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
