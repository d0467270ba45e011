package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/costwise/costwise/internal/logging"
)

// Cache is an optional Redis layer in front of the provider pricing APIs.
// Cache failures are never fatal: a broken or absent Redis degrades to
// direct lookups.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	log    *logging.Logger
}

// CacheOption configures the cache.
type CacheOption func(*Cache)

// WithTTL sets the expiration for cached prices.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix for cached prices.
func WithPrefix(prefix string) CacheOption {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// NewCache creates a price cache against the given Redis address.
func NewCache(addr, password string, db int, log *logging.Logger, opts ...CacheOption) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return newCacheFromClient(rdb, log, opts...)
}

// NewCacheFromClient creates a price cache from an existing Redis client.
func NewCacheFromClient(client *backend.Client, log *logging.Logger, opts ...CacheOption) *Cache {
	return newCacheFromClient(client, log, opts...)
}

func newCacheFromClient(client *backend.Client, log *logging.Logger, opts ...CacheOption) *Cache {
	c := &Cache{
		client: client,
		prefix: "costwise:price:",
		ttl:    6 * time.Hour,
		log:    log.Sub("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) key(provider, kind, id, region string) string {
	return fmt.Sprintf("%s%s:%s:%s:%s", c.prefix, provider, kind, id, region)
}

// getOrCompute returns the cached T for key, or computes, stores, and
// returns a fresh one. Corrupt entries are recomputed. A nil cache passes
// straight through to compute.
func getOrCompute[T any](ctx context.Context, c *Cache, key string, compute func() (T, error)) (T, error) {
	var zero T
	if c == nil {
		return compute()
	}

	if raw, err := c.client.Get(ctx, key).Result(); err == nil {
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			c.log.Debug().Str("key", key).Msg("cache hit")
			return v, nil
		}
		c.log.Warn().Str("key", key).Msg("corrupt cache entry, recomputing")
	} else if err != backend.Nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	v, err := compute()
	if err != nil {
		return zero, err
	}

	if data, err := json.Marshal(v); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return v, nil
}
