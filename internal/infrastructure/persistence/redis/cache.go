// Package redis implements the optional response cache. When disabled
// or unreachable the application reads straight from the datastore; the
// cache only shortcuts repeated context and recommendation reads.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pedagogy-hub/reasoner/config"
)

// ErrCacheMiss is returned when a key is absent.
var ErrCacheMiss = errors.New("redis: cache miss")

// Key prefixes per cached payload kind.
const (
	PrefixContext   = "context:"
	PrefixTemplate  = "template:"
	PrefixRecommend = "recommend:"
)

// Cache is a JSON-value cache on Redis. A nil *Cache is valid and
// behaves as a permanent miss, so callers never branch on enablement.
type Cache struct {
	client      *goredis.Client
	contextTTL  time.Duration
	templateTTL time.Duration
}

// New connects to Redis and verifies it with a ping.
func New(ctx context.Context, cfg config.RedisConfig) (*Cache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return &Cache{
		client:      client,
		contextTTL:  cfg.ContextTTL,
		templateTTL: cfg.TemplateTTL,
	}, nil
}

// ContextTTL is the lifetime for student context payloads.
func (c *Cache) ContextTTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.contextTTL
}

// TemplateTTL is the lifetime for template payloads.
func (c *Cache) TemplateTTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.templateTTL
}

// Get unmarshals the cached value at key into dst.
func (c *Cache) Get(ctx context.Context, key string, dst interface{}) error {
	if c == nil {
		return ErrCacheMiss
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis: get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("redis: decode %s: %w", key, err)
	}
	return nil
}

// Set marshals value as JSON and stores it with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis: encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis: delete: %w", err)
	}
	return nil
}

// Close releases the client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
