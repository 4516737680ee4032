package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"campus-library/internal/pkg/config"

	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace    = "library"
	cachePrefix     = "cache"
	rateLimitPrefix = "rate_limit"
)

// ErrCacheMiss reports a key absent from the cache.
var ErrCacheMiss = errors.New("cache miss")

// Client wraps the redis operations used by the response cache and the
// rate limiter.
type Client struct {
	raw *redis.Client
}

func New(cfg config.RedisConfig) (*Client, func(), error) {
	raw := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = raw.Close()
	}

	return &Client{raw: raw}, cleanup, nil
}

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.raw.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.raw.Set(ctx, key, value, ttl).Err()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.raw.Del(ctx, keys...).Err()
}

// DelByPrefix removes every key under the given prefix. Used for cache
// invalidation after catalog writes.
func (c *Client) DelByPrefix(ctx context.Context, prefix string) error {
	iter := c.raw.Scan(ctx, 0, prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.Del(ctx, keys...)
}

func (c *Client) incrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := c.raw.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if ttl > 0 && count == 1 {
		if err := c.raw.Expire(ctx, key, ttl).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// FixedWindowAllow applies a fixed-window rate limit keyed by scope.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, error) {
	count, err := c.incrWithTTL(ctx, c.RateLimitKey(scope), window)
	if err != nil {
		return false, err
	}
	return count <= limit, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.raw.Ping(ctx).Err()
}

func (c *Client) CacheKey(parts ...string) string {
	return buildKey(append([]string{cachePrefix}, parts...)...)
}

func (c *Client) RateLimitKey(scope string) string {
	return buildKey(rateLimitPrefix, scope)
}

func buildKey(parts ...string) string {
	clean := []string{keyNamespace}
	for _, part := range parts {
		if part == "" {
			continue
		}
		clean = append(clean, strings.TrimSpace(part))
	}
	return strings.Join(clean, ":")
}
