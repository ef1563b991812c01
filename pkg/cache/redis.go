package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis, using Redis key expiry for the ttl.
// Connection failures are retried with [RetryWithBackoff].
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCache connects to the Redis server at url
// (redis://[user:password@]host:port/db) and checks that it answers.
func NewRedisCache(ctx context.Context, url, prefix string) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := NewRedisCacheFromClient(redis.NewClient(opt), prefix)
	err = RetryWithBackoff(ctx, func() error {
		return transient(c.client.Ping(ctx).Err())
	})
	if err != nil {
		c.client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return c, nil
}

// NewRedisCacheFromClient wraps an existing client. The cache takes
// ownership of the client and closes it in Close.
func NewRedisCacheFromClient(client redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// Get retrieves a value from the cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		b, err := c.client.Get(ctx, c.prefix+key).Bytes()
		if err != nil {
			return transient(err)
		}
		data = b
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value in the cache.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return RetryWithBackoff(ctx, func() error {
		return transient(c.client.Set(ctx, c.prefix+key, data, ttl).Err())
	})
}

// Delete removes a value from the cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return RetryWithBackoff(ctx, func() error {
		return transient(c.client.Del(ctx, c.prefix+key).Err())
	})
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
