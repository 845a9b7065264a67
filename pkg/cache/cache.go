package cache

import (
	"context"
	"errors"
	"time"

	"github.com/avilamfg/exhibit-backend/pkg/redis"
)

// Cache is a bounded read-through cache keyed by path. Entries always carry
// the TTL fixed at construction; there is no unbounded in-process fallback.
type Cache interface {
	Get(ctx context.Context, path string) (string, bool, error)
	Put(ctx context.Context, path string, value string) error
	Invalidate(ctx context.Context, path string) error
}

type store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(path string) string
}

type redisCache struct {
	store store
	ttl   time.Duration
}

// New returns a redis-backed cache whose entries expire after ttl.
func New(client *redis.Client, ttl time.Duration) (Cache, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if ttl <= 0 {
		return nil, errors.New("cache ttl must be positive")
	}
	return &redisCache{store: client, ttl: ttl}, nil
}

func (c *redisCache) Get(ctx context.Context, path string) (string, bool, error) {
	value, err := c.store.Get(ctx, c.store.CacheKey(path))
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (c *redisCache) Put(ctx context.Context, path string, value string) error {
	return c.store.Set(ctx, c.store.CacheKey(path), value, c.ttl)
}

func (c *redisCache) Invalidate(ctx context.Context, path string) error {
	return c.store.Del(ctx, c.store.CacheKey(path))
}
