package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilamfg/exhibit-backend/pkg/redis"
)

type fakeStore struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
		delete(f.ttls, key)
	}
	return nil
}

func (f *fakeStore) CacheKey(path string) string {
	return "exhibit:cache:" + path
}

func TestCacheRoundTrip(t *testing.T) {
	store := newFakeStore()
	c := &redisCache{store: store, ttl: 5 * time.Minute}
	ctx := context.Background()

	_, found, err := c.Get(ctx, "/api/products")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Put(ctx, "/api/products", `{"success":true}`))
	assert.Equal(t, 5*time.Minute, store.ttls["exhibit:cache:/api/products"])

	value, found, err := c.Get(ctx, "/api/products")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"success":true}`, value)

	require.NoError(t, c.Invalidate(ctx, "/api/products"))
	_, found, err = c.Get(ctx, "/api/products")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNewValidatesInputs(t *testing.T) {
	_, err := New(nil, time.Minute)
	assert.Error(t, err)
}
