package settings

import (
	"context"
	"io"
	"testing"
	"time"

	pkgerrors "github.com/avilamfg/exhibit-backend/pkg/errors"
	"github.com/avilamfg/exhibit-backend/pkg/logger"
	redisclient "github.com/avilamfg/exhibit-backend/pkg/redis"
)

type fakeSettingsStore struct {
	values map[string]string
	gets   int
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{values: map[string]string{}}
}

func (f *fakeSettingsStore) Get(ctx context.Context, key string) (string, error) {
	f.gets++
	value, ok := f.values[key]
	if !ok {
		return "", redisclient.Nil
	}
	return value, nil
}

func (f *fakeSettingsStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeSettingsStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeSettingsStore) SettingsKey(name string) string {
	return "exhibit:settings:" + name
}

type fakeCache struct {
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (f *fakeCache) Get(ctx context.Context, path string) (string, bool, error) {
	value, ok := f.values[path]
	return value, ok, nil
}

func (f *fakeCache) Put(ctx context.Context, path, value string) error {
	f.values[path] = value
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, path string) error {
	delete(f.values, path)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "settings-test", Output: io.Discard})
}

func newTestService(t *testing.T, store *fakeSettingsStore, cache *fakeCache) Service {
	t.Helper()
	svc, err := NewService(store, cache, testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestSetAndGet(t *testing.T) {
	t.Parallel()

	store := newFakeSettingsStore()
	cache := newFakeCache()
	svc := newTestService(t, store, cache)
	ctx := context.Background()

	if err := svc.Set(ctx, "hero_title", "Precision parts, delivered"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, err := svc.Get(ctx, "hero_title")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != "Precision parts, delivered" {
		t.Fatalf("unexpected value %q", value)
	}
}

func TestGetServesFromCache(t *testing.T) {
	t.Parallel()

	store := newFakeSettingsStore()
	cache := newFakeCache()
	svc := newTestService(t, store, cache)
	ctx := context.Background()

	if err := svc.Set(ctx, "contact_email", "sales@avilamfg.com"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	storeGets := store.gets

	for i := 0; i < 3; i++ {
		if _, err := svc.Get(ctx, "contact_email"); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if store.gets != storeGets {
		t.Fatalf("expected cached reads to skip the store, saw %d extra gets", store.gets-storeGets)
	}
}

func TestGetMissingKey(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeSettingsStore(), newFakeCache())

	_, err := svc.Get(context.Background(), "nope")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestInvalidKeyRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeSettingsStore(), newFakeCache())

	for _, key := range []string{"", "UPPER", "has space", "-leading", "way@bad"} {
		_, err := svc.Get(context.Background(), key)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("key %q: expected validation error, got %v", key, err)
		}
	}
}

func TestDeleteDropsCachedCopy(t *testing.T) {
	t.Parallel()

	store := newFakeSettingsStore()
	cache := newFakeCache()
	svc := newTestService(t, store, cache)
	ctx := context.Background()

	if err := svc.Set(ctx, "banner", "Closed for holidays"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := svc.Delete(ctx, "banner"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err := svc.Get(ctx, "banner")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	// Idempotent.
	if err := svc.Delete(ctx, "banner"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}
