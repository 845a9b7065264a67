// Package settings stores small site-wide key/value settings (hero copy,
// contact email, feature toggles for the frontend) in Redis, fronted by a
// bounded-TTL cache so hot reads skip the round trip.
package settings

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/avilamfg/exhibit-backend/pkg/cache"
	pkgerrors "github.com/avilamfg/exhibit-backend/pkg/errors"
	"github.com/avilamfg/exhibit-backend/pkg/logger"
	redisclient "github.com/avilamfg/exhibit-backend/pkg/redis"
)

const maxValueLen = 10000

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{0,99}$`)

// Service exposes the site settings key/value operations.
type Service interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type settingsStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SettingsKey(name string) string
}

// service implements the settings service.
type service struct {
	store settingsStore
	cache cache.Cache
	logg  *logger.Logger
}

// NewService constructs a settings service instance. The store is satisfied
// by the shared Redis client.
func NewService(store settingsStore, settingsCache cache.Cache, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("settings store required")
	}
	if settingsCache == nil {
		return nil, fmt.Errorf("settings cache required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{store: store, cache: settingsCache, logg: logg}, nil
}

// Get returns the setting value, serving from the cache when the entry is
// still fresh.
func (s *service) Get(ctx context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	if value, ok, err := s.cache.Get(ctx, cachePath(key)); err == nil && ok {
		return value, nil
	} else if err != nil {
		// A broken cache never blocks reads.
		s.logg.Warn(s.logg.WithField(ctx, "setting_key", key), "settings.cache_read_failed")
	}

	value, err := s.store.Get(ctx, s.store.SettingsKey(key))
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load setting")
	}

	if err := s.cache.Put(ctx, cachePath(key), value); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "setting_key", key), "settings.cache_write_failed")
	}
	return value, nil
}

// Set stores the setting without expiry and refreshes the cached copy.
func (s *service) Set(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if len(value) > maxValueLen {
		return pkgerrors.New(pkgerrors.CodeValidation, "setting value is too long")
	}

	if err := s.store.Set(ctx, s.store.SettingsKey(key), value, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to store setting")
	}
	if err := s.cache.Put(ctx, cachePath(key), value); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "setting_key", key), "settings.cache_write_failed")
	}

	s.logg.Info(s.logg.WithField(ctx, "setting_key", key), "settings.updated")
	return nil
}

// Delete removes the setting and drops the cached copy. Deleting a missing
// key still succeeds.
func (s *service) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := s.store.Del(ctx, s.store.SettingsKey(key)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete setting")
	}
	if err := s.cache.Invalidate(ctx, cachePath(key)); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "setting_key", key), "settings.cache_invalidate_failed")
	}
	return nil
}

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid setting key")
	}
	return nil
}

func cachePath(key string) string {
	return "settings/" + key
}
