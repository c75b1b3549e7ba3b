package metrics

import (
	"context"
	"time"

	"github.com/He-ro616/we4x-CO/internal/core"
)

// CacheWrapper provides a read-through cache for gauge counts so that several
// instances refreshing gauges do not all hit the database.
type CacheWrapper struct {
	store core.MetricsStore
	cache core.Cache[int64]
}

// NewCacheWrapper creates a new cache wrapper for metrics.
func NewCacheWrapper(store core.MetricsStore, cache core.Cache[int64]) *CacheWrapper {
	return &CacheWrapper{
		store: store,
		cache: cache,
	}
}

// GetUsersCount returns the number of registered users
func (m *CacheWrapper) GetUsersCount(ctx context.Context, ttl time.Duration) (int64, error) {
	return m.cache.GetWithFetch(ctx, "users:total", ttl,
		func(ctx context.Context, _ string) (int64, error) {
			return m.store.CountUsers(ctx)
		},
	)
}

// GetEventsCount returns the number of events
func (m *CacheWrapper) GetEventsCount(ctx context.Context, ttl time.Duration) (int64, error) {
	return m.cache.GetWithFetch(ctx, "events:total", ttl,
		func(ctx context.Context, _ string) (int64, error) {
			return m.store.CountEvents(ctx)
		},
	)
}
