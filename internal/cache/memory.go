package cache

import (
	"context"
	"sync"
	"time"

	"github.com/He-ro616/we4x-CO/internal/core"

	"golang.org/x/sync/singleflight"
)

type cacheItem[T any] struct {
	value     T
	expiresAt time.Time
}

func (i cacheItem[T]) expired(now time.Time) bool {
	return !now.Before(i.expiresAt)
}

var _ core.Cache[struct{}] = (*MemoryCache[struct{}])(nil)

// MemoryCache is an in-process cache with lazy expiration.
// Suitable for single-instance deployments.
type MemoryCache[T any] struct {
	mu    sync.RWMutex
	items map[string]cacheItem[T]
	group singleflight.Group
}

// NewMemoryCache creates a new memory cache instance.
func NewMemoryCache[T any]() *MemoryCache[T] {
	return &MemoryCache[T]{
		items: make(map[string]cacheItem[T]),
	}
}

func (m *MemoryCache[T]) Get(ctx context.Context, key string) (T, error) {
	m.mu.RLock()
	item, exists := m.items[key]
	m.mu.RUnlock()

	if !exists || item.expired(time.Now()) {
		var zero T
		return zero, ErrCacheMiss
	}
	return item.value, nil
}

func (m *MemoryCache[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	// Opportunistically drop expired entries so the map does not grow unbounded
	for k, item := range m.items {
		if item.expired(now) {
			delete(m.items, k)
		}
	}
	m.items[key] = cacheItem[T]{value: value, expiresAt: now.Add(ttl)}
	return nil
}

func (m *MemoryCache[T]) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

// Close drops every entry.
func (m *MemoryCache[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]cacheItem[T])
	return nil
}

func (m *MemoryCache[T]) Health(ctx context.Context) error {
	return nil
}

// GetWithFetch loads a missing key once even when called concurrently.
func (m *MemoryCache[T]) GetWithFetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func(ctx context.Context, key string) (T, error),
) (T, error) {
	if value, err := m.Get(ctx, key); err == nil {
		return value, nil
	}
	v, err, _ := m.group.Do(key, func() (any, error) {
		value, err := fetchFunc(ctx, key)
		if err != nil {
			return nil, err
		}
		_ = m.Set(ctx, key, value, ttl)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
