package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/He-ro616/we4x-CO/internal/core"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/rueidisaside"
)

var _ core.Cache[struct{}] = (*RueidisAsideCache[struct{}])(nil)

// RueidisAsideCache layers rueidis client-side caching over Redis. Redis
// invalidates the local copies over RESP3 when a key changes, and concurrent
// misses for one key trigger a single fetch across all instances.
type RueidisAsideCache[T any] struct {
	client    rueidisaside.CacheAsideClient
	keyPrefix string
	clientTTL time.Duration
}

// NewRueidisAsideCache creates the cache; clientTTL bounds the local copy lifetime
// and cacheSizeMB is the client-side cache size per connection.
func NewRueidisAsideCache[T any](
	ctx context.Context,
	addr, password string,
	db int,
	keyPrefix string,
	clientTTL time.Duration,
	cacheSizeMB int,
) (*RueidisAsideCache[T], error) {
	client, err := rueidisaside.NewClient(rueidisaside.ClientOption{
		ClientOption: rueidis.ClientOption{
			InitAddress:       []string{addr},
			Password:          password,
			SelectDB:          db,
			CacheSizeEachConn: cacheSizeMB * 1024 * 1024,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rueidisaside client: %w", err)
	}

	c := &RueidisAsideCache[T]{
		client:    client,
		keyPrefix: keyPrefix,
		clientTTL: clientTTL,
	}
	if err := c.Health(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return c, nil
}

// errAsideMiss makes rueidisaside report a miss without populating the key.
var errAsideMiss = errors.New("cache aside miss")

func (r *RueidisAsideCache[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T
	val, err := r.client.Get(ctx, r.clientTTL, r.keyPrefix+key,
		func(ctx context.Context, key string) (string, error) {
			return "", errAsideMiss
		},
	)
	if err != nil {
		if errors.Is(err, errAsideMiss) {
			return zero, ErrCacheMiss
		}
		return zero, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return decode[T]([]byte(val))
}

func (r *RueidisAsideCache[T]) GetWithFetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func(ctx context.Context, key string) (T, error),
) (T, error) {
	var zero T
	val, err := r.client.Get(ctx, ttl, r.keyPrefix+key,
		func(ctx context.Context, _ string) (string, error) {
			value, err := fetchFunc(ctx, key)
			if err != nil {
				return "", err
			}
			encoded, err := json.Marshal(value)
			if err != nil {
				return "", fmt.Errorf("%w: %v", ErrInvalidValue, err)
			}
			return string(encoded), nil
		},
	)
	if err != nil {
		return zero, err
	}
	return decode[T]([]byte(val))
}

func (r *RueidisAsideCache[T]) Set(
	ctx context.Context,
	key string,
	value T,
	ttl time.Duration,
) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	c := r.client.Client()
	cmd := c.B().Set().Key(r.keyPrefix + key).Value(rueidis.BinaryString(encoded)).Ex(ttl).Build()
	if err := c.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

// Delete removes the key; Redis then invalidates client-side copies everywhere.
func (r *RueidisAsideCache[T]) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.keyPrefix+key); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (r *RueidisAsideCache[T]) Close() error {
	r.client.Close()
	return nil
}

func (r *RueidisAsideCache[T]) Health(ctx context.Context) error {
	c := r.client.Client()
	if err := c.Do(ctx, c.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}
