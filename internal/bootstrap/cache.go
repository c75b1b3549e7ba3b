package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/He-ro616/we4x-CO/internal/cache"
	"github.com/He-ro616/we4x-CO/internal/config"
	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/metrics"
	"github.com/He-ro616/we4x-CO/internal/models"
)

const (
	userCachePrefix    = "we4x:users:"
	metricsCachePrefix = "we4x:metrics:"
)

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) metrics.Recorder {
	recorder := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("Prometheus metrics initialized")
	} else {
		log.Println("Metrics disabled (using noop implementation)")
	}
	return recorder
}

// newCache builds a cache of the configured type. name only feeds the log line.
func newCache[T any](
	ctx context.Context,
	cfg *config.Config,
	name, cacheType, keyPrefix string,
) (core.Cache[T], error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.CacheInitTimeout)
	defer cancel()

	switch cacheType {
	case config.UserCacheTypeRedisAside:
		c, err := cache.NewRueidisAsideCache[T](
			ctx,
			cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			keyPrefix,
			cfg.UserCacheClientTTL,
			cfg.UserCacheSizePerConn,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis-aside %s: %w", name, err)
		}
		log.Printf(
			"%s: redis-aside (addr=%s, db=%d, client_ttl=%s, cache_size_per_conn=%dMB)",
			name,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.UserCacheClientTTL,
			cfg.UserCacheSizePerConn,
		)
		return c, nil

	case config.UserCacheTypeRedis:
		c, err := cache.NewRueidisCache[T](
			ctx,
			cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			keyPrefix,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis %s: %w", name, err)
		}
		log.Printf("%s: redis (addr=%s, db=%d)", name, cfg.RedisAddr, cfg.RedisDB)
		return c, nil

	default: // memory
		log.Printf("%s: memory (single instance only)", name)
		return cache.NewMemoryCache[T](), nil
	}
}

// initializeMetricsCache returns a nil cache when gauges are not refreshed.
func initializeMetricsCache(
	ctx context.Context,
	cfg *config.Config,
) (core.Cache[int64], func() error, error) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled {
		return nil, nil, nil
	}
	c, err := newCache[int64](ctx, cfg, "metrics cache", cfg.MetricsCacheType, metricsCachePrefix)
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}

// initializeUserCache initializes the user cache (always enabled, defaults to memory)
func initializeUserCache(
	ctx context.Context,
	cfg *config.Config,
) (core.Cache[models.User], func() error, error) {
	c, err := newCache[models.User](ctx, cfg, "user cache", cfg.UserCacheType, userCachePrefix)
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}
