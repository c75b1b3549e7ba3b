package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/services"
	"github.com/He-ro616/we4x-CO/internal/templates"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterRedis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimitStoreType defines the type of rate limit store
type RateLimitStoreType string

const (
	// RateLimitStoreMemory uses in-memory storage (single instance only)
	RateLimitStoreMemory RateLimitStoreType = "memory"
	// RateLimitStoreRedis uses Redis storage (distributed, multi-pod support)
	RateLimitStoreRedis RateLimitStoreType = "redis"
)

const defaultCleanupInterval = 5 * time.Minute

// RateLimitConfig holds the configuration for rate limiting with store support
type RateLimitConfig struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration // memory store only

	StoreType   RateLimitStoreType
	RedisClient *redis.Client // required when StoreType is redis
	KeyPrefix   string        // separates limiters sharing one store

	AuditService *services.AuditService // optional
}

// CreateRedisClient connects to Redis and verifies the connection within ctx.
func CreateRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return client, nil
}

// NewRateLimiter creates a per-client-IP limiter backed by memory or Redis.
func NewRateLimiter(config RateLimitConfig) (gin.HandlerFunc, error) {
	rate := limiter.Rate{
		Period: time.Minute,
		Limit:  int64(config.RequestsPerMinute),
	}

	prefix := "ratelimit"
	if config.KeyPrefix != "" {
		prefix += ":" + config.KeyPrefix
	}
	cleanup := config.CleanupInterval
	if cleanup <= 0 {
		cleanup = defaultCleanupInterval
	}

	var store limiter.Store
	switch config.StoreType {
	case RateLimitStoreRedis:
		if config.RedisClient == nil {
			return nil, fmt.Errorf("redis rate limit store requires a redis client")
		}
		var err error
		store, err = limiterRedis.NewStoreWithOptions(config.RedisClient, limiter.StoreOptions{
			Prefix: prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
	case RateLimitStoreMemory, "":
		store = memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          prefix,
			CleanUpInterval: cleanup,
		})
	default:
		return nil, fmt.Errorf("unknown rate limit store: %q", config.StoreType)
	}

	instance := limiter.New(store, rate)
	return mgin.NewMiddleware(instance, mgin.WithLimitReachedHandler(func(c *gin.Context) {
		limitReached(c, config.AuditService)
	})), nil
}

func limitReached(c *gin.Context, auditService *services.AuditService) {
	auditService.Log(c.Request.Context(), services.AuditLogEntry{
		EventType:     models.EventRateLimitExceeded,
		Severity:      models.SeverityWarning,
		ActorIP:       c.ClientIP(),
		Action:        "Rate limit exceeded",
		Success:       false,
		UserAgent:     c.Request.UserAgent(),
		RequestPath:   c.Request.URL.Path,
		RequestMethod: c.Request.Method,
	})

	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		templates.RenderTempl(c, http.StatusTooManyRequests, templates.ErrorPage(templates.ErrorPageProps{
			Error:   "Rate Limit Exceeded",
			Message: "Too many requests. Please try again later.",
		}))
	} else {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":             "rate_limit_exceeded",
			"error_description": "Too many requests. Please try again later.",
		})
	}
	c.Abort()
}

// NewMemoryRateLimiter creates an in-memory rate limiter (single instance)
func NewMemoryRateLimiter(requestsPerMinute int) (gin.HandlerFunc, error) {
	return NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: requestsPerMinute,
		StoreType:         RateLimitStoreMemory,
	})
}
