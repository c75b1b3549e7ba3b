package bootstrap

import (
	"fmt"
	"log"

	"github.com/He-ro616/we4x-CO/internal/config"
	"github.com/He-ro616/we4x-CO/internal/middleware"
	"github.com/He-ro616/we4x-CO/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// rateLimitMiddlewares holds rate limiting middlewares for different endpoints
type rateLimitMiddlewares struct {
	login    gin.HandlerFunc
	register gin.HandlerFunc
}

// setupRateLimiting configures rate limiting middlewares based on configuration.
// redisClient is nil for the memory store.
func setupRateLimiting(
	cfg *config.Config,
	auditService *services.AuditService,
	redisClient *redis.Client,
) (rateLimitMiddlewares, error) {
	if !cfg.EnableRateLimit {
		noOp := func(c *gin.Context) { c.Next() }
		log.Println("Rate limiting disabled")
		return rateLimitMiddlewares{login: noOp, register: noOp}, nil
	}

	storeType := middleware.RateLimitStoreType(cfg.RateLimitStore)
	if storeType == middleware.RateLimitStoreRedis {
		log.Printf("Rate limiting enabled (store: redis)")
	} else {
		log.Printf("Rate limiting enabled (store: memory, single instance only)")
	}

	createLimiter := func(requestsPerMinute int, endpoint string) (gin.HandlerFunc, error) {
		limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMinute: requestsPerMinute,
			StoreType:         storeType,
			RedisClient:       redisClient,
			KeyPrefix:         "we4x:ratelimit:" + endpoint + ":",
			AuditService:      auditService,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limiter for %s: %w", endpoint, err)
		}
		return limiter, nil
	}

	login, err := createLimiter(cfg.LoginRateLimit, "login")
	if err != nil {
		return rateLimitMiddlewares{}, err
	}
	register, err := createLimiter(cfg.RegisterRateLimit, "register")
	if err != nil {
		return rateLimitMiddlewares{}, err
	}
	return rateLimitMiddlewares{login: login, register: register}, nil
}
