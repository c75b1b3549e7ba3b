package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedRouter(t *testing.T, cfg RateLimitConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	limiter, err := NewRateLimiter(cfg)
	require.NoError(t, err)
	require.NotNil(t, limiter)

	router := gin.New()
	router.Use(limiter)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return router
}

func hit(router *gin.Engine, ip, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Forwarded-For", ip)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestNewMemoryRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter, err := NewMemoryRateLimiter(5)
	require.NoError(t, err)

	router := gin.New()
	router.Use(limiter)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	for i := 0; i < 5; i++ {
		w := hit(router, "192.168.1.100", "")
		assert.Equal(t, http.StatusOK, w.Code, "Request %d should succeed", i+1)
	}

	w := hit(router, "192.168.1.100", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "Request should be rate limited")
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestRateLimiter_DifferentIPs(t *testing.T) {
	router := limitedRouter(t, RateLimitConfig{
		RequestsPerMinute: 2,
		StoreType:         RateLimitStoreMemory,
		CleanupInterval:   time.Minute,
	})

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, hit(router, "10.0.0.1", "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(router, "10.0.0.1", "").Code)

	// A different client keeps its own budget
	assert.Equal(t, http.StatusOK, hit(router, "10.0.0.2", "").Code)
}

func TestRateLimiter_SeparatePrefixes(t *testing.T) {
	login := limitedRouter(t, RateLimitConfig{RequestsPerMinute: 1, KeyPrefix: "login"})
	register := limitedRouter(t, RateLimitConfig{RequestsPerMinute: 1, KeyPrefix: "register"})

	assert.Equal(t, http.StatusOK, hit(login, "10.1.1.1", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(login, "10.1.1.1", "").Code)
	assert.Equal(t, http.StatusOK, hit(register, "10.1.1.1", "").Code)
}

func TestRateLimiter_HTMLErrorResponse(t *testing.T) {
	router := limitedRouter(t, RateLimitConfig{RequestsPerMinute: 1, StoreType: RateLimitStoreMemory})
	accept := "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

	assert.Equal(t, http.StatusOK, hit(router, "192.168.1.100", accept).Code)

	w := hit(router, "192.168.1.100", accept)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Rate Limit Exceeded")
	assert.Contains(t, w.Body.String(), "Too many requests. Please try again later.")
	assert.Contains(t, w.Body.String(), "<html")
}

func TestRateLimiter_JSONErrorResponse(t *testing.T) {
	router := limitedRouter(t, RateLimitConfig{RequestsPerMinute: 1, StoreType: RateLimitStoreMemory})

	assert.Equal(t, http.StatusOK, hit(router, "192.168.1.101", "application/json").Code)

	w := hit(router, "192.168.1.101", "application/json")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
	assert.NotContains(t, w.Body.String(), "<html")
}

func TestNewRateLimiter_InvalidConfig(t *testing.T) {
	_, err := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1, StoreType: RateLimitStoreRedis})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a redis client")

	_, err = NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1, StoreType: "memcached"})
	require.Error(t, err)
}

func redisTestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestCreateRedisClient_InvalidAddress(t *testing.T) {
	client, err := CreateRedisClient(redisTestContext(t), "invalid-host:9999", "", 0)
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

// TestRedisRateLimiter_MultiInstance simulates two pods sharing one Redis.
// Requires a Redis server on localhost:6379.
func TestRedisRateLimiter_MultiInstance(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	client, err := CreateRedisClient(redisTestContext(t), "localhost:6379", "", 0)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer client.Close()

	prefix := "test-" + time.Now().Format("150405.000000")
	cfg := RateLimitConfig{
		RequestsPerMinute: 3,
		StoreType:         RateLimitStoreRedis,
		RedisClient:       client,
		KeyPrefix:         prefix,
	}
	pod1 := limitedRouter(t, cfg)
	pod2 := limitedRouter(t, cfg)

	ip := "192.168.99.1"
	assert.Equal(t, http.StatusOK, hit(pod1, ip, "").Code)
	assert.Equal(t, http.StatusOK, hit(pod2, ip, "").Code)
	assert.Equal(t, http.StatusOK, hit(pod1, ip, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(pod2, ip, "").Code)
}
