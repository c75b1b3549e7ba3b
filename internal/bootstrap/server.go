package bootstrap

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/He-ro616/we4x-CO/internal/config"
	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/metrics"
	"github.com/He-ro616/we4x-CO/internal/services"
	"github.com/He-ro616/we4x-CO/internal/store"

	"github.com/appleboy/graceful"
	"github.com/redis/go-redis/v9"
)

const auditCleanupInterval = 24 * time.Hour

// createHTTPServer creates the HTTP server instance
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, srv *http.Server, timeout time.Duration) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return err
		}

		log.Println("Server exited")
		return nil
	})
}

// addRedisClientShutdownJob adds Redis client shutdown handler
func addRedisClientShutdownJob(m *graceful.Manager, redisClient *redis.Client) {
	if redisClient == nil {
		return
	}

	m.AddShutdownJob(func() error {
		log.Println("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
			return err
		}
		log.Println("Redis connection closed")
		return nil
	})
}

// addAuditServiceShutdownJob flushes buffered audit entries on shutdown
func addAuditServiceShutdownJob(
	m *graceful.Manager,
	auditService *services.AuditService,
	timeout time.Duration,
) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down audit service...")
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := auditService.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down audit service: %v", err)
			return err
		}
		return nil
	})
}

// addAuditLogCleanupJob adds periodic audit log cleanup job
func addAuditLogCleanupJob(
	m *graceful.Manager,
	cfg *config.Config,
	auditService *services.AuditService,
) {
	if !cfg.EnableAuditLogging || cfg.AuditLogRetention <= 0 {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(auditCleanupInterval)
		defer ticker.Stop()

		cleanupAuditLogs(ctx, auditService, cfg.AuditLogRetention)
		for {
			select {
			case <-ticker.C:
				cleanupAuditLogs(ctx, auditService, cfg.AuditLogRetention)
			case <-ctx.Done():
				return nil
			}
		}
	})
}

func cleanupAuditLogs(ctx context.Context, auditService *services.AuditService, retention time.Duration) {
	if deleted, err := auditService.CleanupOldLogs(ctx, retention); err != nil {
		log.Printf("Failed to cleanup old audit logs: %v", err)
	} else if deleted > 0 {
		log.Printf("Cleaned up %d old audit logs", deleted)
	}
}

// addMetricsGaugeUpdateJob adds periodic metrics gauge update job
func addMetricsGaugeUpdateJob(
	m *graceful.Manager,
	cfg *config.Config,
	db *store.Store,
	recorder metrics.Recorder,
	metricsCache core.Cache[int64],
) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled || metricsCache == nil {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(cfg.MetricsGaugeUpdateInterval)
		defer ticker.Stop()

		cacheWrapper := metrics.NewCacheWrapper(db, metricsCache)
		updateGaugeMetricsWithCache(ctx, cacheWrapper, recorder, cfg.MetricsGaugeUpdateInterval)

		for {
			select {
			case <-ticker.C:
				updateGaugeMetricsWithCache(ctx, cacheWrapper, recorder, cfg.MetricsGaugeUpdateInterval)
			case <-ctx.Done():
				return nil
			}
		}
	})
}

// addCacheCleanupJob closes a cache on shutdown
func addCacheCleanupJob(m *graceful.Manager, name string, closer func() error) {
	if closer == nil {
		return
	}

	m.AddShutdownJob(func() error {
		if err := closer(); err != nil {
			log.Printf("Error closing %s: %v", name, err)
		} else {
			log.Printf("%s closed", name)
		}
		return nil
	})
}

// addDatabaseCloseJob closes the connection pool on shutdown
func addDatabaseCloseJob(m *graceful.Manager, db *store.Store) {
	m.AddShutdownJob(func() error {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
			return err
		}
		log.Println("Database closed")
		return nil
	})
}

// errorLogger handles rate-limited error logging
type errorLogger struct {
	mu              sync.Mutex
	lastErrorTimes  map[string]time.Time
	rateLimitWindow time.Duration
}

func newErrorLogger() *errorLogger {
	return &errorLogger{
		lastErrorTimes:  make(map[string]time.Time),
		rateLimitWindow: 5 * time.Minute,
	}
}

// logIfNeeded logs an error at most once per window per operation.
// It reports whether the line was written.
func (e *errorLogger) logIfNeeded(operation string, err error) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	lastTime, exists := e.lastErrorTimes[operation]
	if exists && now.Sub(lastTime) < e.rateLimitWindow {
		return false
	}
	log.Printf("Database query failed for %s: %v (further errors will be suppressed for %v)",
		operation, err, e.rateLimitWindow)
	e.lastErrorTimes[operation] = now
	return true
}

var gaugeErrorLogger = newErrorLogger()

// updateGaugeMetricsWithCache refreshes gauges through the cache. The cache TTL
// matches the update interval so instances sharing Redis query the database once.
func updateGaugeMetricsWithCache(
	ctx context.Context,
	cacheWrapper *metrics.CacheWrapper,
	recorder metrics.Recorder,
	cacheTTL time.Duration,
) {
	users, err := cacheWrapper.GetUsersCount(ctx, cacheTTL)
	if err != nil {
		recorder.RecordDatabaseQueryError("count_users")
		gaugeErrorLogger.logIfNeeded("count_users", err)
	} else {
		recorder.SetUsersCount(int(users))
	}

	events, err := cacheWrapper.GetEventsCount(ctx, cacheTTL)
	if err != nil {
		recorder.RecordDatabaseQueryError("count_events")
		gaugeErrorLogger.logIfNeeded("count_events", err)
	} else {
		recorder.SetEventsCount(int(events))
	}
}
