package bootstrap

import (
	"context"
	"embed"
	"fmt"
	"net/http"

	"github.com/He-ro616/we4x-CO/internal/config"
	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/metrics"
	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/services"
	"github.com/He-ro616/we4x-CO/internal/store"
	"github.com/He-ro616/we4x-CO/internal/upload"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Application holds all initialized components
type Application struct {
	Config      *config.Config
	TemplatesFS embed.FS

	// Infrastructure
	DB                   *store.Store
	MetricsRecorder      metrics.Recorder
	MetricsCache         core.Cache[int64]
	MetricsCacheCloser   func() error
	UserCache            core.Cache[models.User]
	UserCacheCloser      func() error
	RateLimitRedisClient *redis.Client
	Storage              *upload.LocalStorage

	// Services
	AuditService     *services.AuditService
	UserService      *services.UserService
	EventService     *services.EventService
	CommunityService *services.CommunityService
	SiteService      *services.SiteConfigService

	// HTTP
	IdentityProviders []core.IdentityProvider
	HandlerSet        handlerSet
	Router            *gin.Engine
	Server            *http.Server
}

// Run initializes and starts the application
func Run(cfg *config.Config, templatesFS embed.FS) error {
	app := &Application{
		Config:      cfg,
		TemplatesFS: templatesFS,
	}

	// Phase 1: Validate configuration
	if err := validateAllConfiguration(cfg); err != nil {
		return err
	}

	ctx := context.Background()

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(ctx); err != nil {
		return err
	}

	// Phase 3: Initialize business layer
	app.initializeBusinessLayer()

	// Phase 4: Initialize HTTP layer
	if err := app.initializeHTTPLayer(); err != nil {
		return err
	}

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up database, metrics, caches, uploads and Redis
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	app.DB, err = initializeDatabase(ctx, app.Config)
	if err != nil {
		return err
	}

	app.MetricsRecorder = initializeMetrics(app.Config)
	app.MetricsCache, app.MetricsCacheCloser, err = initializeMetricsCache(ctx, app.Config)
	if err != nil {
		return err
	}

	app.UserCache, app.UserCacheCloser, err = initializeUserCache(ctx, app.Config)
	if err != nil {
		return err
	}

	app.Storage, err = initializeStorage(app.Config)
	if err != nil {
		return err
	}

	// Redis (for rate limiting)
	app.RateLimitRedisClient, err = initializeRateLimitRedisClient(ctx, app.Config)
	if err != nil {
		return err
	}

	return nil
}

// initializeBusinessLayer sets up services
func (app *Application) initializeBusinessLayer() {
	// Audit service (required by other services)
	app.AuditService = services.NewAuditService(
		app.DB,
		app.Config.EnableAuditLogging,
		app.Config.AuditLogBufferSize,
	)

	app.UserService,
		app.EventService,
		app.CommunityService,
		app.SiteService = initializeServices(
		app.Config,
		app.DB,
		app.AuditService,
		app.MetricsRecorder,
		app.UserCache,
		app.Storage,
	)
}

// initializeHTTPLayer sets up identity providers, handlers, router, and server
func (app *Application) initializeHTTPLayer() error {
	var err error
	app.IdentityProviders, err = initializeIdentityProviders(app.Config)
	if err != nil {
		return err
	}

	app.HandlerSet = initializeHandlers(
		app.Config,
		app.UserService,
		app.EventService,
		app.CommunityService,
		app.SiteService,
		app.AuditService,
		app.Storage,
		app.IdentityProviders,
	)

	app.Router, err = setupRouter(
		app.Config,
		app.DB,
		app.HandlerSet,
		app.MetricsRecorder,
		app.AuditService,
		app.RateLimitRedisClient,
		app.TemplatesFS,
	)
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	app.Server = createHTTPServer(app.Config, app.Router)
	return nil
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Server, app.Config.ServerShutdownTimeout)
	addRedisClientShutdownJob(m, app.RateLimitRedisClient)
	addAuditServiceShutdownJob(m, app.AuditService, app.Config.AuditShutdownTimeout)
	addAuditLogCleanupJob(m, app.Config, app.AuditService)
	addMetricsGaugeUpdateJob(m, app.Config, app.DB, app.MetricsRecorder, app.MetricsCache)
	addCacheCleanupJob(m, "metrics cache", app.MetricsCacheCloser)
	addCacheCleanupJob(m, "user cache", app.UserCacheCloser)
	addDatabaseCloseJob(m, app.DB)

	<-m.Done()
}
