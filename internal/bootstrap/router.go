package bootstrap

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/He-ro616/we4x-CO/internal/config"
	"github.com/He-ro616/we4x-CO/internal/metrics"
	"github.com/He-ro616/we4x-CO/internal/middleware"
	"github.com/He-ro616/we4x-CO/internal/policy"
	"github.com/He-ro616/we4x-CO/internal/services"
	"github.com/He-ro616/we4x-CO/internal/store"
	"github.com/He-ro616/we4x-CO/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const sessionName = "we4x_session"

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	db *store.Store,
	h handlerSet,
	recorder metrics.Recorder,
	auditService *services.AuditService,
	rateLimitRedisClient *redis.Client,
	templatesFS embed.FS,
) (*gin.Engine, error) {
	setupGinMode(cfg)
	r := gin.New()

	r.Use(metrics.HTTPMetricsMiddleware(recorder))
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(util.IPMiddleware())

	if err := serveStaticFiles(r, cfg, templatesFS); err != nil {
		return nil, err
	}

	r.GET("/health", createHealthCheckHandler(db))
	setupMetricsEndpoint(r, cfg)

	rateLimiters, err := setupRateLimiting(cfg, auditService, rateLimitRedisClient)
	if err != nil {
		return nil, err
	}

	// Everything below renders pages and needs the session.
	pages := r.Group("")
	pages.Use(sessionMiddleware(cfg))
	pages.Use(middleware.LoadUser(h.userService))
	pages.Use(middleware.CSRFMiddleware())
	setupAllRoutes(pages, h, rateLimiters)

	logServerStartup(cfg)
	return r, nil
}

// sessionMiddleware configures the signed cookie session
func sessionMiddleware(cfg *config.Config) gin.HandlerFunc {
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(sessionName, sessionStore)
}

// serveStaticFiles serves embedded assets and the upload folder
func serveStaticFiles(r *gin.Engine, cfg *config.Config, templatesFS embed.FS) error {
	staticSubFS, err := fs.Sub(templatesFS, "internal/templates/static")
	if err != nil {
		return fmt.Errorf("failed to create static sub filesystem: %w", err)
	}
	r.StaticFS("/static", http.FS(staticSubFS))
	r.Static(uploadsPath, cfg.UploadFolder)
	return nil
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		log.Printf("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Printf("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Printf("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupAllRoutes configures all page routes
func setupAllRoutes(r *gin.RouterGroup, h handlerSet, rateLimiters rateLimitMiddlewares) {
	r.GET("/", h.site.Index)

	authGroup := r.Group("/auth")
	{
		authGroup.GET("/login", h.auth.LoginPage)
		authGroup.POST("/login", rateLimiters.login, h.auth.Login)
		authGroup.GET("/logout", h.auth.Logout)
		authGroup.GET("/login/:provider", h.oauth.LoginWithProvider)
		authGroup.GET("/login/:provider/authorize", h.oauth.OAuthCallback)
	}

	signedIn := authGroup.Group("", middleware.RequireAuth())
	{
		signedIn.GET("/dashboard", h.dashboard.Dashboard)
		signedIn.GET("/dashboard/public", h.dashboard.PublicDashboard)
		signedIn.GET("/team/password", h.auth.PasswordPage)
		signedIn.POST("/password/update", h.auth.UpdatePassword)
		signedIn.POST("/post/create", h.community.CreatePost)
		signedIn.POST("/post/:id/comment", h.community.Comment)
		signedIn.POST("/post/:id/delete", h.community.DeletePost)
	}
	authGroup.GET("/dashboard/team",
		middleware.RequirePermission(policy.ViewTeamDashboard), h.dashboard.TeamDashboard)
	authGroup.GET("/dashboard/admin",
		middleware.RequirePermission(policy.ViewAdminDashboard), h.dashboard.AdminDashboard)

	manageTeam := authGroup.Group("", middleware.RequirePermission(policy.ManageTeam))
	{
		manageTeam.GET("/admin/team", h.team.TeamPage)
		manageTeam.POST("/team/add", h.team.AddMember)
		manageTeam.POST("/team/remove/:id", h.team.RemoveMember)
	}
	authGroup.POST("/admin/users/:id/delete",
		middleware.RequirePermission(policy.ManageUsers), h.team.DeleteUser)

	events := r.Group("/events")
	{
		events.GET("/event/:id", h.event.View)
		events.POST("/register/:id", rateLimiters.register, h.event.Register)
		events.GET("/create_event", middleware.RequirePermission(policy.CreateEvent), h.event.CreatePage)
		events.POST("/create_event", middleware.RequirePermission(policy.CreateEvent), h.event.Create)
		events.POST("/event/:id/attend", middleware.RequireAuth(), h.event.Attend)
		events.POST("/event/:id/delete", middleware.RequirePermission(policy.DeleteEvent), h.event.Delete)
	}

	community := r.Group("/community")
	{
		community.GET("/posts", h.community.ListPosts)
		community.GET("/posts/:id", h.community.ViewPost)
	}

	profile := r.Group("/profile")
	{
		profile.GET("/setup", middleware.RequireAuth(), h.profile.SetupPage)
		profile.POST("/setup", middleware.RequireAuth(), h.profile.Setup)
		profile.GET("/:id", h.profile.ViewProfile)
	}

	admin := r.Group("/admin", middleware.RequirePermission(policy.ManageSite))
	{
		admin.GET("/settings", h.site.SettingsPage)
		admin.POST("/settings", h.site.UpdateSettings)
		admin.POST("/settings/video", h.site.UpdateVideo)
	}
}

// createHealthCheckHandler reports whether the database answers a ping
func createHealthCheckHandler(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "connected",
		})
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	mode := ginModeMap[cfg.IsProduction]
	gin.SetMode(mode)
	log.Printf("Gin mode: %s", ginModeLogMessage[cfg.IsProduction])
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

var ginModeLogMessage = map[bool]string{
	true:  "Release (production)",
	false: "Debug (development)",
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config) {
	log.Printf("we4x server starting on %s", cfg.ServerAddr)
	log.Printf("Login URL: %s/auth/login", cfg.BaseURL)
	if cfg.InitialAdminEmail != "" {
		log.Printf("Initial admin: %s", cfg.InitialAdminEmail)
	} else {
		log.Printf("No INITIAL_ADMIN_EMAIL set (use the create-admin command)")
	}
}
