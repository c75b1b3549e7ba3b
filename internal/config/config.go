package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// User cache type constants
const (
	UserCacheTypeMemory     = "memory"
	UserCacheTypeRedis      = "redis"
	UserCacheTypeRedisAside = "redis-aside"
)

// Database driver constants
const (
	DatabaseDriverSQLite   = "sqlite"
	DatabaseDriverPostgres = "postgres"
)

const defaultGoogleRedirectURL = "http://127.0.0.1:5000/auth/login/google/authorize"

type Config struct {
	// Server settings
	ServerAddr   string
	BaseURL      string
	Environment  string
	IsProduction bool

	// Session settings
	SessionSecret string
	SessionMaxAge int // seconds

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string

	// Initial administrator
	InitialAdminEmail    string
	DefaultAdminPassword string // random when empty

	// Google OAuth
	GoogleOAuthEnabled     bool
	GoogleClientID         string
	GoogleClientSecret     string
	GoogleOAuthRedirectURL string
	GoogleOAuthScopes      []string

	// GitHub OAuth
	GitHubOAuthEnabled     bool
	GitHubClientID         string
	GitHubClientSecret     string
	GitHubOAuthRedirectURL string
	GitHubOAuthScopes      []string

	// OAuth HTTP Client Settings
	OAuthTimeout            time.Duration // HTTP client timeout for OAuth requests (default: 15s)
	OAuthInsecureSkipVerify bool          // Skip TLS verification for OAuth (dev/testing only)

	// Uploads
	UploadFolder   string
	UploadMaxBytes int64

	// Metrics
	MetricsEnabled bool
	MetricsToken   string // Bearer token guarding /metrics, empty disables the check

	MetricsGaugeUpdateEnabled  bool
	MetricsGaugeUpdateInterval time.Duration
	MetricsCacheType           string // "memory", "redis" or "redis-aside"

	// Rate limiting
	EnableRateLimit   bool
	RateLimitStore    string // "memory" or "redis"
	LoginRateLimit    int    // requests per minute
	RegisterRateLimit int    // requests per minute

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// User cache
	UserCacheType        string // "memory", "redis" or "redis-aside"
	UserCacheTTL         time.Duration
	UserCacheClientTTL   time.Duration // local TTL for redis-aside
	UserCacheSizePerConn int           // MB, redis-aside only

	// Audit logging
	EnableAuditLogging bool
	AuditLogBufferSize int
	AuditLogRetention  time.Duration

	// Timeouts
	DBInitTimeout         time.Duration
	RedisConnTimeout      time.Duration
	CacheInitTimeout      time.Duration
	ServerShutdownTimeout time.Duration
	AuditShutdownTimeout  time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	driver := getEnv("DATABASE_DRIVER", DatabaseDriverSQLite)
	var dsn string
	if driver == DatabaseDriverSQLite {
		dsn = getEnv("DATABASE_DSN", getEnv("DATABASE_PATH", "we4x.db"))
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	environment := getEnv("ENVIRONMENT", "development")

	return &Config{
		ServerAddr:    getEnv("SERVER_ADDR", ":5000"),
		BaseURL:       getEnv("BASE_URL", "http://127.0.0.1:5000"),
		Environment:   environment,
		IsProduction:  environment == "production",
		SessionSecret: getEnv("SESSION_SECRET", "session-secret-change-in-production"),
		SessionMaxAge: getEnvInt("SESSION_MAX_AGE", 86400*7),

		DatabaseDriver: driver,
		DatabaseDSN:    dsn,

		InitialAdminEmail:    strings.ToLower(getEnv("INITIAL_ADMIN_EMAIL", "")),
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", ""),

		GoogleOAuthEnabled:     getEnvBool("GOOGLE_OAUTH_ENABLED", false),
		GoogleClientID:         getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:     getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleOAuthRedirectURL: getEnv("OAUTH_REDIRECT_URI", defaultGoogleRedirectURL),
		GoogleOAuthScopes: getEnvSlice(
			"GOOGLE_SCOPES",
			[]string{"openid", "email", "profile"},
		),

		GitHubOAuthEnabled:     getEnvBool("GITHUB_OAUTH_ENABLED", false),
		GitHubClientID:         getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret:     getEnv("GITHUB_CLIENT_SECRET", ""),
		GitHubOAuthRedirectURL: getEnv("GITHUB_REDIRECT_URL", ""),
		GitHubOAuthScopes:      getEnvSlice("GITHUB_SCOPES", []string{"user:email"}),

		OAuthTimeout:            getEnvDuration("OAUTH_TIMEOUT", 15*time.Second),
		OAuthInsecureSkipVerify: getEnvBool("OAUTH_INSECURE_SKIP_VERIFY", false),

		UploadFolder:   getEnv("UPLOAD_FOLDER", "static/uploads"),
		UploadMaxBytes: int64(getEnvInt("UPLOAD_MAX_BYTES", 8<<20)),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", false),
		MetricsToken:   getEnv("METRICS_TOKEN", ""),

		MetricsGaugeUpdateEnabled:  getEnvBool("METRICS_GAUGE_UPDATE_ENABLED", true),
		MetricsGaugeUpdateInterval: getEnvDuration("METRICS_GAUGE_UPDATE_INTERVAL", 5*time.Minute),
		MetricsCacheType:           getEnv("METRICS_CACHE_TYPE", UserCacheTypeMemory),

		EnableRateLimit:   getEnvBool("ENABLE_RATE_LIMIT", true),
		RateLimitStore:    getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		LoginRateLimit:    getEnvInt("LOGIN_RATE_LIMIT", 10),
		RegisterRateLimit: getEnvInt("REGISTER_RATE_LIMIT", 20),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		UserCacheType: getEnv("USER_CACHE_TYPE", UserCacheTypeMemory),
		UserCacheTTL:  getEnvDuration("USER_CACHE_TTL", 5*time.Minute),

		UserCacheClientTTL:   getEnvDuration("USER_CACHE_CLIENT_TTL", 30*time.Second),
		UserCacheSizePerConn: getEnvInt("USER_CACHE_SIZE_PER_CONN", 32),

		EnableAuditLogging: getEnvBool("ENABLE_AUDIT_LOGGING", true),
		AuditLogBufferSize: getEnvInt("AUDIT_LOG_BUFFER_SIZE", 1000),
		AuditLogRetention:  getEnvDuration("AUDIT_LOG_RETENTION", 90*24*time.Hour),

		DBInitTimeout:         getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),
		RedisConnTimeout:      getEnvDuration("REDIS_CONN_TIMEOUT", 5*time.Second),
		CacheInitTimeout:      getEnvDuration("CACHE_INIT_TIMEOUT", 5*time.Second),
		ServerShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		AuditShutdownTimeout:  getEnvDuration("AUDIT_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Validate checks enumerated settings and cross-field requirements.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DatabaseDriverSQLite, DatabaseDriverPostgres:
	default:
		return fmt.Errorf(
			"invalid DATABASE_DRIVER value: %q (must be %q or %q)",
			c.DatabaseDriver, DatabaseDriverSQLite, DatabaseDriverPostgres,
		)
	}
	if c.DatabaseDriver == DatabaseDriverPostgres && c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN is required when DATABASE_DRIVER=postgres")
	}

	if c.RateLimitStore != RateLimitStoreMemory && c.RateLimitStore != RateLimitStoreRedis {
		return fmt.Errorf(
			"invalid RATE_LIMIT_STORE value: %q (must be %q or %q)",
			c.RateLimitStore, RateLimitStoreMemory, RateLimitStoreRedis,
		)
	}

	switch c.UserCacheType {
	case UserCacheTypeMemory:
	case UserCacheTypeRedis, UserCacheTypeRedisAside:
		if c.RedisAddr == "" {
			return fmt.Errorf("USER_CACHE_TYPE=%q requires REDIS_ADDR", c.UserCacheType)
		}
	default:
		return fmt.Errorf(
			"invalid USER_CACHE_TYPE value: %q (must be %q, %q or %q)",
			c.UserCacheType, UserCacheTypeMemory, UserCacheTypeRedis, UserCacheTypeRedisAside,
		)
	}
	switch c.MetricsCacheType {
	case "", UserCacheTypeMemory, UserCacheTypeRedis, UserCacheTypeRedisAside:
	default:
		return fmt.Errorf("invalid METRICS_CACHE_TYPE value: %q", c.MetricsCacheType)
	}
	if c.UserCacheTTL <= 0 {
		return fmt.Errorf("USER_CACHE_TTL must be positive, got %s", c.UserCacheTTL)
	}

	if c.GoogleOAuthEnabled && c.GoogleOAuthRedirectURL == "" {
		return errors.New("OAUTH_REDIRECT_URI is required when GOOGLE_OAUTH_ENABLED=true")
	}

	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.UploadMaxBytes)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		if parts := splitAndTrim(value, ","); len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
