package core

import (
	"context"
	"time"
)

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Authentication
	RecordLogin(method string, success bool)
	RecordLogout()
	RecordOAuthCallback(provider, result string)
	RecordExternalAPICall(provider string, duration time.Duration)

	// Domain activity
	RecordEventCreated()
	RecordRegistration(result string)
	RecordPostCreated()
	RecordCommentCreated()
	RecordAuthorizationDenied(action string)

	// Gauge Setters (for periodic updates)
	SetUsersCount(count int)
	SetEventsCount(count int)

	// Database Operations
	RecordDatabaseQueryError(operation string)
}

// MetricsStore defines the DB operations needed by CacheWrapper.
type MetricsStore interface {
	CountUsers(ctx context.Context) (int64, error)
	CountEvents(ctx context.Context) (int64, error)
}
