package metrics

import (
	"sync"

	"github.com/He-ro616/we4x-CO/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is re-exported so callers need not import core.
type Recorder = core.Recorder

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Authentication Metrics
	AuthLoginTotal          *prometheus.CounterVec
	AuthLogoutTotal         prometheus.Counter
	AuthOAuthCallbackTotal  *prometheus.CounterVec
	AuthExternalAPIDuration *prometheus.HistogramVec
	AuthorizationDenied     *prometheus.CounterVec

	// Domain Metrics
	EventsCreatedTotal   prometheus.Counter
	RegistrationsTotal   *prometheus.CounterVec
	PostsCreatedTotal    prometheus.Counter
	CommentsCreatedTotal prometheus.Counter
	UsersTotal           prometheus.Gauge
	EventsTotal          prometheus.Gauge

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database Query Metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag.
// Disabled metrics use NoopMetrics; Prometheus collectors are registered once.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// GetMetrics returns the Prometheus recorder, nil before Init(true)
func GetMetrics() *Metrics {
	return defaultMetrics
}

func initMetrics() *Metrics {
	return &Metrics{
		AuthLoginTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "we4x_auth_login_total",
				Help: "Total number of login attempts",
			},
			[]string{"method", "result"}, // method: password, google, github
		),
		AuthLogoutTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "we4x_auth_logout_total",
				Help: "Total number of logouts",
			},
		),
		AuthOAuthCallbackTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "we4x_auth_oauth_callback_total",
				Help: "Total number of OAuth callbacks by outcome",
			},
			[]string{"provider", "result"},
		),
		AuthExternalAPIDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "we4x_auth_external_api_duration_seconds",
				Help:    "Latency of identity provider calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		AuthorizationDenied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "we4x_authorization_denied_total",
				Help: "Total number of requests rejected by the access policy",
			},
			[]string{"action"},
		),
		EventsCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "we4x_events_created_total",
				Help: "Total number of events created",
			},
		),
		RegistrationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "we4x_event_registrations_total",
				Help: "Total number of public event registrations by outcome",
			},
			[]string{"result"}, // success, duplicate, full, error
		),
		PostsCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "we4x_posts_created_total",
				Help: "Total number of community posts created",
			},
		),
		CommentsCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "we4x_comments_created_total",
				Help: "Total number of comments created",
			},
		),
		UsersTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "we4x_users",
				Help: "Current number of registered users",
			},
		),
		EventsTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "we4x_events",
				Help: "Current number of events",
			},
		),
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
		),
		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "we4x_database_query_errors_total",
				Help: "Total number of failed gauge queries",
			},
			[]string{"operation"},
		),
	}
}
