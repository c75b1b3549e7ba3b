package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	m := Init(true)
	assert.NotNil(t, m)

	metrics, ok := m.(*Metrics)
	require.True(t, ok, "Init(true) should return *Metrics")
	assert.NotNil(t, metrics.AuthLoginTotal)
	assert.NotNil(t, metrics.RegistrationsTotal)
	assert.NotNil(t, metrics.HTTPRequestsTotal)

	// Second Init must not re-register collectors
	assert.Same(t, metrics, Init(true))
	assert.Same(t, metrics, GetMetrics())
}

func TestInitNoop(t *testing.T) {
	m := Init(false)
	_, ok := m.(*NoopMetrics)
	assert.True(t, ok, "Init(false) should return *NoopMetrics")

	assert.NotPanics(t, func() {
		m.RecordLogin("password", true)
		m.RecordOAuthCallback("google", "success")
		m.SetUsersCount(3)
	})
}

func TestRecorderCounters(t *testing.T) {
	m := Init(true).(*Metrics)

	before := testutil.ToFloat64(m.AuthLoginTotal.WithLabelValues("password", resultFailure))
	m.RecordLogin("password", false)
	after := testutil.ToFloat64(m.AuthLoginTotal.WithLabelValues("password", resultFailure))
	assert.InDelta(t, 1, after-before, 0.001)

	before = testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues("duplicate"))
	m.RecordRegistration("duplicate")
	after = testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues("duplicate"))
	assert.InDelta(t, 1, after-before, 0.001)

	m.SetUsersCount(7)
	assert.InDelta(t, 7, testutil.ToFloat64(m.UsersTotal), 0.001)

	m.RecordExternalAPICall("google", 120*time.Millisecond)
	m.RecordAuthorizationDenied("delete_event")
	assert.InDelta(t, 1, testutil.ToFloat64(m.AuthorizationDenied.WithLabelValues("delete_event")), 0.001)
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := Init(true).(*Metrics)

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(m))
	r.GET("/events/event/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := m.HTTPRequestsTotal.WithLabelValues("GET", "/events/event/:id", "200")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events/event/abc", nil))

	assert.InDelta(t, 1, testutil.ToFloat64(counter)-before, 0.001)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "unknown", normalizePath(""))
	assert.Equal(t, "/posts/:id", normalizePath("/posts/:id"))
}

func TestTracked(t *testing.T) {
	assert.True(t, tracked("/events/event/abc"))
	assert.False(t, tracked("/metrics"))
	assert.False(t, tracked("/static/css/main.css"))
	assert.False(t, tracked("/uploads/1700000000_banner.png"))
}
