package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// untrackedPrefixes are served as files and would only add label noise.
var untrackedPrefixes = []string{"/static/", "/uploads/"}

// HTTPMetricsMiddleware counts requests and their latency per route pattern.
// Anything other than the Prometheus recorder gets a pass-through middleware.
func HTTPMetricsMiddleware(m Recorder) gin.HandlerFunc {
	prom, ok := m.(*Metrics)
	if !ok {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if !tracked(c.Request.URL.Path) {
			c.Next()
			return
		}

		prom.HTTPRequestsInFlight.Inc()
		defer prom.HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		route := normalizePath(c.FullPath())
		prom.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Inc()
		prom.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}

func tracked(path string) bool {
	if path == "/metrics" {
		return false
	}
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// normalizePath keeps unmatched paths (404s) under a single label.
func normalizePath(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}
