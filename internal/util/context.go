package util

import (
	"context"

	"github.com/gin-gonic/gin"
)

type contextKey string

const (
	ipContextKey    contextKey = "client_ip"
	actorContextKey contextKey = "actor_email"
)

// IPMiddleware extracts client IP and stores it in the context
func IPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Gin's ClientIP() handles X-Forwarded-For and other headers
		c.Request = c.Request.WithContext(SetIPContext(c.Request.Context(), c.ClientIP()))
		c.Next()
	}
}

// SetIPContext returns a copy of ctx carrying the client IP. Empty IPs are ignored.
func SetIPContext(ctx context.Context, ip string) context.Context {
	if ip == "" {
		return ctx
	}
	return context.WithValue(ctx, ipContextKey, ip)
}

// GetIPFromContext extracts the client IP address from the context
func GetIPFromContext(ctx context.Context) string {
	if ginCtx, ok := ctx.(*gin.Context); ok {
		return ginCtx.ClientIP()
	}
	ip, _ := ctx.Value(ipContextKey).(string)
	return ip
}

// SetActorContext returns a copy of ctx carrying the acting user's email.
func SetActorContext(ctx context.Context, email string) context.Context {
	if email == "" {
		return ctx
	}
	return context.WithValue(ctx, actorContextKey, email)
}

// GetActorFromContext returns the acting user's email, or "" for anonymous requests
func GetActorFromContext(ctx context.Context) string {
	if ginCtx, ok := ctx.(*gin.Context); ok {
		ctx = ginCtx.Request.Context()
	}
	email, _ := ctx.Value(actorContextKey).(string)
	return email
}
