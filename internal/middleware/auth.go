package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/policy"
	"github.com/He-ro616/we4x-CO/internal/services"
	"github.com/He-ro616/we4x-CO/internal/templates"
	"github.com/He-ro616/we4x-CO/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	SessionUserID = "user_id"

	contextUserKey = "user"
	loginPath      = "/auth/login"
	dashboardPath  = "/auth/dashboard"
)

// UserLoader resolves the session user id to an account.
type UserLoader interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// LoadUser attaches the signed-in user, if any, to the request. A session
// pointing at a deleted account is cleared.
func LoadUser(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, _ := session.Get(SessionUserID).(string)
		if userID == "" {
			c.Next()
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		switch {
		case err == nil:
			c.Set(contextUserKey, user)
			c.Request = c.Request.WithContext(
				util.SetActorContext(c.Request.Context(), user.Email),
			)
		case errors.Is(err, services.ErrNotFound):
			session.Delete(SessionUserID)
			if err := session.Save(); err != nil {
				log.Printf("[Auth] Failed to clear stale session: %v", err)
			}
		default:
			log.Printf("[Auth] Failed to load session user %s: %v", userID, err)
		}
		c.Next()
	}
}

// CurrentUser returns the signed-in user or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(contextUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// RequireAuth redirects anonymous visitors to the login page. LoadUser must run first.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePermission lets the request through only when the user's role allows
// action. Denied users get a notice and land on their dashboard.
func RequirePermission(action policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		if !policy.Can(user.Role, action) {
			log.Printf("[Auth] %s (%s) denied %s", user.Email, user.Role, action)
			AddFlash(c, templates.FlashError, services.ErrUnauthorized.Error())
			c.Redirect(http.StatusFound, dashboardPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginURL builds the login redirect carrying the page to return to.
func LoginURL(next string) string {
	if next == "" || next == loginPath {
		return loginPath
	}
	return loginPath + "?next=" + url.QueryEscape(next)
}
