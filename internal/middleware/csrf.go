package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/He-ro616/we4x-CO/internal/templates"
	"github.com/He-ro616/we4x-CO/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	csrfTokenKey    = "csrf_token"
	csrfFormField   = "csrf_token"
	csrfHeaderField = "X-CSRF-Token"
	csrfTokenBytes  = 32
)

// CSRFMiddleware binds a token to the session and requires it on every
// state-changing request, either as a form field or an X-CSRF-Token header.
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		token, _ := session.Get(csrfTokenKey).(string)
		if token == "" {
			var err error
			token, err = util.RandomState(csrfTokenBytes)
			if err == nil {
				session.Set(csrfTokenKey, token)
				err = session.Save()
			}
			if err != nil {
				log.Printf("[CSRF] Failed to issue token: %v", err)
				csrfFailure(c, http.StatusInternalServerError, "Failed to start a secure session.")
				return
			}
		}

		// Make token available to templates
		c.Set(csrfTokenKey, token)

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
			submitted := c.PostForm(csrfFormField)
			if submitted == "" {
				submitted = c.GetHeader(csrfHeaderField)
			}
			if submitted == "" || subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
				csrfFailure(c, http.StatusForbidden,
					"CSRF token validation failed. Please refresh the page and try again.")
				return
			}
		}

		c.Next()
	}
}

func csrfFailure(c *gin.Context, status int, message string) {
	templates.RenderTempl(c, status, templates.ErrorPage(templates.ErrorPageProps{
		NavbarProps: templates.NavbarProps{User: CurrentUser(c)},
		Error:       "Request rejected",
		Message:     message,
	}))
	c.Abort()
}

// GetCSRFToken retrieves the CSRF token from the context
func GetCSRFToken(c *gin.Context) string {
	if token, exists := c.Get(csrfTokenKey); exists {
		if tokenStr, ok := token.(string); ok {
			return tokenStr
		}
	}
	return ""
}
