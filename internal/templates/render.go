package templates

import (
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

// RenderTempl writes component as the HTML response. A render failure after
// the status line is sent can only be logged.
func RenderTempl(c *gin.Context, status int, component templ.Component) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")

	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		log.Printf("[Templates] Failed to render %s: %v", c.Request.URL.Path, err)
		_ = c.AbortWithError(http.StatusInternalServerError, err)
	}
}
