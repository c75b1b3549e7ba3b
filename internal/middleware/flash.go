package middleware

import (
	"log"

	"github.com/He-ro616/we4x-CO/internal/templates"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

var flashCategories = []string{templates.FlashSuccess, templates.FlashInfo, templates.FlashError}

func flashKey(category string) string {
	return "flash_" + category
}

// AddFlash queues a notice for the next rendered page and saves the session.
func AddFlash(c *gin.Context, category, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, flashKey(category))
	if err := session.Save(); err != nil {
		log.Printf("[Session] Failed to save flash: %v", err)
	}
}

// PopFlashes returns and clears every queued notice.
func PopFlashes(c *gin.Context) []templates.Flash {
	session := sessions.Default(c)
	var out []templates.Flash
	for _, category := range flashCategories {
		for _, v := range session.Flashes(flashKey(category)) {
			if msg, ok := v.(string); ok {
				out = append(out, templates.Flash{Category: category, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		if err := session.Save(); err != nil {
			log.Printf("[Session] Failed to clear flashes: %v", err)
		}
	}
	return out
}
