package templates

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"
)

const displayTimeLayout = "Mon, Jan 2 2006 15:04"

// htmlWriter writes markup and keeps the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

// text writes escaped character data or attribute values.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// url writes a sanitized, escaped URL attribute value.
func (h *htmlWriter) url(s string) {
	h.text(string(templ.URL(s)))
}

func (h *htmlWriter) csrf(token string) {
	h.raw(`<input type="hidden" name="csrf_token" value="`)
	h.text(token)
	h.raw(`">`)
}

func (h *htmlWriter) input(kind, name, label, value string, required bool) {
	h.raw(`<label>`)
	h.text(label)
	h.raw(`<input type="`, kind, `" name="`, name, `" value="`)
	h.text(value)
	h.raw(`"`)
	if required {
		h.raw(` required`)
	}
	h.raw(`></label>`)
}

func (h *htmlWriter) textarea(name, label, value string, required bool) {
	h.raw(`<label>`)
	h.text(label)
	h.raw(`<textarea name="`, name, `"`)
	if required {
		h.raw(` required`)
	}
	h.raw(`>`)
	h.text(value)
	h.raw(`</textarea></label>`)
}

func (h *htmlWriter) alert(category, message string) {
	if message == "" {
		return
	}
	h.raw(`<div class="alert alert-`, category, `">`)
	h.text(message)
	h.raw(`</div>`)
}

func formatTime(t time.Time) string {
	return t.Format(displayTimeLayout)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// page wraps body in the shared layout. nav may be nil for bare pages.
func page(title string, base BaseProps, nav *NavbarProps, body func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(title)
		h.raw(` | we4x</title><link rel="stylesheet" href="/static/css/main.css"></head><body>`)
		if nav != nil {
			navbar(h, *nav)
		}
		h.raw(`<main class="container">`)
		for _, f := range base.Flashes {
			h.alert(f.Category, f.Message)
		}
		body(h)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

func navbar(h *htmlWriter, nav NavbarProps) {
	link := func(key, href, label string) {
		h.raw(`<a href="`, href, `"`)
		if nav.ActiveLink == key {
			h.raw(` class="active"`)
		}
		h.raw(`>`, label, `</a>`)
	}

	h.raw(`<nav class="navbar"><a class="brand" href="/">we4x</a>`)
	link("community", "/community/posts", "Community")
	if nav.User == nil {
		link("login", "/auth/login", "Sign in")
		h.raw(`</nav>`)
		return
	}
	link("dashboard", "/auth/dashboard", "Dashboard")
	if nav.User.IsTeamOrAdmin() {
		link("events", "/events/create_event", "New event")
	}
	if nav.User.IsAdmin() {
		link("team", "/auth/admin/team", "Team")
		link("settings", "/admin/settings", "Settings")
	}
	link("profile", "/profile/"+nav.User.ID, "Profile")
	h.raw(`<span class="whoami">`)
	h.text(nav.User.DisplayName())
	h.raw(` (`, nav.User.Role.String(), `)</span><a href="/auth/logout">Sign out</a></nav>`)
}
