package util

import (
	"net/url"
	"strings"
)

// IsRedirectSafe reports whether redirecting to target keeps the visitor on
// this site: a local path, or an http(s) URL on baseURL's host. Empty is safe.
func IsRedirectSafe(target, baseURL string) bool {
	switch {
	case target == "":
		return true
	case strings.ContainsFunc(target, isUnsafeRedirectRune):
		return false
	case strings.HasPrefix(target, "//"):
		return false
	case strings.HasPrefix(target, "/"):
		return true
	}

	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Opaque != "" {
		return false
	}
	if u.Host == "" {
		return u.Scheme == ""
	}
	base, err := url.Parse(baseURL)
	return err == nil && u.Host == base.Host
}

// Browsers drop tabs and newlines from URLs and treat backslash as slash, so
// "/\t/evil.com" would become "//evil.com".
func isUnsafeRedirectRune(r rune) bool {
	return r <= ' ' || r == 0x7f || r == '\\'
}

// SafeRedirect returns target when it is safe for baseURL, otherwise fallback.
func SafeRedirect(target, fallback, baseURL string) string {
	if target == "" || !IsRedirectSafe(target, baseURL) {
		return fallback
	}
	return target
}
