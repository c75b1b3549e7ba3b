package handlers

import (
	"log"
	"net/http"

	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/services"
	"github.com/He-ro616/we4x-CO/internal/templates"
	"github.com/He-ro616/we4x-CO/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionOAuthState    = "oauth_state"
	sessionOAuthProvider = "oauth_provider"
	sessionOAuthNext     = "oauth_next"
)

// OAuthHandler handles OAuth authentication
type OAuthHandler struct {
	providers   map[string]core.IdentityProvider
	userService *services.UserService
	baseURL     string
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(
	providers []core.IdentityProvider,
	userService *services.UserService,
	baseURL string,
) *OAuthHandler {
	byName := make(map[string]core.IdentityProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &OAuthHandler{
		providers:   byName,
		userService: userService,
		baseURL:     baseURL,
	}
}

// LoginWithProvider redirects user to OAuth provider
func (h *OAuthHandler) LoginWithProvider(c *gin.Context) {
	provider, exists := h.providers[c.Param("provider")]
	if !exists {
		renderError(c, http.StatusBadRequest, "Unsupported sign-in provider",
			"The requested provider is not configured.")
		return
	}

	authURL, state, err := h.userService.BeginOAuthLogin(provider)
	if err != nil {
		log.Printf("[OAuth] Failed to start %s login: %v", provider.Name(), err)
		renderError(c, http.StatusInternalServerError, "Server error", "Failed to start sign-in.")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionOAuthState, state)
	session.Set(sessionOAuthProvider, provider.Name())
	if next := util.SafeRedirect(c.Query("next"), "", h.baseURL); next != "" {
		session.Set(sessionOAuthNext, next)
	}
	if err := session.Save(); err != nil {
		log.Printf("[OAuth] Failed to save session: %v", err)
		renderError(c, http.StatusInternalServerError, "Server error", "Failed to save session.")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// OAuthCallback completes the login the provider redirected back from. The
// stored state is consumed whatever the outcome.
func (h *OAuthHandler) OAuthCallback(c *gin.Context) {
	provider, exists := h.providers[c.Param("provider")]
	if !exists {
		renderError(c, http.StatusBadRequest, "Unsupported sign-in provider",
			"The requested provider is not configured.")
		return
	}

	session := sessions.Default(c)
	expectedState, _ := session.Get(sessionOAuthState).(string)
	savedProvider, _ := session.Get(sessionOAuthProvider).(string)
	next, _ := session.Get(sessionOAuthNext).(string)
	session.Delete(sessionOAuthState)
	session.Delete(sessionOAuthProvider)
	session.Delete(sessionOAuthNext)
	if savedProvider != provider.Name() {
		expectedState = ""
	}

	if errParam := c.Query("error"); errParam != "" {
		log.Printf("[OAuth] %s returned error: %s", provider.Name(), errParam)
		failRedirect(c, services.ErrOAuthProviderError, "/auth/login")
		return
	}

	user, created, err := h.userService.CompleteOAuthLogin(
		c.Request.Context(),
		provider,
		expectedState,
		c.Query("state"),
		c.Query("code"),
	)
	if err != nil {
		failRedirect(c, err, "/auth/login")
		return
	}

	if err := startSession(c, user); err != nil {
		renderError(c, http.StatusInternalServerError, "Server error", "Failed to create session.")
		return
	}

	if created {
		flashRedirect(c, templates.FlashSuccess, "Welcome! Tell us a little about yourself.", "/profile/setup")
		return
	}
	flashRedirect(c, templates.FlashSuccess, "Welcome back, "+user.DisplayName()+"!",
		util.SafeRedirect(next, dashboardPath, h.baseURL))
}
