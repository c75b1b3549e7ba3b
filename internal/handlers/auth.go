package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/middleware"
	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/services"
	"github.com/He-ro616/we4x-CO/internal/templates"
	"github.com/He-ro616/we4x-CO/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const dashboardPath = "/auth/dashboard"

type AuthHandler struct {
	userService *services.UserService
	providers   []core.IdentityProvider
	baseURL     string
}

func NewAuthHandler(
	us *services.UserService,
	providers []core.IdentityProvider,
	baseURL string,
) *AuthHandler {
	return &AuthHandler{
		userService: us,
		providers:   providers,
		baseURL:     baseURL,
	}
}

func (h *AuthHandler) providerOptions() []templates.OAuthProvider {
	out := make([]templates.OAuthProvider, 0, len(h.providers))
	for _, p := range h.providers {
		out = append(out, templates.OAuthProvider{Name: p.Name(), DisplayName: p.DisplayName()})
	}
	return out
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, dashboardPath)
		return
	}

	templates.RenderTempl(c, http.StatusOK, templates.LoginPage(templates.LoginPageProps{
		BaseProps:      baseProps(c),
		Next:           util.SafeRedirect(c.Query("next"), "", h.baseURL),
		OAuthProviders: h.providerOptions(),
	}))
}

// Login handles the login form submission
func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	next := util.SafeRedirect(c.PostForm("next"), "", h.baseURL)

	user, err := h.userService.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, services.ErrInvalidCredentials) {
			status = http.StatusInternalServerError
		}
		templates.RenderTempl(c, status, templates.LoginPage(templates.LoginPageProps{
			BaseProps:      baseProps(c),
			Error:          userMessage(err),
			Email:          email,
			Next:           next,
			OAuthProviders: h.providerOptions(),
		}))
		return
	}

	if err := startSession(c, user); err != nil {
		renderError(c, http.StatusInternalServerError, "Server error", "Failed to create session.")
		return
	}
	flashRedirect(c, templates.FlashSuccess, "Welcome back, "+user.DisplayName()+"!",
		util.SafeRedirect(next, dashboardPath, h.baseURL))
}

// Logout clears the session. Repeating it is harmless.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.userService.Logout(c.Request.Context(), middleware.CurrentUser(c))

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Printf("[Auth] Failed to clear session: %v", err)
	}
	flashRedirect(c, templates.FlashInfo, "You have been signed out.", "/")
}

// PasswordPage renders the password change form.
func (h *AuthHandler) PasswordPage(c *gin.Context) {
	templates.RenderTempl(c, http.StatusOK, templates.PasswordPage(templates.PasswordPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navProps(c, "dashboard"),
	}))
}

// UpdatePassword verifies the current password and stores the new one.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	err := h.userService.ChangePassword(
		c.Request.Context(),
		middleware.CurrentUser(c),
		c.PostForm("current_password"),
		c.PostForm("new_password"),
		c.PostForm("confirm_password"),
	)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			flashRedirect(c, templates.FlashError, "Current password is incorrect.", "/auth/team/password")
			return
		}
		failRedirect(c, err, "/auth/team/password")
		return
	}
	flashRedirect(c, templates.FlashSuccess, "Password updated.", dashboardPath)
}

// startSession binds user to the session cookie.
func startSession(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(middleware.SessionUserID, user.ID)
	if err := session.Save(); err != nil {
		log.Printf("[Auth] Failed to save session for %s: %v", user.Email, err)
		return err
	}
	return nil
}
