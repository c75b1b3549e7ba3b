package bootstrap

import (
	"log"

	"github.com/He-ro616/we4x-CO/internal/auth"
	"github.com/He-ro616/we4x-CO/internal/client"
	"github.com/He-ro616/we4x-CO/internal/config"
	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/metrics"
	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/services"
	"github.com/He-ro616/we4x-CO/internal/store"
)

// initializeServices creates all business logic services
func initializeServices(
	cfg *config.Config,
	db *store.Store,
	auditService *services.AuditService,
	recorder metrics.Recorder,
	userCache core.Cache[models.User],
	storage core.FileStorage,
) (*services.UserService, *services.EventService, *services.CommunityService, *services.SiteConfigService) {
	userService := services.NewUserService(
		db,
		auth.NewLocalAuthProvider(db),
		auditService,
		recorder,
		storage,
		userCache,
		cfg.UserCacheTTL,
	)
	eventService := services.NewEventService(db, auditService, recorder, storage)
	communityService := services.NewCommunityService(db, auditService, recorder, storage)
	siteService := services.NewSiteConfigService(db, auditService, recorder, storage)

	return userService, eventService, communityService, siteService
}

// initializeIdentityProviders builds the enabled OAuth providers. A provider
// with missing credentials is skipped with a warning.
func initializeIdentityProviders(cfg *config.Config) ([]core.IdentityProvider, error) {
	if !cfg.GoogleOAuthEnabled && !cfg.GitHubOAuthEnabled {
		log.Println("OAuth providers: none configured")
		return nil, nil
	}

	httpClient, err := client.NewOAuthClient(cfg.OAuthTimeout, cfg.OAuthInsecureSkipVerify)
	if err != nil {
		return nil, err
	}
	if cfg.OAuthInsecureSkipVerify {
		log.Println("WARNING: OAuth TLS verification is disabled")
	}

	var providers []core.IdentityProvider

	if cfg.GoogleOAuthEnabled {
		if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
			log.Println("WARNING: Google OAuth enabled but GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET missing")
		} else {
			providers = append(providers, auth.NewGoogleProvider(auth.OAuthProviderConfig{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  cfg.GoogleOAuthRedirectURL,
				Scopes:       cfg.GoogleOAuthScopes,
			}, httpClient))
		}
	}

	if cfg.GitHubOAuthEnabled {
		if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" {
			log.Println("WARNING: GitHub OAuth enabled but GITHUB_CLIENT_ID/GITHUB_CLIENT_SECRET missing")
		} else {
			redirectURL := cfg.GitHubOAuthRedirectURL
			if redirectURL == "" {
				redirectURL = cfg.BaseURL + "/auth/login/" + auth.ProviderGitHub + "/authorize"
			}
			providers = append(providers, auth.NewGitHubProvider(auth.OAuthProviderConfig{
				ClientID:     cfg.GitHubClientID,
				ClientSecret: cfg.GitHubClientSecret,
				RedirectURL:  redirectURL,
				Scopes:       cfg.GitHubOAuthScopes,
			}, httpClient))
		}
	}

	for _, p := range providers {
		log.Printf("OAuth provider enabled: %s", p.DisplayName())
	}
	return providers, nil
}
