package bootstrap

import (
	"github.com/He-ro616/we4x-CO/internal/config"
	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/handlers"
	"github.com/He-ro616/we4x-CO/internal/services"
)

// handlerSet holds all HTTP handlers and required services
type handlerSet struct {
	auth        *handlers.AuthHandler
	oauth       *handlers.OAuthHandler
	dashboard   *handlers.DashboardHandler
	team        *handlers.TeamHandler
	event       *handlers.EventHandler
	community   *handlers.CommunityHandler
	profile     *handlers.ProfileHandler
	site        *handlers.SiteHandler
	userService *services.UserService
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	cfg *config.Config,
	userService *services.UserService,
	eventService *services.EventService,
	communityService *services.CommunityService,
	siteService *services.SiteConfigService,
	auditService *services.AuditService,
	storage core.FileStorage,
	providers []core.IdentityProvider,
) handlerSet {
	return handlerSet{
		auth:        handlers.NewAuthHandler(userService, providers, cfg.BaseURL),
		oauth:       handlers.NewOAuthHandler(providers, userService, cfg.BaseURL),
		dashboard:   handlers.NewDashboardHandler(userService, eventService, communityService, siteService, auditService),
		team:        handlers.NewTeamHandler(userService),
		event:       handlers.NewEventHandler(eventService, storage),
		community:   handlers.NewCommunityHandler(communityService, storage),
		profile:     handlers.NewProfileHandler(userService, eventService, storage),
		site:        handlers.NewSiteHandler(siteService, eventService, storage),
		userService: userService,
	}
}
