package handlers

import (
	"net/http"
	"strconv"

	"github.com/He-ro616/we4x-CO/internal/middleware"
	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/services"
	"github.com/He-ro616/we4x-CO/internal/templates"

	"github.com/gin-gonic/gin"
)

const (
	feedPageSize       = 10
	dashboardEventsMax = 5
	recentActivityMax  = 15
)

// DashboardHandler renders the role specific landing pages.
type DashboardHandler struct {
	userService      *services.UserService
	eventService     *services.EventService
	communityService *services.CommunityService
	siteService      *services.SiteConfigService
	auditService     *services.AuditService
}

func NewDashboardHandler(
	us *services.UserService,
	es *services.EventService,
	cs *services.CommunityService,
	ss *services.SiteConfigService,
	as *services.AuditService,
) *DashboardHandler {
	return &DashboardHandler{
		userService:      us,
		eventService:     es,
		communityService: cs,
		siteService:      ss,
		auditService:     as,
	}
}

// Dashboard sends the actor to the dashboard of their role.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	c.Redirect(http.StatusFound, dashboardFor(middleware.CurrentUser(c)))
}

func dashboardFor(user *models.User) string {
	if user == nil {
		return middleware.LoginURL("")
	}
	switch user.Role {
	case models.RoleAdmin:
		return dashboardPath + "/admin"
	case models.RoleTeam:
		return dashboardPath + "/team"
	default:
		return dashboardPath + "/public"
	}
}

// AdminDashboard shows every event, the feed, the team and recent audit activity.
func (h *DashboardHandler) AdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	events, err := h.eventService.ListAll(ctx)
	if err != nil {
		renderLookupError(c, err)
		return
	}
	posts, pagination, err := h.communityService.Feed(ctx, pageParam(c), feedPageSize)
	if err != nil {
		renderLookupError(c, err)
		return
	}
	userCount, err := h.userService.CountUsers(ctx)
	if err != nil {
		renderLookupError(c, err)
		return
	}
	team, err := h.userService.ListTeam(ctx)
	if err != nil {
		renderLookupError(c, err)
		return
	}
	activity, err := h.auditService.RecentLogs(ctx, recentActivityMax)
	if err != nil {
		renderLookupError(c, err)
		return
	}

	templates.RenderTempl(c, http.StatusOK, templates.AdminDashboard(templates.AdminDashboardProps{
		BaseProps:   baseProps(c),
		NavbarProps: navProps(c, "dashboard"),
		Events:      events,
		Posts:       posts,
		Pagination:  pagination,
		UserCount:   userCount,
		Team:        team,
		Activity:    activity,
	}))
}

// TeamDashboard shows the events the actor created and the team roster.
func (h *DashboardHandler) TeamDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	events, err := h.eventService.ListCreatedBy(ctx, user.ID)
	if err != nil {
		renderLookupError(c, err)
		return
	}
	team, err := h.userService.ListTeam(ctx)
	if err != nil {
		renderLookupError(c, err)
		return
	}

	templates.RenderTempl(c, http.StatusOK, templates.TeamDashboard(templates.TeamDashboardProps{
		BaseProps:   baseProps(c),
		NavbarProps: navProps(c, "dashboard"),
		Events:      events,
		Team:        team,
	}))
}

// PublicDashboard shows the feed with comments, upcoming events and the site video.
func (h *DashboardHandler) PublicDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	posts, pagination, err := h.communityService.Feed(ctx, pageParam(c), feedPageSize)
	if err != nil {
		renderLookupError(c, err)
		return
	}
	userCount, err := h.userService.CountUsers(ctx)
	if err != nil {
		renderLookupError(c, err)
		return
	}
	events, err := h.eventService.ListUpcoming(ctx, dashboardEventsMax)
	if err != nil {
		renderLookupError(c, err)
		return
	}
	site, err := h.siteService.Get(ctx)
	if err != nil {
		renderLookupError(c, err)
		return
	}

	templates.RenderTempl(c, http.StatusOK, templates.PublicDashboard(templates.PublicDashboardProps{
		BaseProps:   baseProps(c),
		NavbarProps: navProps(c, "dashboard"),
		Posts:       posts,
		Pagination:  pagination,
		UserCount:   userCount,
		Events:      events,
		VideoURL:    site.VideoURL,
	}))
}

// pageParam reads ?page=, defaulting to the first page.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
