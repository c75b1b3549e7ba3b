package handlers

import (
	"net/http"

	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/middleware"
	"github.com/He-ro616/we4x-CO/internal/services"
	"github.com/He-ro616/we4x-CO/internal/templates"

	"github.com/gin-gonic/gin"
)

const (
	settingsPath      = "/admin/settings"
	videoSettingsPath = settingsPath + "/video"
	indexEventsMax    = 5
)

// SiteHandler serves the landing page and the site settings.
type SiteHandler struct {
	siteService  *services.SiteConfigService
	eventService *services.EventService
	storage      core.FileStorage
}

func NewSiteHandler(
	ss *services.SiteConfigService,
	es *services.EventService,
	storage core.FileStorage,
) *SiteHandler {
	return &SiteHandler{siteService: ss, eventService: es, storage: storage}
}

// Index shows the banner and upcoming events. Signed-in users go to their dashboard.
func (h *SiteHandler) Index(c *gin.Context) {
	if user := middleware.CurrentUser(c); user != nil {
		c.Redirect(http.StatusFound, dashboardFor(user))
		return
	}

	ctx := c.Request.Context()
	cfg, err := h.siteService.Get(ctx)
	if err != nil {
		renderLookupError(c, err)
		return
	}
	events, err := h.eventService.ListUpcoming(ctx, indexEventsMax)
	if err != nil {
		renderLookupError(c, err)
		return
	}

	templates.RenderTempl(c, http.StatusOK, templates.IndexPage(templates.IndexPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navProps(c, "home"),
		Banner:      cfg.BannerImage,
		Events:      events,
	}))
}

// SettingsPage renders the banner and video forms.
func (h *SiteHandler) SettingsPage(c *gin.Context) {
	cfg, err := h.siteService.Get(c.Request.Context())
	if err != nil {
		renderLookupError(c, err)
		return
	}
	templates.RenderTempl(c, http.StatusOK, templates.SettingsPage(templates.SettingsPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navProps(c, "settings"),
		Banner:      cfg.BannerImage,
		VideoURL:    cfg.VideoURL,
	}))
}

// UpdateSettings sets the banner. An uploaded file wins over the URL field.
func (h *SiteHandler) UpdateSettings(c *gin.Context) {
	banner, err := storeUpload(c, h.storage, "banner_file")
	if err != nil {
		failRedirect(c, err, settingsPath)
		return
	}
	uploaded := banner != ""
	if !uploaded {
		banner = c.PostForm("banner_url")
	}

	if _, err := h.siteService.UpdateBanner(c.Request.Context(), middleware.CurrentUser(c), banner); err != nil {
		if uploaded {
			discardUpload(c, h.storage, banner)
		}
		failRedirect(c, err, settingsPath)
		return
	}
	flashRedirect(c, templates.FlashSuccess, "Settings saved.", settingsPath)
}

// UpdateVideo sets the member dashboard video from a YouTube link.
func (h *SiteHandler) UpdateVideo(c *gin.Context) {
	_, err := h.siteService.UpdateVideo(c.Request.Context(), middleware.CurrentUser(c), c.PostForm("video_url"))
	if err != nil {
		failRedirect(c, err, settingsPath)
		return
	}
	flashRedirect(c, templates.FlashSuccess, "Video saved.", settingsPath)
}
