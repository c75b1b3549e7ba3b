package services

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/policy"
	"github.com/He-ro616/we4x-CO/internal/store"
)

const youtubeEmbedPrefix = "https://www.youtube.com/embed/"

var youtubeVideoID = regexp.MustCompile(`^[A-Za-z0-9_-]{6,20}$`)

// SiteConfigService reads and updates the site-wide settings row.
type SiteConfigService struct {
	store        *store.Store
	auditService *AuditService
	storage      core.FileStorage
	guard        guard
}

func NewSiteConfigService(
	s *store.Store,
	auditService *AuditService,
	m core.Recorder,
	storage core.FileStorage,
) *SiteConfigService {
	return &SiteConfigService{
		store:        s,
		auditService: auditService,
		storage:      storage,
		guard:        guard{audit: auditService, metrics: m},
	}
}

func (s *SiteConfigService) Get(ctx context.Context) (*models.SiteConfig, error) {
	cfg, err := s.store.GetSiteConfig(ctx)
	if err != nil {
		return nil, storeErr("get site config", err)
	}
	return cfg, nil
}

// UpdateBanner sets the banner to an uploaded file reference or an http(s) URL.
// An empty banner clears it. A replaced uploaded banner is removed. Admin only.
func (s *SiteConfigService) UpdateBanner(
	ctx context.Context,
	actor *models.User,
	banner string,
) (*models.SiteConfig, error) {
	if err := s.guard.authorize(ctx, actor, policy.ManageSite); err != nil {
		return nil, err
	}
	banner = strings.TrimSpace(banner)
	if !validBanner(banner) {
		return nil, invalid("banner_url", "must be an uploaded file or a http(s) URL")
	}
	previous, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateSiteBanner(ctx, banner); err != nil {
		return nil, storeErr("update banner", err)
	}
	if previous.BannerImage != banner {
		removeFiles(ctx, s.storage, previous.BannerImage)
	}

	s.logUpdate(ctx, actor, "Site banner updated", models.AuditDetails{"banner": banner})
	return s.Get(ctx)
}

// validBanner accepts empty, a site-local path or an absolute http(s) URL.
func validBanner(banner string) bool {
	switch {
	case banner == "":
		return true
	case strings.HasPrefix(banner, "//"), strings.ContainsAny(banner, "\\\r\n\t"):
		return false
	case strings.HasPrefix(banner, "/"):
		return true
	}
	u, err := url.Parse(banner)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// UpdateVideo stores the dashboard video as a YouTube embed URL. Watch,
// youtu.be and embed links are accepted; empty clears it. Admin only.
func (s *SiteConfigService) UpdateVideo(
	ctx context.Context,
	actor *models.User,
	link string,
) (*models.SiteConfig, error) {
	if err := s.guard.authorize(ctx, actor, policy.ManageSite); err != nil {
		return nil, err
	}
	embed := ""
	if link = strings.TrimSpace(link); link != "" {
		var err error
		if embed, err = EmbedVideoURL(link); err != nil {
			return nil, err
		}
	}
	if err := s.store.UpdateSiteVideo(ctx, embed); err != nil {
		return nil, storeErr("update video", err)
	}

	s.logUpdate(ctx, actor, "Dashboard video updated", models.AuditDetails{"video": embed})
	return s.Get(ctx)
}

// EmbedVideoURL turns a YouTube link into its https://www.youtube.com/embed/<id> form.
func EmbedVideoURL(link string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", invalid("video_url", "must be a YouTube link")
	}

	var id string
	switch strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.") {
	case "youtube.com", "m.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		}
	case "youtu.be":
		id = strings.TrimPrefix(u.Path, "/")
	}
	if !youtubeVideoID.MatchString(id) {
		return "", invalid("video_url", "must be a YouTube link")
	}
	return youtubeEmbedPrefix + id, nil
}

func (s *SiteConfigService) logUpdate(ctx context.Context, actor *models.User, action string, details models.AuditDetails) {
	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventSiteConfigUpdated,
		ActorUserID:  actor.ID,
		ActorEmail:   actor.Email,
		ResourceType: models.ResourceSiteConfig,
		Action:       action,
		Details:      details,
		Success:      true,
	})
}
