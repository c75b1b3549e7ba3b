package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/He-ro616/we4x-CO/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	env := newTestEnv(t)
	event := env.createEvent(t, env.createUser(t, models.RoleTeam), nil)

	w := env.browser(t).get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), event.Title)

	member := env.signedIn(t, env.createUser(t, models.RolePublic))
	w = member.get("/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/dashboard/public", w.Header().Get("Location"))
}

func TestUpdateSettings_BannerURL(t *testing.T) {
	env := newTestEnv(t)
	admin := env.signedIn(t, env.createUser(t, models.RoleAdmin))

	w := admin.post(settingsPath, url.Values{"banner_url": {"https://cdn.example.com/banner.png"}})
	assert.Equal(t, settingsPath, w.Header().Get("Location"))
	assert.Contains(t, admin.follow(w).Body.String(), "Settings saved.")
	assert.Contains(t, env.browser(t).get("/").Body.String(), "https://cdn.example.com/banner.png")

	w = admin.post(settingsPath, url.Values{"banner_url": {"javascript:alert(1)"}})
	assert.Contains(t, admin.follow(w).Body.String(), "Banner url must be an uploaded file or a http(s) URL.")

	// An empty value clears the banner.
	admin.post(settingsPath, url.Values{"banner_url": {""}})
	cfg, err := env.site.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cfg.BannerImage)
}

func TestUpdateSettings_UploadWinsOverURL(t *testing.T) {
	env := newTestEnv(t)
	admin := env.signedIn(t, env.createUser(t, models.RoleAdmin))

	w := admin.postFile(settingsPath,
		url.Values{"banner_url": {"https://cdn.example.com/ignored.png"}},
		"banner_file", "hero.gif", []byte("GIF89a"))
	assert.Equal(t, settingsPath, w.Header().Get("Location"))

	cfg, err := env.site.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cfg.BannerImage, "/uploads/"))
	assert.True(t, strings.HasSuffix(cfg.BannerImage, "_hero.gif"))
}

func TestSettings_AdminOnly(t *testing.T) {
	env := newTestEnv(t)

	for _, role := range []models.Role{models.RoleTeam, models.RolePublic, models.RoleViewer} {
		b := env.signedIn(t, env.createUser(t, role))
		assert.Equal(t, "/auth/dashboard", b.get(settingsPath).Header().Get("Location"), "role %s", role)
		w := b.post(settingsPath, url.Values{"banner_url": {"https://evil.example.com/x.png"}})
		assert.Equal(t, "/auth/dashboard", w.Header().Get("Location"), "role %s", role)
	}

	cfg, err := env.site.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cfg.BannerImage)

	admin := env.signedIn(t, env.createUser(t, models.RoleAdmin))
	assert.Equal(t, http.StatusOK, admin.get(settingsPath).Code)
}

func TestUpdateVideo(t *testing.T) {
	env := newTestEnv(t)
	admin := env.signedIn(t, env.createUser(t, models.RoleAdmin))
	member := env.signedIn(t, env.createUser(t, models.RolePublic))

	assert.NotContains(t, member.get("/auth/dashboard/public").Body.String(), "<iframe")

	w := admin.post(videoSettingsPath, url.Values{"video_url": {"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}})
	assert.Equal(t, settingsPath, w.Header().Get("Location"))
	page := admin.follow(w).Body.String()
	assert.Contains(t, page, "Video saved.")
	assert.Contains(t, page, "https://www.youtube.com/embed/dQw4w9WgXcQ")

	assert.Contains(t, member.get("/auth/dashboard/public").Body.String(),
		`src="https://www.youtube.com/embed/dQw4w9WgXcQ"`)

	w = admin.post(videoSettingsPath, url.Values{"video_url": {"https://evil.example.com/watch?v=dQw4w9WgXcQ"}})
	assert.Contains(t, admin.follow(w).Body.String(), "Video url must be a YouTube link.")

	w = member.post(videoSettingsPath, url.Values{"video_url": {""}})
	assert.Equal(t, "/auth/dashboard", w.Header().Get("Location"))
	cfg, err := env.site.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", cfg.VideoURL)
}

func TestUpdateSettings_ProtocolRelativeBannerRejected(t *testing.T) {
	env := newTestEnv(t)
	admin := env.signedIn(t, env.createUser(t, models.RoleAdmin))

	w := admin.post(settingsPath, url.Values{"banner_url": {"//other-host/x.png"}})
	assert.Contains(t, admin.follow(w).Body.String(), "Banner url must be an uploaded file or a http(s) URL.")
	cfg, err := env.site.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cfg.BannerImage)
}
