package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/He-ro616/we4x-CO/internal/auth"
	"github.com/He-ro616/we4x-CO/internal/cache"
	"github.com/He-ro616/we4x-CO/internal/config"
	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/metrics"
	"github.com/He-ro616/we4x-CO/internal/middleware"
	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/policy"
	"github.com/He-ro616/we4x-CO/internal/services"
	"github.com/He-ro616/we4x-CO/internal/store"
	"github.com/He-ro616/we4x-CO/internal/upload"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse-battery"

type testEnv struct {
	store     *store.Store
	users     *services.UserService
	events    *services.EventService
	community *services.CommunityService
	site      *services.SiteConfigService
	audit     *services.AuditService
	storage   *upload.LocalStorage
	router    *gin.Engine
}

// newTestEnv wires every handler against an in-memory sqlite store. CSRF and
// rate limiting are covered by the middleware tests and left out here.
func newTestEnv(t *testing.T, providers ...core.IdentityProvider) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.New(context.Background(), "sqlite", ":memory:", &config.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	storage, err := upload.NewLocalStorage(t.TempDir(), "/uploads", 1<<20)
	require.NoError(t, err)

	audit := services.NewAuditService(s, false, 10)
	m := metrics.NewNoopMetrics()
	env := &testEnv{
		store: s,
		users: services.NewUserService(
			s,
			auth.NewLocalAuthProvider(s),
			audit,
			m,
			storage,
			cache.NewMemoryCache[models.User](),
			time.Minute,
		),
		events:    services.NewEventService(s, audit, m, storage),
		community: services.NewCommunityService(s, audit, m, storage),
		site:      services.NewSiteConfigService(s, audit, m, storage),
		audit:     audit,
		storage:   storage,
	}
	env.router = env.routes(providers)
	return env
}

func (e *testEnv) routes(providers []core.IdentityProvider) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.Use(middleware.LoadUser(e.users))

	authHandler := NewAuthHandler(e.users, providers, "http://localhost:8080")
	oauthHandler := NewOAuthHandler(providers, e.users, "http://localhost:8080")
	dashboardHandler := NewDashboardHandler(e.users, e.events, e.community, e.site, e.audit)
	teamHandler := NewTeamHandler(e.users)
	eventHandler := NewEventHandler(e.events, e.storage)
	communityHandler := NewCommunityHandler(e.community, e.storage)
	profileHandler := NewProfileHandler(e.users, e.events, e.storage)
	siteHandler := NewSiteHandler(e.site, e.events, e.storage)

	r.GET("/test-login/:id", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(middleware.SessionUserID, c.Param("id"))
		_ = session.Save()
		c.Status(http.StatusNoContent)
	})

	r.GET("/", siteHandler.Index)

	authGroup := r.Group("/auth")
	authGroup.GET("/login", authHandler.LoginPage)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/logout", authHandler.Logout)
	authGroup.GET("/login/:provider", oauthHandler.LoginWithProvider)
	authGroup.GET("/login/:provider/authorize", oauthHandler.OAuthCallback)

	signedIn := authGroup.Group("", middleware.RequireAuth())
	signedIn.GET("/dashboard", dashboardHandler.Dashboard)
	signedIn.GET("/dashboard/public", dashboardHandler.PublicDashboard)
	signedIn.GET("/team/password", authHandler.PasswordPage)
	signedIn.POST("/password/update", authHandler.UpdatePassword)
	signedIn.POST("/post/create", communityHandler.CreatePost)
	signedIn.POST("/post/:id/comment", communityHandler.Comment)
	signedIn.POST("/post/:id/delete", communityHandler.DeletePost)
	authGroup.GET("/dashboard/team",
		middleware.RequirePermission(policy.ViewTeamDashboard), dashboardHandler.TeamDashboard)
	authGroup.GET("/dashboard/admin",
		middleware.RequirePermission(policy.ViewAdminDashboard), dashboardHandler.AdminDashboard)

	manageTeam := authGroup.Group("", middleware.RequirePermission(policy.ManageTeam))
	manageTeam.GET("/admin/team", teamHandler.TeamPage)
	manageTeam.POST("/team/add", teamHandler.AddMember)
	manageTeam.POST("/team/remove/:id", teamHandler.RemoveMember)
	authGroup.POST("/admin/users/:id/delete",
		middleware.RequirePermission(policy.ManageUsers), teamHandler.DeleteUser)

	events := r.Group("/events")
	events.GET("/event/:id", eventHandler.View)
	events.POST("/register/:id", eventHandler.Register)
	events.GET("/create_event", middleware.RequirePermission(policy.CreateEvent), eventHandler.CreatePage)
	events.POST("/create_event", middleware.RequirePermission(policy.CreateEvent), eventHandler.Create)
	events.POST("/event/:id/attend", middleware.RequireAuth(), eventHandler.Attend)
	events.POST("/event/:id/delete", middleware.RequirePermission(policy.DeleteEvent), eventHandler.Delete)

	r.GET("/community/posts", communityHandler.ListPosts)
	r.GET("/community/posts/:id", communityHandler.ViewPost)

	r.GET("/profile/setup", middleware.RequireAuth(), profileHandler.SetupPage)
	r.POST("/profile/setup", middleware.RequireAuth(), profileHandler.Setup)
	r.GET("/profile/:id", profileHandler.ViewProfile)

	r.GET("/admin/settings", middleware.RequirePermission(policy.ManageSite), siteHandler.SettingsPage)
	r.POST("/admin/settings", middleware.RequirePermission(policy.ManageSite), siteHandler.UpdateSettings)
	r.POST("/admin/settings/video", middleware.RequirePermission(policy.ManageSite), siteHandler.UpdateVideo)
	return r
}

func (e *testEnv) createUser(t *testing.T, role models.Role) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	u := &models.User{
		Email:        "user-" + uuid.New().String()[:8] + "@example.com",
		Name:         "Test " + string(role),
		Role:         role,
		PasswordHash: hash,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) createEvent(t *testing.T, owner *models.User, capacity *int) *models.Event {
	t.Helper()
	start := time.Now().Add(48 * time.Hour)
	event, err := e.events.CreateEvent(context.Background(), owner, services.EventInput{
		Title:    "Meetup " + uuid.New().String()[:6],
		Start:    start,
		End:      start.Add(2 * time.Hour),
		Capacity: capacity,
	})
	require.NoError(t, err)
	return event
}

// browser is a cookie-carrying client for the test router.
type browser struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func (e *testEnv) browser(t *testing.T) *browser {
	return &browser{t: t, router: e.router, cookies: map[string]*http.Cookie{}}
}

// signedIn returns a browser whose session belongs to user.
func (e *testEnv) signedIn(t *testing.T, user *models.User) *browser {
	t.Helper()
	b := e.browser(t)
	w := b.get("/test-login/" + user.ID)
	require.Equal(t, http.StatusNoContent, w.Code)
	return b
}

func (b *browser) serve(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)

	// Later Set-Cookie headers for the same name replace earlier ones.
	resp := http.Response{Header: w.Header()}
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	b.t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, path, nil)
	require.NoError(b.t, err)
	return b.serve(req)
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	req, err := http.NewRequestWithContext(
		context.Background(),
		http.MethodPost,
		path,
		strings.NewReader(form.Encode()),
	)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.serve(req)
}

// postFile submits a multipart form with one file field.
func (b *browser) postFile(
	path string,
	form url.Values,
	field, filename string,
	content []byte,
) *httptest.ResponseRecorder {
	b.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vs := range form {
		for _, v := range vs {
			require.NoError(b.t, mw.WriteField(k, v))
		}
	}
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(b.t, err)
	_, err = fw.Write(content)
	require.NoError(b.t, err)
	require.NoError(b.t, mw.Close())

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, path, &body)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.serve(req)
}

// follow requests the redirect target of w and returns the page.
func (b *browser) follow(w *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	b.t.Helper()
	require.Equal(b.t, http.StatusFound, w.Code, "expected a redirect, body: %s", w.Body.String())
	return b.get(w.Header().Get("Location"))
}
