package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/mocks"
	"github.com/He-ro616/we4x-CO/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/oauth2"
)

// newMockGoogle returns a provider whose authorize URL echoes the state.
func newMockGoogle(ctrl *gomock.Controller) *mocks.MockIdentityProvider {
	p := mocks.NewMockIdentityProvider(ctrl)
	p.EXPECT().Name().Return("google").AnyTimes()
	p.EXPECT().DisplayName().Return("Google").AnyTimes()
	p.EXPECT().AuthURL(gomock.Any()).DoAndReturn(func(state string) string {
		return "https://accounts.example.com/o/oauth2/auth?state=" + url.QueryEscape(state)
	}).AnyTimes()
	return p
}

// startOAuth follows the login redirect and returns the state sent to the provider.
func startOAuth(t *testing.T, b *browser, path string) string {
	t.Helper()
	w := b.get(path)
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.example.com", loc.Host)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestOAuthLogin_NewUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	google := newMockGoogle(ctrl)
	google.EXPECT().
		Exchange(gomock.Any(), "auth-code").
		Return(&oauth2.Token{AccessToken: "access", TokenType: "Bearer"}, nil)
	google.EXPECT().
		FetchClaims(gomock.Any(), gomock.Any()).
		Return(&core.IdentityClaims{
			Subject:       "google-123",
			Email:         "newcomer@example.com",
			EmailVerified: true,
			Name:          "New Comer",
		}, nil)

	env := newTestEnv(t, google)
	b := env.browser(t)

	state := startOAuth(t, b, "/auth/login/google")
	w := b.get("/auth/login/google/authorize?state=" + url.QueryEscape(state) + "&code=auth-code")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/setup", w.Header().Get("Location"))

	page := b.follow(w)
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Welcome! Tell us a little about yourself.")

	user, err := env.store.GetUserByEmail(context.Background(), "newcomer@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRole, user.Role)

	w = b.get("/auth/dashboard")
	assert.Equal(t, "/auth/dashboard/public", w.Header().Get("Location"))
}

func TestOAuthLogin_ExistingUserReturnsToNext(t *testing.T) {
	ctrl := gomock.NewController(t)
	google := newMockGoogle(ctrl)
	env := newTestEnv(t, google)
	existing := env.createUser(t, models.RoleTeam)

	google.EXPECT().Exchange(gomock.Any(), "code").Return(&oauth2.Token{AccessToken: "a"}, nil)
	google.EXPECT().FetchClaims(gomock.Any(), gomock.Any()).Return(&core.IdentityClaims{
		Subject:       "google-team",
		Email:         existing.Email,
		EmailVerified: true,
	}, nil)

	b := env.browser(t)
	state := startOAuth(t, b, "/auth/login/google?next=%2Fcommunity%2Fposts")
	w := b.get("/auth/login/google/authorize?state=" + url.QueryEscape(state) + "&code=code")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/community/posts", w.Header().Get("Location"))

	w = b.get("/auth/dashboard")
	assert.Equal(t, "/auth/dashboard/team", w.Header().Get("Location"))
}

func TestOAuthCallback_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		prepare  func(t *testing.T, b *browser) string // returns the callback query
		expect   func(p *mocks.MockIdentityProvider)
		wantText string
	}{
		{
			name: "state mismatch",
			prepare: func(t *testing.T, b *browser) string {
				startOAuth(t, b, "/auth/login/google")
				return "state=forged&code=code"
			},
			wantText: "Your sign-in attempt could not be verified. Please try again.",
		},
		{
			name: "no login in progress",
			prepare: func(t *testing.T, b *browser) string {
				return "state=anything&code=code"
			},
			wantText: "Your sign-in attempt could not be verified. Please try again.",
		},
		{
			name: "provider reported an error",
			prepare: func(t *testing.T, b *browser) string {
				state := startOAuth(t, b, "/auth/login/google")
				return "state=" + url.QueryEscape(state) + "&error=access_denied"
			},
			wantText: "The sign-in provider could not be reached. Please try again.",
		},
		{
			name: "exchange failed",
			prepare: func(t *testing.T, b *browser) string {
				state := startOAuth(t, b, "/auth/login/google")
				return "state=" + url.QueryEscape(state) + "&code=code"
			},
			expect: func(p *mocks.MockIdentityProvider) {
				p.EXPECT().Exchange(gomock.Any(), "code").Return(nil, errors.New("connection reset"))
			},
			wantText: "The sign-in provider could not be reached. Please try again.",
		},
		{
			name: "unverified email",
			prepare: func(t *testing.T, b *browser) string {
				state := startOAuth(t, b, "/auth/login/google")
				return "state=" + url.QueryEscape(state) + "&code=code"
			},
			expect: func(p *mocks.MockIdentityProvider) {
				p.EXPECT().Exchange(gomock.Any(), "code").Return(&oauth2.Token{AccessToken: "a"}, nil)
				p.EXPECT().FetchClaims(gomock.Any(), gomock.Any()).Return(&core.IdentityClaims{
					Subject: "s",
					Email:   "unverified@example.com",
				}, nil)
			},
			wantText: "Your account has no verified email address.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			google := newMockGoogle(ctrl)
			if tt.expect != nil {
				tt.expect(google)
			}
			env := newTestEnv(t, google)
			b := env.browser(t)

			query := tt.prepare(t, b)
			w := b.get("/auth/login/google/authorize?" + query)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/auth/login", w.Header().Get("Location"))
			assert.Contains(t, b.follow(w).Body.String(), tt.wantText)

			// Still signed out.
			assert.Equal(t, http.StatusFound, b.get("/auth/dashboard").Code)
		})
	}
}

func TestOAuthLogin_UnknownProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, newMockGoogle(ctrl))
	b := env.browser(t)

	assert.Equal(t, http.StatusBadRequest, b.get("/auth/login/myspace").Code)
	assert.Equal(t, http.StatusBadRequest, b.get("/auth/login/myspace/authorize?state=x&code=y").Code)
}

func TestLoginPage_ListsProviders(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, newMockGoogle(ctrl))

	w := env.browser(t).get("/auth/login")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/auth/login/google")
}
