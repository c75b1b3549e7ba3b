package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/He-ro616/we4x-CO/internal/core"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"

	defaultGitHubAPIURL = "https://api.github.com"
)

var (
	_ core.IdentityProvider = (*GoogleProvider)(nil)
	_ core.IdentityProvider = (*GitHubProvider)(nil)
)

// OAuthProviderConfig contains configuration for an OAuth provider
type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

func (c OAuthProviderConfig) oauth2Config(endpoint oauth2.Endpoint) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       c.Scopes,
		Endpoint:     endpoint,
	}
}

// withHTTPClient makes oauth2 use the shared client (timeouts, TLS settings)
// for token exchange and authenticated API calls.
func withHTTPClient(ctx context.Context, client *http.Client) context.Context {
	if client == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, client)
}

// classifyExchangeError separates codes the provider refused from transport failures.
func classifyExchangeError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		switch retrieveErr.ErrorCode {
		case "invalid_grant", "expired_token", "bad_verification_code":
			return fmt.Errorf("%w: %s", ErrTokenExpired, retrieveErr.ErrorCode)
		}
		return fmt.Errorf("%w: token endpoint returned %d", ErrProviderFailure, retrieveErr.Response.StatusCode)
	}
	return fmt.Errorf("%w: %v", ErrProviderFailure, err)
}

// GoogleProvider signs users in with Google and reads their profile from the
// OAuth2 userinfo API.
type GoogleProvider struct {
	config     *oauth2.Config
	httpClient *http.Client

	// userinfoEndpoint overrides the Google API base URL; empty uses the default.
	userinfoEndpoint string
}

// NewGoogleProvider creates a Google provider. httpClient may be nil.
func NewGoogleProvider(cfg OAuthProviderConfig, httpClient *http.Client) *GoogleProvider {
	return &GoogleProvider{
		config:     cfg.oauth2Config(google.Endpoint),
		httpClient: httpClient,
	}
}

func (p *GoogleProvider) Name() string        { return ProviderGoogle }
func (p *GoogleProvider) DisplayName() string { return "Google" }

// AuthURL always asks for consent so a refresh token is returned on every login.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(withHTTPClient(ctx, p.httpClient), code)
	if err != nil {
		return nil, classifyExchangeError(err)
	}
	return token, nil
}

func (p *GoogleProvider) FetchClaims(
	ctx context.Context,
	token *oauth2.Token,
) (*core.IdentityClaims, error) {
	opts := []option.ClientOption{
		option.WithHTTPClient(p.config.Client(withHTTPClient(ctx, p.httpClient), token)),
	}
	if p.userinfoEndpoint != "" {
		opts = append(opts, option.WithEndpoint(p.userinfoEndpoint))
	}

	svc, err := googleoauth2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo: %v", ErrProviderFailure, err)
	}

	verified := info.VerifiedEmail != nil && *info.VerifiedEmail
	if info.Email == "" || !verified {
		return nil, ErrNoVerifiedEmail
	}

	return &core.IdentityClaims{
		Subject:       info.Id,
		Email:         strings.ToLower(info.Email),
		EmailVerified: verified,
		Name:          info.Name,
		Picture:       info.Picture,
	}, nil
}

// GitHubProvider signs users in with GitHub.
type GitHubProvider struct {
	config     *oauth2.Config
	httpClient *http.Client
	apiURL     string
}

// NewGitHubProvider creates a GitHub provider. httpClient may be nil.
func NewGitHubProvider(cfg OAuthProviderConfig, httpClient *http.Client) *GitHubProvider {
	return &GitHubProvider{
		config:     cfg.oauth2Config(github.Endpoint),
		httpClient: httpClient,
		apiURL:     defaultGitHubAPIURL,
	}
}

func (p *GitHubProvider) Name() string        { return ProviderGitHub }
func (p *GitHubProvider) DisplayName() string { return "GitHub" }

func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(withHTTPClient(ctx, p.httpClient), code)
	if err != nil {
		return nil, classifyExchangeError(err)
	}
	return token, nil
}

// GitHub user info structures
type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (p *GitHubProvider) FetchClaims(
	ctx context.Context,
	token *oauth2.Token,
) (*core.IdentityClaims, error) {
	client := p.config.Client(withHTTPClient(ctx, p.httpClient), token)

	var user githubUser
	if err := p.getJSON(ctx, client, "/user", &user); err != nil {
		return nil, err
	}

	// The public profile email is not necessarily verified, so always consult /user/emails.
	var emails []githubEmail
	if err := p.getJSON(ctx, client, "/user/emails", &emails); err != nil {
		return nil, err
	}
	email := pickGitHubEmail(emails)
	if email == "" {
		return nil, ErrNoVerifiedEmail
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}

	return &core.IdentityClaims{
		Subject:       strconv.FormatInt(user.ID, 10),
		Email:         strings.ToLower(email),
		EmailVerified: true,
		Name:          name,
		Picture:       user.AvatarURL,
	}, nil
}

func (p *GitHubProvider) getJSON(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrProviderFailure, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: GitHub API error: %s - %s", ErrProviderFailure, resp.Status, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode %s: %v", ErrProviderFailure, path, err)
	}
	return nil
}

// pickGitHubEmail prefers the primary verified address, then any verified one.
func pickGitHubEmail(emails []githubEmail) string {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email
		}
	}
	return ""
}
