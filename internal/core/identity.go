package core

import (
	"context"

	"golang.org/x/oauth2"
)

// IdentityClaims are the verified facts an identity provider reports about a user.
type IdentityClaims struct {
	Subject       string // provider-scoped user ID
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// IdentityProvider is an external OAuth 2.0 login provider.
type IdentityProvider interface {
	// Name is the provider key used in URLs and token rows ("google", "github").
	Name() string
	DisplayName() string
	// AuthURL builds the authorization redirect carrying the anti-forgery state.
	AuthURL(state string) string
	// Exchange trades an authorization code for tokens.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	// FetchClaims loads the identity behind an access token.
	FetchClaims(ctx context.Context, token *oauth2.Token) (*IdentityClaims, error)
}
