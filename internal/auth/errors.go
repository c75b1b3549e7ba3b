package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")

	// OAuth provider errors
	ErrTokenExpired     = errors.New("oauth authorization code expired or already used")
	ErrProviderFailure  = errors.New("oauth provider request failed")
	ErrNoVerifiedEmail  = errors.New("oauth account has no verified email address")
	ErrProviderDisabled = errors.New("oauth provider is not configured")
)
