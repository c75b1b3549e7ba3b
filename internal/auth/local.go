package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash keeps the response time of unknown accounts close to that of wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("we4x-dummy-password"), bcrypt.DefaultCost)

// LocalAuthProvider handles local database authentication
type LocalAuthProvider struct {
	store *store.Store
}

// NewLocalAuthProvider creates a new local authentication provider
func NewLocalAuthProvider(s *store.Store) *LocalAuthProvider {
	return &LocalAuthProvider{store: s}
}

// Authenticate verifies credentials against local database
func (p *LocalAuthProvider) Authenticate(
	ctx context.Context,
	email, password string,
) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := p.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// OAuth-only accounts have no password and cannot log in this way.
	if !user.HasPassword() {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash),
		[]byte(password),
	); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Name returns provider name for logging
func (p *LocalAuthProvider) Name() string {
	return "local"
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
