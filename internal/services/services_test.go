package services

import (
	"context"
	"testing"
	"time"

	"github.com/He-ro616/we4x-CO/internal/auth"
	"github.com/He-ro616/we4x-CO/internal/cache"
	"github.com/He-ro616/we4x-CO/internal/config"
	"github.com/He-ro616/we4x-CO/internal/metrics"
	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(context.Background(), "sqlite", ":memory:", &config.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestUserService(t *testing.T, s *store.Store) *UserService {
	t.Helper()
	return NewUserService(
		s,
		auth.NewLocalAuthProvider(s),
		NewAuditService(s, false, 10),
		metrics.NewNoopMetrics(),
		nil,
		cache.NewMemoryCache[models.User](),
		time.Minute,
	)
}

func createUser(t *testing.T, s *store.Store, role models.Role, password string) *models.User {
	t.Helper()
	u := &models.User{
		Email: "user-" + uuid.New().String()[:8] + "@example.com",
		Name:  "Test " + string(role),
		Role:  role,
	}
	if password != "" {
		hash, err := auth.HashPassword(password)
		require.NoError(t, err)
		u.PasswordHash = hash
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func countRows(t *testing.T, s *store.Store, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.DB().Model(model).Where(where, args...).Count(&n).Error)
	return n
}

func oauthTokenOf(t *testing.T, s *store.Store, userID, provider string) *models.OAuthToken {
	t.Helper()
	var token models.OAuthToken
	require.NoError(t, s.DB().Where("user_id = ? AND provider = ?", userID, provider).First(&token).Error)
	return &token
}
