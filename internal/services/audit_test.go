package services

import (
	"context"
	"testing"
	"time"

	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_LogSync(t *testing.T) {
	db := setupTestStore(t)
	svc := NewAuditService(db, true, 10)
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	ctx := util.SetActorContext(util.SetIPContext(context.Background(), "10.0.0.1"), "admin@x.com")
	err := svc.LogSync(ctx, AuditLogEntry{
		EventType: models.EventPasswordChanged,
		Action:    "Password changed",
		Details:   models.AuditDetails{"new_password": "hunter22", "provider": "google"},
		Success:   true,
	})
	require.NoError(t, err)

	logs, err := svc.RecentLogs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "10.0.0.1", logs[0].ActorIP)
	assert.Equal(t, "admin@x.com", logs[0].ActorEmail)
	assert.Equal(t, models.SeverityInfo, logs[0].Severity)
	assert.Equal(t, "***REDACTED***", logs[0].Details["new_password"])
	assert.Equal(t, "google", logs[0].Details["provider"])
}

func TestAuditService_AsyncFlushOnShutdown(t *testing.T) {
	db := setupTestStore(t)
	svc := NewAuditService(db, true, 50)

	for i := 0; i < 5; i++ {
		svc.Log(context.Background(), AuditLogEntry{
			EventType: models.EventAuthenticationSuccess,
			Action:    "Password login",
			Success:   true,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, svc.Shutdown(ctx))
	// A second shutdown is harmless
	require.NoError(t, svc.Shutdown(ctx))

	logs, err := svc.RecentLogs(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, logs, 5)
}

func TestAuditService_Disabled(t *testing.T) {
	db := setupTestStore(t)
	svc := NewAuditService(db, false, 10)

	svc.Log(context.Background(), AuditLogEntry{EventType: models.EventLogout, Action: "Logout"})
	require.NoError(t, svc.LogSync(context.Background(), AuditLogEntry{EventType: models.EventLogout, Action: "Logout"}))
	require.NoError(t, svc.Shutdown(context.Background()))

	logs, err := svc.RecentLogs(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestAuditService_CleanupOldLogs(t *testing.T) {
	db := setupTestStore(t)
	svc := NewAuditService(db, true, 10)
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	require.NoError(t, svc.LogSync(context.Background(), AuditLogEntry{
		EventType: models.EventLogout, Action: "Logout",
	}))

	deleted, err := svc.CleanupOldLogs(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	deleted, err = svc.CleanupOldLogs(context.Background(), -time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
