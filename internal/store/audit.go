package store

import (
	"context"
	"time"

	"github.com/He-ro616/we4x-CO/internal/models"
)

// Audit log operations

func (s *Store) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// CreateAuditLogBatch writes several entries in one statement
func (s *Store) CreateAuditLogBatch(ctx context.Context, entries []*models.AuditLog) error {
	if len(entries) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).CreateInBatches(entries, 100).Error
}

// ListRecentAuditLogs returns the newest entries first
func (s *Store) ListRecentAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.db.WithContext(ctx).Order("event_time DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// DeleteOldAuditLogs removes entries older than the cutoff
func (s *Store) DeleteOldAuditLogs(ctx context.Context, olderThan time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("event_time < ?", olderThan).Delete(&models.AuditLog{})
	return res.RowsAffected, res.Error
}
