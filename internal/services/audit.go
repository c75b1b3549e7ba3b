package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/store"
	"github.com/He-ro616/we4x-CO/internal/util"

	"github.com/google/uuid"
)

const auditBatchSize = 100

// AuditLogEntry represents the data needed to create an audit log entry
type AuditLogEntry struct {
	EventType     models.EventType
	Severity      models.EventSeverity
	ActorUserID   string
	ActorEmail    string
	ActorIP       string
	ResourceType  models.ResourceType
	ResourceID    string
	ResourceName  string
	Action        string
	Details       models.AuditDetails
	Success       bool
	ErrorMessage  string
	UserAgent     string
	RequestPath   string
	RequestMethod string
}

// AuditService handles audit logging operations
type AuditService struct {
	store      *store.Store
	enabled    bool
	bufferSize int

	// Async logging channel
	logChan chan *models.AuditLog

	// Batch buffer
	batchBuffer []*models.AuditLog
	batchMutex  sync.Mutex
	batchTicker *time.Ticker

	// Graceful shutdown
	wg           sync.WaitGroup
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// NewAuditService creates a new audit service
func NewAuditService(s *store.Store, enabled bool, bufferSize int) *AuditService {
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	service := &AuditService{
		store:       s,
		enabled:     enabled,
		bufferSize:  bufferSize,
		logChan:     make(chan *models.AuditLog, bufferSize),
		batchBuffer: make([]*models.AuditLog, 0, auditBatchSize),
		shutdownCh:  make(chan struct{}),
	}

	if enabled {
		service.batchTicker = time.NewTicker(1 * time.Second)
		service.wg.Add(1)
		go service.worker()
		log.Printf("Audit service started with buffer size %d", bufferSize)
	} else {
		log.Println("Audit service is disabled")
	}

	return service
}

// worker is the background goroutine that processes audit logs
func (s *AuditService) worker() {
	defer s.wg.Done()

	for {
		select {
		case entry := <-s.logChan:
			s.addToBatch(entry)

		case <-s.batchTicker.C:
			s.flushBatch()

		case <-s.shutdownCh:
			// Drain whatever is still queued before the final flush
			for {
				select {
				case entry := <-s.logChan:
					s.addToBatch(entry)
				default:
					s.flushBatch()
					return
				}
			}
		}
	}
}

func (s *AuditService) addToBatch(entry *models.AuditLog) {
	s.batchMutex.Lock()
	defer s.batchMutex.Unlock()

	s.batchBuffer = append(s.batchBuffer, entry)
	if len(s.batchBuffer) >= auditBatchSize {
		s.flushBatchUnsafe()
	}
}

func (s *AuditService) flushBatch() {
	s.batchMutex.Lock()
	defer s.batchMutex.Unlock()
	s.flushBatchUnsafe()
}

// flushBatchUnsafe writes the batch buffer; caller must hold batchMutex.
func (s *AuditService) flushBatchUnsafe() {
	if len(s.batchBuffer) == 0 {
		return
	}

	toWrite := make([]*models.AuditLog, len(s.batchBuffer))
	copy(toWrite, s.batchBuffer)
	s.batchBuffer = s.batchBuffer[:0]

	if err := s.store.CreateAuditLogBatch(context.Background(), toWrite); err != nil {
		log.Printf("[Audit] Failed to write audit log batch: %v", err)
	}
}

func (s *AuditService) buildLog(ctx context.Context, entry AuditLogEntry) *models.AuditLog {
	if entry.ActorIP == "" {
		entry.ActorIP = util.GetIPFromContext(ctx)
	}
	if entry.ActorEmail == "" {
		entry.ActorEmail = util.GetActorFromContext(ctx)
	}
	if entry.Severity == "" {
		entry.Severity = models.SeverityInfo
	}

	now := time.Now()
	return &models.AuditLog{
		ID:            uuid.New().String(),
		EventType:     entry.EventType,
		EventTime:     now,
		Severity:      entry.Severity,
		ActorUserID:   entry.ActorUserID,
		ActorEmail:    entry.ActorEmail,
		ActorIP:       entry.ActorIP,
		ResourceType:  entry.ResourceType,
		ResourceID:    entry.ResourceID,
		ResourceName:  entry.ResourceName,
		Action:        entry.Action,
		Details:       maskSensitiveDetails(entry.Details),
		Success:       entry.Success,
		ErrorMessage:  entry.ErrorMessage,
		UserAgent:     entry.UserAgent,
		RequestPath:   entry.RequestPath,
		RequestMethod: entry.RequestMethod,
		CreatedAt:     now,
	}
}

// Log records an audit log entry asynchronously
func (s *AuditService) Log(ctx context.Context, entry AuditLogEntry) {
	if s == nil || !s.enabled {
		return
	}

	auditLog := s.buildLog(ctx, entry)

	select {
	case s.logChan <- auditLog:
	default:
		log.Printf("WARNING: Audit log buffer full, dropping event: %s", entry.Action)
	}
}

// LogSync records an audit log entry synchronously (for critical events)
func (s *AuditService) LogSync(ctx context.Context, entry AuditLogEntry) error {
	if s == nil || !s.enabled {
		return nil
	}
	return s.store.CreateAuditLog(ctx, s.buildLog(ctx, entry))
}

// RecentLogs returns up to limit entries, newest first
func (s *AuditService) RecentLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return s.store.ListRecentAuditLogs(ctx, limit)
}

// CleanupOldLogs deletes audit logs older than the retention period
func (s *AuditService) CleanupOldLogs(ctx context.Context, retention time.Duration) (int64, error) {
	return s.store.DeleteOldAuditLogs(ctx, time.Now().Add(-retention))
}

// Shutdown flushes pending entries and stops the worker
func (s *AuditService) Shutdown(ctx context.Context) error {
	if !s.enabled {
		return nil
	}

	s.shutdownOnce.Do(func() {
		s.batchTicker.Stop()
		close(s.shutdownCh)
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Audit service shut down gracefully")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("audit service shutdown timeout: %w", ctx.Err())
	}
}

// maskSensitiveDetails masks sensitive information in audit log details
func maskSensitiveDetails(details models.AuditDetails) models.AuditDetails {
	if details == nil {
		return details
	}

	masked := make(models.AuditDetails, len(details))
	for key, value := range details {
		if isSensitiveField(key) {
			masked[key] = "***REDACTED***"
			continue
		}
		masked[key] = value
	}
	return masked
}

func isSensitiveField(key string) bool {
	key = strings.ToLower(key)
	for _, field := range []string{"password", "client_secret", "token", "secret", "code"} {
		if strings.Contains(key, field) {
			return true
		}
	}
	return false
}
