package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/He-ro616/we4x-CO/internal/config"
	"github.com/He-ro616/we4x-CO/internal/metrics"
	"github.com/He-ro616/we4x-CO/internal/services"
)

// CreateAdmin creates or promotes an administrator account and exits. It
// reuses the server's database settings but starts no HTTP layer.
func CreateAdmin(cfg *config.Config, email, password string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx := context.Background()
	db, err := initializeDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	userCache, closeCache, err := initializeUserCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache() //nolint:errcheck

	audit := services.NewAuditService(db, cfg.EnableAuditLogging, cfg.AuditLogBufferSize)
	defer func() {
		if err := audit.Shutdown(ctx); err != nil {
			log.Printf("Error flushing audit log: %v", err)
		}
	}()
	users, _, _, _ := initializeServices(cfg, db, audit, metrics.NewNoopMetrics(), userCache, nil)

	user, created, err := users.CreateAdmin(ctx, email, password)
	if err != nil {
		return err
	}
	if created {
		log.Printf("Created administrator %s", user.Email)
	} else {
		log.Printf("Promoted %s to administrator and reset the password", user.Email)
	}
	return nil
}
