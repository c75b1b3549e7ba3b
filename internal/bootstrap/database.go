package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/He-ro616/we4x-CO/internal/config"
	"github.com/He-ro616/we4x-CO/internal/store"
	"github.com/He-ro616/we4x-CO/internal/upload"
)

// uploadsPath is the URL prefix the upload folder is served under.
const uploadsPath = "/uploads"

// validateAllConfiguration validates all configuration settings
func validateAllConfiguration(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.IsProduction && cfg.SessionSecret == "session-secret-change-in-production" {
		return errors.New("invalid configuration: SESSION_SECRET must be set in production")
	}
	return nil
}

// initializeDatabase creates and initializes the database connection
func initializeDatabase(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.DBInitTimeout)
	defer cancel()

	db, err := store.New(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Printf("Database initialized (driver: %s)", cfg.DatabaseDriver)
	return db, nil
}

// initializeStorage prepares the upload folder
func initializeStorage(cfg *config.Config) (*upload.LocalStorage, error) {
	storage, err := upload.NewLocalStorage(cfg.UploadFolder, uploadsPath, cfg.UploadMaxBytes)
	if err != nil {
		return nil, err
	}
	log.Printf("Uploads stored in %s (max %d bytes)", cfg.UploadFolder, cfg.UploadMaxBytes)
	return storage, nil
}
