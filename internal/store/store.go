package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/He-ro616/we4x-CO/internal/config"
	"github.com/He-ro616/we4x-CO/internal/models"
	"github.com/He-ro616/we4x-CO/internal/util"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

func New(ctx context.Context, driver, dsn string, cfg *config.Config) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if driver == config.DatabaseDriverSQLite {
		// SQLite allows a single writer; ":memory:" databases are per connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.OAuthToken{},
		&models.Event{},
		&models.Registration{},
		&models.EventAttendance{},
		&models.Post{},
		&models.Comment{},
		&models.SiteConfig{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s := &Store{db: db}

	if err := s.EnsureSiteConfig(ctx); err != nil {
		return nil, fmt.Errorf("failed to bootstrap site config: %w", err)
	}
	if err := s.seedInitialAdmin(ctx, cfg); err != nil {
		log.Printf("Warning: failed to seed initial admin: %v", err)
	}

	return s, nil
}

// seedInitialAdmin creates the configured administrator account when it is missing.
func (s *Store) seedInitialAdmin(ctx context.Context, cfg *config.Config) error {
	if cfg == nil || cfg.InitialAdminEmail == "" {
		return nil
	}

	_, err := s.GetUserByEmail(ctx, cfg.InitialAdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return err
	}

	password := cfg.DefaultAdminPassword
	generated := password == ""
	if generated {
		if password, err = util.RandomPassword(16); err != nil {
			return err
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        cfg.InitialAdminEmail,
		Name:         "Administrator",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		return err
	}
	if generated {
		log.Printf("Created initial admin: %s / %s (role: admin)", user.Email, password)
	} else {
		log.Printf("Created initial admin: %s (role: admin)", user.Email)
	}
	return nil
}

// Health checks the database connection
func (s *Store) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// DB returns the underlying GORM database connection
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn inside a database transaction. The Store passed to fn
// is bound to the transaction; any error rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// translate maps GORM errors onto the store's sentinel errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	default:
		return err
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Fallback for drivers without error translation
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
