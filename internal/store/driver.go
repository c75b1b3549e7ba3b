package store

import (
	"fmt"

	"github.com/He-ro616/we4x-CO/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// GetDialector maps a DATABASE_DRIVER value to its gorm dialector.
func GetDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case config.DatabaseDriverSQLite:
		return sqlite.Open(dsn), nil
	case config.DatabaseDriverPostgres:
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}
