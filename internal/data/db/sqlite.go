package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

// OpenSQLite opens a SQLite database at path (":memory:" for an ephemeral one).
// The pool is pinned to one connection so in-memory databases are shared across queries.
func OpenSQLite(log *logger.Logger, path string) (*gorm.DB, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=off"), gormConfig(log.With("service", "SQLite")))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
