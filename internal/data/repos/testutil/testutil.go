package testutil

import (
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/db"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a freshly migrated in-memory SQLite database private to the test.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	gdb, err := db.OpenSQLite(Logger(tb), ":memory:")
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// Tx opens a transaction rolled back at cleanup. With the single-connection
// test pool every query in the test must go through the returned tx.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
