package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/learnhub-backend/internal/platform/envutil"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver     string
	SQLitePath string
	Postgres   PostgresConfig
}

func ConfigFromEnv() Config {
	return Config{
		Driver:     strings.ToLower(envutil.String("DB_DRIVER", DriverPostgres)),
		SQLitePath: envutil.String("SQLITE_PATH", "learnhub.db"),
		Postgres:   PostgresConfigFromEnv(),
	}
}

// Open connects to the configured driver and migrates the schema.
func Open(log *logger.Logger, cfg Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverPostgres:
		var pg *PostgresService
		pg, err = NewPostgresService(log, cfg.Postgres)
		if err == nil {
			db = pg.DB()
		}
	case DriverSQLite:
		db, err = OpenSQLite(log, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (allowed: postgres, sqlite)", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := AutoMigrateAll(db); err != nil {
		return nil, err
	}
	return db, nil
}

// gormWriter routes gorm's own log lines through the service logger.
type gormWriter struct {
	log *logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func gormConfig(log *logger.Logger) *gorm.Config {
	return &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger: gormLogger.New(
			gormWriter{log: log},
			gormLogger.Config{
				SlowThreshold:             envutil.Seconds("DB_SLOW_QUERY_SECONDS", 1*time.Second),
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}
}
