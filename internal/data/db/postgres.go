package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/platform/envutil"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func PostgresConfigFromEnv() PostgresConfig {
	return PostgresConfig{
		Host:     envutil.String("POSTGRES_HOST", "localhost"),
		Port:     envutil.String("POSTGRES_PORT", "5432"),
		User:     envutil.String("POSTGRES_USER", "postgres"),
		Password: envutil.String("POSTGRES_PASSWORD", ""),
		Name:     envutil.String("POSTGRES_NAME", "learnhub"),
		SSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
	}
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
		c.SSLMode,
	)
}

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger, cfg PostgresConfig) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig(serviceLog))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(envutil.Int("POSTGRES_MAX_OPEN_CONNS", 25))
	sqlDB.SetMaxIdleConns(envutil.Int("POSTGRES_MAX_IDLE_CONNS", 5))
	sqlDB.SetConnMaxLifetime(envutil.Seconds("POSTGRES_CONN_MAX_LIFETIME_SECONDS", 30*time.Minute))

	serviceLog.Info("Connected to Postgres", "host", cfg.Host, "db", cfg.Name)
	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }
