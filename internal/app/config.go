package app

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/learnhub-backend/internal/data/db"
	"github.com/yungbote/learnhub-backend/internal/platform/envutil"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/platform/storage"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	Port    string
	LogMode string
	Env     string
	Version string

	DB      db.Config
	Storage storage.Config

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	// TokenPurgeInterval is how often expired token pairs are deleted; 0 disables.
	TokenPurgeInterval time.Duration

	DashboardCacheTTL time.Duration
	MaxUploadBytes    int64

	CORSAllowOrigins []string
	RequestTimeout   time.Duration
	ShutdownTimeout  time.Duration

	OtelServiceName string
}

// LoadDotEnv reads .env from the working directory when present. Variables
// already in the environment win.
func LoadDotEnv(log *logger.Logger) {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		log.Warn("Could not load .env", "error", err)
		return
	}
	log.Info("Loaded .env")
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:    envutil.String("PORT", "8080"),
		LogMode: envutil.String("LOG_MODE", "development"),
		Env:     envutil.String("APP_ENV", "development"),
		Version: envutil.String("APP_VERSION", "dev"),

		DB:      db.ConfigFromEnv(),
		Storage: storage.ConfigFromEnv(),

		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL: envutil.Seconds("REFRESH_TOKEN_TTL", 24*time.Hour),

		TokenPurgeInterval: envutil.Seconds("TOKEN_PURGE_INTERVAL", time.Hour),

		DashboardCacheTTL: envutil.Seconds("DASHBOARD_CACHE_TTL", 60*time.Second),
		MaxUploadBytes:    int64(envutil.Int("MAX_UPLOAD_MB", 50)) << 20,

		CORSAllowOrigins: envutil.List("CORS_ALLOW_ORIGINS", nil),
		RequestTimeout:   envutil.Seconds("REQUEST_TIMEOUT", 120*time.Second),
		ShutdownTimeout:  envutil.Seconds("SHUTDOWN_TIMEOUT", 15*time.Second),

		OtelServiceName: envutil.String("OTEL_SERVICE_NAME", "learnhub-backend"),
	}
	if cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY not set; using the insecure default")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "8080"
	}
	return cfg
}

func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
