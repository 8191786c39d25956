package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/db"
	"github.com/yungbote/learnhub-backend/internal/http"
	"github.com/yungbote/learnhub-backend/internal/observability"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics
	Server   *http.Server

	otelShutdown func(context.Context) error
}

// New builds the API from the environment: logger, .env, config, tracing,
// metrics, database and object storage.
func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	LoadDotEnv(log)
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfigFromEnv(cfg.OtelServiceName, cfg.Env, cfg.Version))
	metrics := observability.Init(log)

	theDB, err := db.Open(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}

	a, err := assemble(ctx, log, cfg, theDB, metrics)
	if err != nil {
		log.Sync()
		return nil, err
	}
	a.otelShutdown = otelShutdown
	return a, nil
}

// assemble wires clients, repos, services and the HTTP server around an open database.
func assemble(ctx context.Context, log *logger.Logger, cfg Config, theDB *gorm.DB, metrics *observability.Metrics) (*App, error) {
	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		return nil, err
	}
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients, metrics)
	handlerset := wireHandlers(log, serviceset, clients, dbPinger{db: theDB})
	middleware := wireMiddleware(log, serviceset)
	server := http.NewServer(cfg.Addr(), routerConfig(log, cfg, handlerset, middleware, metrics))

	return &App{
		Log:      log,
		DB:       theDB,
		Cfg:      cfg,
		Clients:  clients,
		Repos:    reposet,
		Services: serviceset,
		Metrics:  metrics,
		Server:   server,
	}, nil
}

// Run serves HTTP until ctx is cancelled or the listener fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	a.Metrics.StartDBPoolCollector(gctx, a.DB, a.Log)

	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.Addr())
		return a.Server.Run(gctx, a.Cfg.ShutdownTimeout)
	})
	if a.Cfg.TokenPurgeInterval > 0 {
		g.Go(func() error {
			a.purgeTokens(gctx, a.Cfg.TokenPurgeInterval)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		if a.otelShutdown == nil {
			return nil
		}
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(flushCtx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		return nil
	})
	return g.Wait()
}

// purgeTokens deletes expired token pairs every interval until ctx ends.
// Failures are logged and retried on the next tick.
func (a *App) purgeTokens(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := a.Services.Auth.PurgeExpiredTokens(ctx); err != nil && ctx.Err() == nil {
				a.Log.Warn("Token purge failed", "error", err)
			}
		}
	}
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

type dbPinger struct {
	db *gorm.DB
}

func (p dbPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
