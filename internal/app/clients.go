package app

import (
	"context"
	"fmt"

	rediscache "github.com/yungbote/learnhub-backend/internal/clients/redis"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/platform/storage"
)

type Clients struct {
	Bucket storage.BucketService
	Cache  rediscache.Cache
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	bucket, err := resolveBucketService(ctx, log, cfg.Storage)
	if err != nil {
		return Clients{}, fmt.Errorf("init bucket client: %w", err)
	}

	cache, err := rediscache.NewCache(log)
	if err != nil {
		log.Warn("Redis unavailable; using in-memory cache", "error", err)
		cache = rediscache.NewMemoryCache()
	}

	return Clients{
		Bucket: bucket,
		Cache:  cache,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if closer, ok := c.Bucket.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}
