package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/learnhub-backend/internal/platform/envutil"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

// ErrCacheMiss is returned by GetJSON when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

type redisCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

// NewCache connects to REDIS_ADDR. With no address configured it returns an in-process cache.
func NewCache(log *logger.Logger) (Cache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := envutil.String("REDIS_ADDR", "")
	if addr == "" {
		log.Info("REDIS_ADDR not set; using in-memory cache")
		return NewMemoryCache(), nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    envutil.String("REDIS_PASSWORD", ""),
		DB:          envutil.Int("REDIS_DB", 0),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewCacheFromClient(log, rdb, envutil.String("REDIS_KEY_PREFIX", "learnhub:")), nil
}

func NewCacheFromClient(log *logger.Logger, rdb *goredis.Client, prefix string) Cache {
	return &redisCache{
		log:    log.With("service", "RedisCache"),
		rdb:    rdb,
		prefix: prefix,
	}
}

func (c *redisCache) key(k string) string { return c.prefix + k }

func (c *redisCache) GetJSON(ctx context.Context, key string, dst any) error {
	raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	return json.Unmarshal(raw, dst)
}

func (c *redisCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(key), raw, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, c.key(k))
	}
	return c.rdb.Del(ctx, full...).Err()
}

func (c *redisCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() Cache {
	return &memoryCache{entries: map[string]memoryEntry{}, now: time.Now}
}

func (c *memoryCache) GetJSON(ctx context.Context, key string, dst any) error {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(e.raw, dst)
}

func (c *memoryCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	e := memoryEntry{raw: raw}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[strings.TrimSpace(key)] = e
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Close() error { return nil }
