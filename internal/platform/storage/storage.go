package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/envutil"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type BucketCategory string

const (
	BucketCategoryResource   BucketCategory = "resource"
	BucketCategorySubmission BucketCategory = "submission"
)

// BucketService stores uploaded blobs. Serving them back is left to the bucket/CDN.
type BucketService interface {
	UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader, contentType string) error
	DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error
	DeletePrefix(ctx context.Context, category BucketCategory, prefix string) error
	DownloadFile(ctx context.Context, category BucketCategory, key string) (io.ReadCloser, error)
	GetPublicURL(category BucketCategory, key string) string
}

type ObjectStorageMode string

const (
	ObjectStorageModeLocal       ObjectStorageMode = "local"
	ObjectStorageModeMemory      ObjectStorageMode = "memory"
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

type Config struct {
	Mode             ObjectStorageMode
	LocalDir         string
	PublicBaseURL    string
	EmulatorHost     string
	ResourceBucket   string
	SubmissionBucket string
}

func ConfigFromEnv() Config {
	return Config{
		Mode:             ObjectStorageMode(strings.ToLower(envutil.String("OBJECT_STORAGE_MODE", string(ObjectStorageModeLocal)))),
		LocalDir:         envutil.String("LOCAL_STORAGE_DIR", "./media"),
		PublicBaseURL:    envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", ""),
		EmulatorHost:     envutil.String("STORAGE_EMULATOR_HOST", ""),
		ResourceBucket:   envutil.String("RESOURCE_GCS_BUCKET_NAME", ""),
		SubmissionBucket: envutil.String("SUBMISSION_GCS_BUCKET_NAME", ""),
	}
}

func (cfg Config) Validate() error {
	switch cfg.Mode {
	case ObjectStorageModeLocal:
		if strings.TrimSpace(cfg.LocalDir) == "" {
			return fmt.Errorf("OBJECT_STORAGE_MODE=local requires LOCAL_STORAGE_DIR")
		}
	case ObjectStorageModeMemory:
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
		if cfg.ResourceBucket == "" {
			return fmt.Errorf("missing env var RESOURCE_GCS_BUCKET_NAME")
		}
		if cfg.Mode == ObjectStorageModeGCSEmulator {
			u, err := url.Parse(cfg.EmulatorHost)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", cfg.EmulatorHost)
			}
		}
	default:
		return fmt.Errorf("invalid OBJECT_STORAGE_MODE=%q (allowed: local, memory, gcs, gcs_emulator)", cfg.Mode)
	}
	return nil
}

// NewBucketService picks the backend for cfg.Mode.
func NewBucketService(ctx context.Context, log *logger.Logger, cfg Config) (BucketService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	switch cfg.Mode {
	case ObjectStorageModeMemory:
		return NewMemoryBucket(cfg.PublicBaseURL), nil
	case ObjectStorageModeLocal:
		return NewLocalBucket(log, cfg.LocalDir, cfg.PublicBaseURL)
	default:
		return NewGCSBucket(ctx, log, cfg)
	}
}

// ObjectKey builds a storage key from path segments, dropping anything that would escape the prefix.
func ObjectKey(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
		p = strings.Trim(path.Clean("/"+p), "/")
		if p == "" || p == "." {
			continue
		}
		clean = append(clean, p)
	}
	return strings.Join(clean, "/")
}

func joinURL(base string, category BucketCategory, key string) string {
	base = strings.TrimRight(base, "/")
	return base + "/" + string(category) + "/" + key
}
