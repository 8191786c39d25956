package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type localBucket struct {
	log     *logger.Logger
	root    string
	baseURL string
}

// NewLocalBucket writes objects under root/<category>/<key>.
func NewLocalBucket(log *logger.Logger, root string, baseURL string) (BucketService, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	if baseURL == "" {
		baseURL = "/media"
	}
	log.Info("Object storage initialized", "mode", ObjectStorageModeLocal, "dir", abs)
	return &localBucket{log: log.With("service", "LocalBucket"), root: abs, baseURL: baseURL}, nil
}

func (b *localBucket) pathFor(category BucketCategory, key string) string {
	return filepath.Join(b.root, string(category), filepath.FromSlash(ObjectKey(key)))
}

func (b *localBucket) UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader, contentType string) error {
	p := b.pathFor(category, key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("create object: %w", err)
	}
	if _, err := io.Copy(f, file); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return fmt.Errorf("write object: %w", err)
	}
	return f.Close()
}

func (b *localBucket) DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error {
	if err := os.Remove(b.pathFor(category, key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}

func (b *localBucket) DeletePrefix(ctx context.Context, category BucketCategory, prefix string) error {
	dir := filepath.Join(b.root, string(category), filepath.FromSlash(ObjectKey(prefix)))
	if dir == filepath.Join(b.root, string(category)) {
		return fmt.Errorf("refusing to delete whole %s category", category)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("delete prefix %q: %w", prefix, err)
	}
	return nil
}

func (b *localBucket) DownloadFile(ctx context.Context, category BucketCategory, key string) (io.ReadCloser, error) {
	f, err := os.Open(b.pathFor(category, key))
	if err != nil {
		return nil, fmt.Errorf("open object %q: %w", key, err)
	}
	return f, nil
}

func (b *localBucket) GetPublicURL(category BucketCategory, key string) string {
	return joinURL(b.baseURL, category, ObjectKey(key))
}
