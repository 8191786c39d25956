package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/envutil"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type bucketConfig struct {
	name      string
	cdnDomain string
}

type gcsBucket struct {
	log              *logger.Logger
	client           *storage.Client
	mode             ObjectStorageMode
	emulatorHost     string
	publicBaseURL    string
	resourceBucket   bucketConfig
	submissionBucket bucketConfig
}

func NewGCSBucket(ctx context.Context, log *logger.Logger, cfg Config) (BucketService, error) {
	serviceLog := log.With("service", "BucketService")

	client, err := newStorageClientForMode(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	submissionBucket := cfg.SubmissionBucket
	if submissionBucket == "" {
		submissionBucket = cfg.ResourceBucket
	}
	publicBase := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if publicBase == "" && cfg.Mode == ObjectStorageModeGCSEmulator {
		publicBase = strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")
	}

	serviceLog.Info(
		"Object storage initialized",
		"mode", cfg.Mode,
		"emulator_host", cfg.EmulatorHost,
		"public_base_url", publicBase,
		"resource_bucket", cfg.ResourceBucket,
		"submission_bucket", submissionBucket,
	)

	return &gcsBucket{
		log:           serviceLog,
		client:        client,
		mode:          cfg.Mode,
		emulatorHost:  strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/"),
		publicBaseURL: publicBase,
		resourceBucket: bucketConfig{
			name:      cfg.ResourceBucket,
			cdnDomain: envutil.String("RESOURCE_CDN_DOMAIN", ""),
		},
		submissionBucket: bucketConfig{
			name:      submissionBucket,
			cdnDomain: envutil.String("SUBMISSION_CDN_DOMAIN", ""),
		},
	}, nil
}

func newStorageClientForMode(ctx context.Context, cfg Config) (*storage.Client, error) {
	switch cfg.Mode {
	case ObjectStorageModeGCS:
		opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
		if credPath := envutil.String("GOOGLE_APPLICATION_CREDENTIALS", ""); credPath != "" {
			opts = append(opts, option.WithCredentialsFile(credPath))
		}
		return storage.NewClient(ctx, opts...)
	case ObjectStorageModeGCSEmulator:
		// The storage client reads the emulator endpoint from the environment.
		_ = os.Setenv("STORAGE_EMULATOR_HOST", strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/"))
		return storage.NewClient(ctx, option.WithoutAuthentication())
	default:
		return nil, fmt.Errorf("object storage mode %q is not a GCS mode", cfg.Mode)
	}
}

func (bs *gcsBucket) getBucketConfig(category BucketCategory) (bucketConfig, error) {
	switch category {
	case BucketCategoryResource:
		return bs.resourceBucket, nil
	case BucketCategorySubmission:
		return bs.submissionBucket, nil
	default:
		return bucketConfig{}, fmt.Errorf("unknown bucket category: %s", category)
	}
}

func (bs *gcsBucket) UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader, contentType string) error {
	cfg, err := bs.getBucketConfig(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctxOrBackground(dbc.Ctx), 2*time.Minute)
	defer cancel()

	w := bs.client.Bucket(cfg.name).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (bs *gcsBucket) DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error {
	cfg, err := bs.getBucketConfig(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctxOrBackground(dbc.Ctx), 30*time.Second)
	defer cancel()
	if err := bs.client.Bucket(cfg.name).Object(key).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, cfg.name, err)
	}
	return nil
}

func (bs *gcsBucket) DeletePrefix(ctx context.Context, category BucketCategory, prefix string) error {
	cfg, err := bs.getBucketConfig(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctxOrBackground(ctx), 30*time.Second)
	defer cancel()
	it := bs.client.Bucket(cfg.name).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("list %q: %w", prefix, err)
		}
		if err := bs.client.Bucket(cfg.name).Object(attrs.Name).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			bs.log.Warn("Failed to delete object under prefix", "key", attrs.Name, "error", err)
		}
	}
}

// readCloserWithCancel keeps the download context alive until the caller closes the reader.
type readCloserWithCancel struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *readCloserWithCancel) Close() error {
	err := r.ReadCloser.Close()
	if r.cancel != nil {
		r.cancel()
	}
	return err
}

func (bs *gcsBucket) DownloadFile(ctx context.Context, category BucketCategory, key string) (io.ReadCloser, error) {
	cfg, err := bs.getBucketConfig(category)
	if err != nil {
		return nil, err
	}
	ctx2, cancel := context.WithTimeout(ctxOrBackground(ctx), 2*time.Minute)
	r, err := bs.client.Bucket(cfg.name).Object(key).NewReader(ctx2)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open GCS reader: %w", err)
	}
	return &readCloserWithCancel{ReadCloser: r, cancel: cancel}, nil
}

func (bs *gcsBucket) GetPublicURL(category BucketCategory, key string) string {
	cfg, err := bs.getBucketConfig(category)
	if err != nil {
		return key
	}
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if cfg.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", cfg.cdnDomain, key)
	}
	if bs.mode == ObjectStorageModeGCSEmulator && bs.publicBaseURL != "" {
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", bs.publicBaseURL, url.PathEscape(cfg.name), url.PathEscape(key))
	}
	if bs.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", bs.publicBaseURL, cfg.name, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", cfg.name, key)
}

func ctxOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// Close releases the underlying storage client.
func (bs *gcsBucket) Close() error {
	if bs == nil || bs.client == nil {
		return nil
	}
	return bs.client.Close()
}
