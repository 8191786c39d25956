package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/platform/storage"
)

var newBucketService = storage.NewBucketService

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingBucket       StorageProviderBootstrapErrorCode = "missing_bucket"
	StorageProviderBootstrapErrorMissingLocalDir     StorageProviderBootstrapErrorCode = "missing_local_dir"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveBucketService validates the storage config and opens the bucket,
// classifying failures so startup logs say which setting is wrong.
func resolveBucketService(ctx context.Context, log *logger.Logger, cfg storage.Config) (storage.BucketService, error) {
	cfg.Mode = storage.ObjectStorageMode(strings.ToLower(strings.TrimSpace(string(cfg.Mode))))
	if err := checkStorageConfig(cfg); err != nil {
		log.Error(
			"Object storage provider selection failed",
			"mode", cfg.Mode,
			"emulator_host", cfg.EmulatorHost,
			"error_code", err.Code,
			"error", err,
		)
		return nil, err
	}

	log.Info("Selecting object storage provider", "mode", cfg.Mode, "emulator_host", cfg.EmulatorHost)

	bucket, err := newBucketService(ctx, log, cfg)
	if err != nil {
		classified := classifyStorageProviderBootstrapError(cfg, err)
		log.Error(
			"Object storage provider bootstrap failed",
			"mode", cfg.Mode,
			"emulator_host", cfg.EmulatorHost,
			"error_code", storageProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}
	return bucket, nil
}

func checkStorageConfig(cfg storage.Config) *StorageProviderBootstrapError {
	fail := func(code StorageProviderBootstrapErrorCode, cause error) *StorageProviderBootstrapError {
		return &StorageProviderBootstrapError{
			Code:         code,
			Mode:         string(cfg.Mode),
			EmulatorHost: cfg.EmulatorHost,
			Cause:        cause,
		}
	}
	switch cfg.Mode {
	case storage.ObjectStorageModeMemory:
	case storage.ObjectStorageModeLocal:
		if strings.TrimSpace(cfg.LocalDir) == "" {
			return fail(StorageProviderBootstrapErrorMissingLocalDir, errors.New("LOCAL_STORAGE_DIR is empty"))
		}
	case storage.ObjectStorageModeGCS, storage.ObjectStorageModeGCSEmulator:
		if strings.TrimSpace(cfg.ResourceBucket) == "" {
			return fail(StorageProviderBootstrapErrorMissingBucket, errors.New("RESOURCE_GCS_BUCKET_NAME is empty"))
		}
		if cfg.Mode == storage.ObjectStorageModeGCSEmulator {
			u, err := url.Parse(cfg.EmulatorHost)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fail(StorageProviderBootstrapErrorInvalidEmulatorHost, fmt.Errorf("invalid STORAGE_EMULATOR_HOST %q", cfg.EmulatorHost))
			}
		}
	default:
		return fail(StorageProviderBootstrapErrorInvalidMode, fmt.Errorf("unsupported object storage mode %q", cfg.Mode))
	}
	return nil
}

func classifyStorageProviderBootstrapError(cfg storage.Config, err error) error {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) {
		return err
	}
	if cfgErr := checkStorageConfig(cfg); cfgErr != nil {
		cfgErr.Cause = err
		return cfgErr
	}
	return &StorageProviderBootstrapError{
		Code:         StorageProviderBootstrapErrorConnectFailed,
		Mode:         string(cfg.Mode),
		EmulatorHost: cfg.EmulatorHost,
		Cause:        err,
	}
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) {
		if bootstrapErr.Code != "" {
			return bootstrapErr.Code
		}
	}
	return StorageProviderBootstrapErrorConnectFailed
}
