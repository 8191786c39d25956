package app

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/platform/storage"
)

func TestCheckStorageConfigCodes(t *testing.T) {
	cases := []struct {
		name string
		cfg  storage.Config
		want StorageProviderBootstrapErrorCode
	}{
		{"invalid mode", storage.Config{Mode: "bad-mode"}, StorageProviderBootstrapErrorInvalidMode},
		{"local without dir", storage.Config{Mode: storage.ObjectStorageModeLocal}, StorageProviderBootstrapErrorMissingLocalDir},
		{"gcs without bucket", storage.Config{Mode: storage.ObjectStorageModeGCS}, StorageProviderBootstrapErrorMissingBucket},
		{
			"emulator bad host",
			storage.Config{Mode: storage.ObjectStorageModeGCSEmulator, ResourceBucket: "b", EmulatorHost: "fake-gcs:4443"},
			StorageProviderBootstrapErrorInvalidEmulatorHost,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := checkStorageConfig(tc.cfg)
			if got == nil {
				t.Fatalf("checkStorageConfig: expected error, got nil")
			}
			if got.Code != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, got.Code)
			}
		})
	}

	if err := checkStorageConfig(storage.Config{Mode: storage.ObjectStorageModeMemory}); err != nil {
		t.Fatalf("memory mode: unexpected error %v", err)
	}
}

func TestClassifyStorageProviderBootstrapErrorConnectFailed(t *testing.T) {
	cfg := storage.Config{Mode: storage.ObjectStorageModeGCS, ResourceBucket: "learnhub"}
	srcErr := errors.New("dial tcp: connection refused")

	err := classifyStorageProviderBootstrapError(cfg, srcErr)

	var got *StorageProviderBootstrapError
	if !errors.As(err, &got) {
		t.Fatalf("expected StorageProviderBootstrapError, got=%T", err)
	}
	if got.Code != StorageProviderBootstrapErrorConnectFailed {
		t.Fatalf("code: want=%q got=%q", StorageProviderBootstrapErrorConnectFailed, got.Code)
	}
	if !errors.Is(err, srcErr) {
		t.Fatalf("cause not preserved: %v", err)
	}
}

func TestResolveBucketServiceInvalidMode(t *testing.T) {
	log := testutil.Logger(t)

	_, err := resolveBucketService(context.Background(), log, storage.Config{Mode: "invalid"})
	if err == nil {
		t.Fatalf("resolveBucketService: expected error, got nil")
	}
	if code := storageProviderBootstrapErrorCode(err); code != StorageProviderBootstrapErrorInvalidMode {
		t.Fatalf("code: want=%q got=%q", StorageProviderBootstrapErrorInvalidMode, code)
	}
}

func TestResolveBucketServiceGCSMode(t *testing.T) {
	log := testutil.Logger(t)

	orig := newBucketService
	t.Cleanup(func() {
		newBucketService = orig
	})

	var captured storage.Config
	expected := storage.NewMemoryBucket("")
	newBucketService = func(_ context.Context, _ *logger.Logger, cfg storage.Config) (storage.BucketService, error) {
		captured = cfg
		return expected, nil
	}

	got, err := resolveBucketService(context.Background(), log, storage.Config{
		Mode:           "GCS",
		ResourceBucket: "learnhub-resources",
	})
	if err != nil {
		t.Fatalf("resolveBucketService: %v", err)
	}
	if got != expected {
		t.Fatalf("bucket: expected stub bucket instance")
	}
	if captured.Mode != storage.ObjectStorageModeGCS {
		t.Fatalf("mode: want=%q got=%q", storage.ObjectStorageModeGCS, captured.Mode)
	}
}

func TestResolveBucketServiceConnectFailure(t *testing.T) {
	log := testutil.Logger(t)

	orig := newBucketService
	t.Cleanup(func() {
		newBucketService = orig
	})
	newBucketService = func(context.Context, *logger.Logger, storage.Config) (storage.BucketService, error) {
		return nil, errors.New("credentials not found")
	}

	_, err := resolveBucketService(context.Background(), log, storage.Config{
		Mode:           storage.ObjectStorageModeGCSEmulator,
		ResourceBucket: "learnhub-resources",
		EmulatorHost:   "http://fake-gcs:4443",
	})
	if code := storageProviderBootstrapErrorCode(err); code != StorageProviderBootstrapErrorConnectFailed {
		t.Fatalf("code: want=%q got=%q (%v)", StorageProviderBootstrapErrorConnectFailed, code, err)
	}
}
