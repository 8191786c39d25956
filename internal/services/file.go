package services

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/platform/storage"
)

const DefaultMaxUploadBytes int64 = 50 << 20

// FileUpload is an incoming multipart file.
type FileUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// StoredFile describes a blob after it was written to the bucket.
// Data keeps the uploaded bytes for callers that post-process them.
type StoredFile struct {
	Key          string
	URL          string
	OriginalName string
	Mime         string
	Size         int64
	Data         []byte
}

type FileService interface {
	// Read buffers the upload without storing it.
	Read(up *FileUpload) ([]byte, string, error)
	Store(dbc dbctx.Context, category storage.BucketCategory, prefix string, up *FileUpload) (*StoredFile, error)
	// Fetch reads a stored blob back, capped like uploads.
	Fetch(dbc dbctx.Context, category storage.BucketCategory, key string) ([]byte, error)
	// Delete removes blobs best-effort; failures are logged, not returned.
	Delete(dbc dbctx.Context, category storage.BucketCategory, keys ...string)
}

type fileService struct {
	log           *logger.Logger
	bucketService storage.BucketService
	maxBytes      int64
}

func NewFileService(baseLog *logger.Logger, bucketService storage.BucketService, maxBytes int64) FileService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &fileService{
		log:           baseLog.With("service", "FileService"),
		bucketService: bucketService,
		maxBytes:      maxBytes,
	}
}

func (fs *fileService) Read(up *FileUpload) ([]byte, string, error) {
	if up == nil || up.Reader == nil {
		return nil, "", apierr.BadRequest("file_required", fmt.Errorf("file is required"))
	}
	data, err := io.ReadAll(io.LimitReader(up.Reader, fs.maxBytes+1))
	if err != nil {
		return nil, "", apierr.BadRequest("file_unreadable", fmt.Errorf("read upload: %w", err))
	}
	if int64(len(data)) > fs.maxBytes {
		return nil, "", apierr.New(http.StatusRequestEntityTooLarge, "file_too_large", fmt.Errorf("file exceeds %d bytes", fs.maxBytes))
	}
	return data, DetectMime(up.ContentType, data), nil
}

func (fs *fileService) Store(dbc dbctx.Context, category storage.BucketCategory, prefix string, up *FileUpload) (*StoredFile, error) {
	data, mime, err := fs.Read(up)
	if err != nil {
		return nil, err
	}
	name := cleanFilename(up.Filename)
	key := storage.ObjectKey(prefix, uuid.New().String(), name)
	if err := fs.bucketService.UploadFile(dbc, category, key, bytes.NewReader(data), mime); err != nil {
		fs.log.Error("Blob upload failed", "category", category, "key", key, "error", err)
		return nil, apierr.Internal("storage_upload_failed", err)
	}
	return &StoredFile{
		Key:          key,
		URL:          fs.bucketService.GetPublicURL(category, key),
		OriginalName: name,
		Mime:         mime,
		Size:         int64(len(data)),
		Data:         data,
	}, nil
}

func (fs *fileService) Fetch(dbc dbctx.Context, category storage.BucketCategory, key string) ([]byte, error) {
	if key == "" {
		return nil, apierr.NotFound("file_not_found")
	}
	rc, err := fs.bucketService.DownloadFile(dbc.Ctx, category, key)
	if err != nil {
		fs.log.Warn("Blob download failed", "category", category, "key", key, "error", err)
		return nil, apierr.NotFound("file_not_found")
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, fs.maxBytes+1))
	if err != nil {
		return nil, apierr.Internal("storage_read_failed", err)
	}
	if int64(len(data)) > fs.maxBytes {
		return nil, apierr.New(http.StatusRequestEntityTooLarge, "file_too_large", fmt.Errorf("file exceeds %d bytes", fs.maxBytes))
	}
	return data, nil
}

func (fs *fileService) Delete(dbc dbctx.Context, category storage.BucketCategory, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := fs.bucketService.DeleteFile(dbc, category, key); err != nil {
			fs.log.Warn("Blob delete failed", "category", category, "key", key, "error", err)
		}
	}
}

func cleanFilename(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	name = path.Base(name)
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
