package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
)

// MemoryBucket keeps objects in process memory. Used by tests and OBJECT_STORAGE_MODE=memory.
type MemoryBucket struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
}

func NewMemoryBucket(baseURL string) *MemoryBucket {
	if baseURL == "" {
		baseURL = "memory://objects"
	}
	return &MemoryBucket{objects: map[string][]byte{}, baseURL: baseURL}
}

func memKey(category BucketCategory, key string) string {
	return string(category) + "/" + ObjectKey(key)
}

func (m *MemoryBucket) UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader, contentType string) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	m.mu.Lock()
	m.objects[memKey(category, key)] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryBucket) DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error {
	m.mu.Lock()
	delete(m.objects, memKey(category, key))
	m.mu.Unlock()
	return nil
}

func (m *MemoryBucket) DeletePrefix(ctx context.Context, category BucketCategory, prefix string) error {
	p := memKey(category, prefix)
	m.mu.Lock()
	for k := range m.objects {
		if strings.HasPrefix(k, p) {
			delete(m.objects, k)
		}
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryBucket) DownloadFile(ctx context.Context, category BucketCategory, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	data, ok := m.objects[memKey(category, key)]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MemoryBucket) GetPublicURL(category BucketCategory, key string) string {
	return joinURL(m.baseURL, category, ObjectKey(key))
}

// Len reports the number of stored objects.
func (m *MemoryBucket) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
