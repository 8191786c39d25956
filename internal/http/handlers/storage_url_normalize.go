package handlers

import (
	"strings"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/storage"
)

// resolveBucketBackedURL prefers the bucket's current public URL for key, so
// rows written before a base URL change still point at the right place.
func resolveBucketBackedURL(
	bucket storage.BucketService,
	category storage.BucketCategory,
	storageKey string,
	currentURL string,
) string {
	key := strings.TrimSpace(storageKey)
	if bucket == nil || key == "" {
		return strings.TrimSpace(currentURL)
	}
	resolved := strings.TrimSpace(bucket.GetPublicURL(category, key))
	if resolved == "" {
		return strings.TrimSpace(currentURL)
	}
	return resolved
}

func normalizeVersionURL(bucket storage.BucketService, v *types.ResourceVersion) {
	if v == nil {
		return
	}
	v.FileURL = resolveBucketBackedURL(bucket, storage.BucketCategoryResource, v.StorageKey, v.FileURL)
}

func normalizeResourceURLs(bucket storage.BucketService, r *types.Resource) {
	if r == nil {
		return
	}
	for i := range r.Versions {
		normalizeVersionURL(bucket, &r.Versions[i])
	}
}

func normalizeSubmissionURL(bucket storage.BucketService, s *types.HomeworkSubmission) {
	if s == nil {
		return
	}
	s.FileURL = resolveBucketBackedURL(bucket, storage.BucketCategorySubmission, s.StorageKey, s.FileURL)
}
