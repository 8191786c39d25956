package handlers

import (
	"testing"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/storage"
)

func TestResolveBucketBackedURL(t *testing.T) {
	b := storage.NewMemoryBucket("https://cdn.example.com")

	if got := resolveBucketBackedURL(b, storage.BucketCategoryResource, "resources/r/1.pdf", "http://old/url.pdf"); got != "https://cdn.example.com/resource/resources/r/1.pdf" {
		t.Fatalf("resolveBucketBackedURL (bucket): got=%q", got)
	}

	if got := resolveBucketBackedURL(nil, storage.BucketCategoryResource, "resources/r/1.pdf", " http://old/url.pdf "); got != "http://old/url.pdf" {
		t.Fatalf("resolveBucketBackedURL (no bucket): got=%q", got)
	}

	if got := resolveBucketBackedURL(b, storage.BucketCategoryResource, "", " http://old/url.pdf "); got != "http://old/url.pdf" {
		t.Fatalf("resolveBucketBackedURL (no key): got=%q", got)
	}
}

func TestNormalizeResourceAndSubmissionURLs(t *testing.T) {
	b := storage.NewMemoryBucket("https://cdn.example.com")

	r := &types.Resource{Versions: []types.ResourceVersion{
		{StorageKey: "k1", FileURL: "stale"},
		{FileURL: "kept"},
	}}
	normalizeResourceURLs(b, r)
	if r.Versions[0].FileURL != "https://cdn.example.com/resource/k1" {
		t.Fatalf("version 0 url: got=%q", r.Versions[0].FileURL)
	}
	if r.Versions[1].FileURL != "kept" {
		t.Fatalf("version 1 url: got=%q", r.Versions[1].FileURL)
	}

	s := &types.HomeworkSubmission{StorageKey: "s1"}
	normalizeSubmissionURL(b, s)
	if s.FileURL != "https://cdn.example.com/submission/s1" {
		t.Fatalf("submission url: got=%q", s.FileURL)
	}
	normalizeSubmissionURL(b, nil)
}
