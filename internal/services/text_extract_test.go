package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPDFExtractorRejectsNonPDF(t *testing.T) {
	text, err := NewPDFExtractor().Extract(context.Background(), []byte("hello world"))
	assert.Error(t, err)
	assert.Empty(t, text)
}

func TestPDFExtractorSurvivesCorruptBody(t *testing.T) {
	_, err := NewPDFExtractor().Extract(context.Background(), []byte("%PDF-1.7\nnot really a pdf"))
	assert.Error(t, err)
}

func TestDetectMime(t *testing.T) {
	cases := []struct {
		declared string
		data     string
		want     string
	}{
		{"application/pdf", "anything", "application/pdf"},
		{"", "%PDF-1.4 body", "application/pdf"},
		{"application/octet-stream", "%PDF-1.4 body", "application/pdf"},
		{"", "", "application/octet-stream"},
		{"", "plain words", "text/plain; charset=utf-8"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectMime(tc.declared, []byte(tc.data)), "declared=%q data=%q", tc.declared, tc.data)
	}
	assert.True(t, IsPDFMime("Application/PDF"))
	assert.False(t, IsPDFMime("image/png"))
}
