package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// Extractor turns an uploaded document into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// PDFExtractor reads the text layer of each page and joins pages with "\n".
// Pages without a text layer contribute an empty line.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

func (PDFExtractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file")
	}
	if !isPDF(data) {
		return "", fmt.Errorf("missing %%PDF header (head=%q)", firstBytes(data, 8))
	}
	// The pdf reader panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	n := r.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if ctx != nil && ctx.Err() != nil {
			return "", ctx.Err()
		}
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		s, perr := p.GetPlainText(nil)
		if perr != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, s)
	}
	return strings.Join(pages, "\n"), nil
}

// IsPDFMime reports whether the MIME type names a PDF.
func IsPDFMime(mime string) bool {
	return strings.Contains(strings.ToLower(mime), "pdf")
}

// DetectMime returns the declared content type, falling back to sniffing the bytes.
func DetectMime(declared string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if isPDF(data) {
		return "application/pdf"
	}
	if len(data) == 0 {
		return "application/octet-stream"
	}
	return http.DetectContentType(data)
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func firstBytes(b []byte, n int) string {
	if len(b) < n {
		n = len(b)
	}
	return string(b[:n])
}
