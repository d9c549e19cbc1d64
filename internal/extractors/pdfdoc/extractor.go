// Package pdfdoc extracts text from PDF documents.
package pdfdoc

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF files.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name identifies the extractor in logs.
func (e *Extractor) Name() string { return "pdf" }

var mimeTypes = []string{
	"application/pdf",
	"application/x-pdf",
}

// CanExtract reports whether the file is a PDF.
func (e *Extractor) CanExtract(mimeType, filename string) bool {
	for _, m := range mimeTypes {
		if mimeType == m {
			return true
		}
	}
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

// Extract pulls plain text page by page. Pages that fail individually are
// skipped; a document where the reader cannot open at all is an error.
func (e *Extractor) Extract(ctx context.Context, content []byte, filename string) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var parts []string
	total := reader.NumPage()

	for pageNum := 1; pageNum <= total; pageNum++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Debug("Page %d of %s: extraction failed: %v", pageNum, filename, err)
			continue
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, strings.TrimSpace(text))
		}
	}

	if len(parts) == 0 {
		logger.Warn("No text extracted from PDF %s (might be image-based)", filename)
		return "", nil
	}

	return strings.Join(parts, "\n"), nil
}
