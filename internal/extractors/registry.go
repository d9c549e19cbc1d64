// Package extractors provides the capability-dispatch registry that picks
// one text extractor per file, plus the built-in extractor set.
package extractors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/extractors/csvdoc"
	"github.com/custodia-labs/docsync/internal/extractors/docxdoc"
	"github.com/custodia-labs/docsync/internal/extractors/ocr"
	"github.com/custodia-labs/docsync/internal/extractors/pdfdoc"
	"github.com/custodia-labs/docsync/internal/extractors/plaintext"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry holds an ordered sequence of extractors. The first extractor
// whose predicate accepts (mimeType, filename) wins; registration order is
// a deliberate priority and must stay stable for deterministic dispatch.
type Registry struct {
	extractors []driven.Extractor
}

// NewRegistry creates a registry with the given extractors, in priority order.
func NewRegistry(exts ...driven.Extractor) *Registry {
	return &Registry{extractors: exts}
}

// Default builds the built-in extractor set: plain text, CSV, PDF, DOCX,
// and optionally image OCR when enabled and the tesseract binary is present.
func Default(enableOCR bool) *Registry {
	exts := []driven.Extractor{
		plaintext.New(),
		csvdoc.New(),
		pdfdoc.New(),
		docxdoc.New(),
	}

	if enableOCR {
		img := ocr.New()
		if img.Available() {
			exts = append(exts, img)
			logger.Info("Image OCR extractor enabled")
		} else {
			logger.Warn("Image OCR requested but tesseract not available")
		}
	}

	return NewRegistry(exts...)
}

// Match returns the first extractor claiming the file, or nil.
func (r *Registry) Match(mimeType, filename string) driven.Extractor {
	for _, e := range r.extractors {
		if e.CanExtract(mimeType, filename) {
			return e
		}
	}
	return nil
}

// Supported reports whether any extractor claims the file.
func (r *Registry) Supported(mimeType, filename string) bool {
	return r.Match(mimeType, filename) != nil
}

// Extract dispatches to the matching extractor and runs it. All extractor
// faults are caught here and classified: callers see ErrUnsupportedType or
// a wrapped ErrExtractionFailed, never a raw decoder fault.
func (r *Registry) Extract(ctx context.Context, content []byte, mimeType, filename string) (text string, err error) {
	e := r.Match(mimeType, filename)
	if e == nil {
		logger.Warn("No extractor found for %s (MIME: %s)", filename, mimeType)
		return "", domain.ErrUnsupportedType
	}

	// Some decoders fault on corrupt input instead of returning an error.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: %s: decoder fault: %v", domain.ErrExtractionFailed, e.Name(), rec)
		}
	}()

	logger.Debug("Selected %s extractor for %s", e.Name(), filename)

	text, err = e.Extract(ctx, content, filename)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, e.Name(), err)
	}
	return text, nil
}
