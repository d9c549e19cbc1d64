// Package plaintext extracts text from plain text files.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text files. Decoding tries UTF-8 first and falls
// back to Latin-1 so no file is dropped purely for an encoding mismatch.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name identifies the extractor in logs.
func (e *Extractor) Name() string { return "plaintext" }

var mimeTypes = []string{
	"text/plain",
	"text/txt",
	"application/txt",
}

var extensions = []string{".txt", ".text", ".md", ".log"}

// CanExtract reports whether the file is plain text, by MIME type first,
// then filename extension.
func (e *Extractor) CanExtract(mimeType, filename string) bool {
	for _, m := range mimeTypes {
		if mimeType == m {
			return true
		}
	}
	lower := strings.ToLower(filename)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Extract decodes the content to text.
func (e *Extractor) Extract(_ context.Context, content []byte, filename string) (string, error) {
	text, err := Decode(content, filename)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Decode converts raw bytes to a string using the two-stage policy:
// UTF-8 when valid, otherwise a permissive Latin-1 fallback. Latin-1 maps
// every byte, so decoding itself never fails.
func Decode(content []byte, filename string) (string, error) {
	if utf8.Valid(content) {
		return string(content), nil
	}

	logger.Warn("Used latin-1 fallback for %s", filename)
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
