// Package ocr extracts text from images via a locally installed tesseract
// binary. The extractor is availability-gated: when tesseract is not on the
// PATH it claims no files at all.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles image files through tesseract OCR.
type Extractor struct {
	binary string
}

// New creates a new OCR extractor, probing the PATH for tesseract.
func New() *Extractor {
	bin, err := exec.LookPath("tesseract")
	if err != nil {
		logger.Warn("Tesseract OCR not found; image extraction disabled")
		return &Extractor{}
	}
	return &Extractor{binary: bin}
}

// Available reports whether tesseract was found.
func (e *Extractor) Available() bool {
	return e.binary != ""
}

// Name identifies the extractor in logs.
func (e *Extractor) Name() string { return "ocr" }

var mimeTypes = []string{
	"image/png",
	"image/jpeg",
	"image/jpg",
	"image/tiff",
	"image/bmp",
}

var extensions = []string{".png", ".jpg", ".jpeg", ".tiff", ".bmp"}

// CanExtract reports whether the file is an image and tesseract is available.
func (e *Extractor) CanExtract(mimeType, filename string) bool {
	if !e.Available() {
		return false
	}
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

// Extract runs tesseract over the image and returns the recognised text.
func (e *Extractor) Extract(ctx context.Context, content []byte, filename string) (string, error) {
	if !e.Available() {
		return "", fmt.Errorf("tesseract not installed")
	}

	// tesseract reads from a file, not stdin, for most image formats
	tmp, err := os.CreateTemp("", "docsync-ocr-*"+filepath.Ext(filename))
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp image: %w", err)
	}
	tmp.Close()

	var out, errOut bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, tmp.Name(), "stdout")
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(errOut.String()))
	}

	text := normalise(out.String())
	if text == "" {
		logger.Warn("No text extracted from image %s", filename)
	}
	return text, nil
}

// normalise trims blank lines from the OCR output.
func normalise(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}
