// Package csvdoc extracts searchable text from CSV files.
package csvdoc

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/extractors/plaintext"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor converts CSV rows to a searchable text format: a header line
// followed by one line per row.
type Extractor struct{}

// New creates a new CSV extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name identifies the extractor in logs.
func (e *Extractor) Name() string { return "csv" }

var mimeTypes = []string{
	"text/csv",
	"application/csv",
	"text/comma-separated-values",
	"application/vnd.ms-excel", // some stores label CSV exports with this
}

// CanExtract reports whether the file is a CSV file.
func (e *Extractor) CanExtract(mimeType, filename string) bool {
	for _, m := range mimeTypes {
		if mimeType == m {
			return true
		}
	}
	return strings.HasSuffix(strings.ToLower(filename), ".csv")
}

// Extract parses the CSV and renders headers plus row values.
func (e *Extractor) Extract(_ context.Context, content []byte, filename string) (string, error) {
	text, err := plaintext.Decode(content, filename)
	if err != nil {
		return "", err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1 // ragged rows are common in the wild
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		logger.Warn("Empty CSV file: %s", filename)
		return "", nil
	}

	var b strings.Builder
	b.WriteString("Headers: " + strings.Join(rows[0], ", "))

	for i, row := range rows[1:] {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			if cell != "" {
				cells = append(cells, cell)
			}
		}
		if len(cells) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("\nRow %d: %s", i+1, strings.Join(cells, " | ")))
	}

	return strings.TrimSpace(b.String()), nil
}
