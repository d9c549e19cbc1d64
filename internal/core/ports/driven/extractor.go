package driven

import "context"

// Extractor turns raw file bytes into searchable text for one family of
// formats. Implementations are stateless; dispatch is decided by the
// registry, not the extractor.
type Extractor interface {
	// Name identifies the extractor in logs.
	Name() string

	// CanExtract reports whether this extractor handles the file, by exact
	// MIME type membership or filename extension membership, in that order.
	CanExtract(mimeType, filename string) bool

	// Extract decodes content into plain text. Only structurally invalid
	// content should fail; encoding mismatches fall back to a permissive
	// decoding rather than erroring.
	Extract(ctx context.Context, content []byte, filename string) (string, error)
}

// ExtractorRegistry dispatches files to extractors. The registry holds an
// ordered sequence; the first extractor whose predicate accepts the file
// wins, so registration order is a deliberate priority.
type ExtractorRegistry interface {
	// Match returns the first extractor claiming the file, or nil.
	Match(mimeType, filename string) Extractor

	// Extract dispatches and runs extraction. Raw extractor faults are
	// caught at this boundary: callers see domain.ErrUnsupportedType when
	// nothing matches, or an error wrapping domain.ErrExtractionFailed.
	Extract(ctx context.Context, content []byte, mimeType, filename string) (string, error)

	// Supported reports whether any extractor claims the file. Checked
	// before download so unsupported files never cost a network transfer.
	Supported(mimeType, filename string) bool
}
