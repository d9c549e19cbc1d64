package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no extractor matches the file type.
	// This is a skip classification, not a processing failure.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrExtractionFailed indicates an extractor rejected the content as
	// structurally invalid (corrupt payload, undecodable binary).
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrSourceUnavailable indicates the file source is unreachable.
	// Fatal at pre-flight; the engine never starts without a reachable source.
	ErrSourceUnavailable = errors.New("file source unavailable")

	// ErrIndexUnavailable indicates the search index is unreachable.
	// Fatal at pre-flight; per-file state decisions depend on index state.
	ErrIndexUnavailable = errors.New("search index unavailable")
)
