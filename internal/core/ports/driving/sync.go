package driving

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// SyncMode selects how the engine treats already-indexed files.
type SyncMode int

// Available sync modes.
const (
	// ModeFull re-downloads, re-extracts and re-upserts every supported
	// file regardless of timestamps. The default.
	ModeFull SyncMode = iota

	// ModeIncremental skips files whose indexed copy is at least as fresh
	// as the remote file.
	ModeIncremental

	// ModeClean drops the entire index before the run, then behaves like
	// a full sync against an empty index.
	ModeClean
)

// String returns the mode name used in logs.
func (m SyncMode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeIncremental:
		return "incremental"
	case ModeClean:
		return "clean"
	default:
		return "unknown"
	}
}

// Syncer reconciles the search index with the remote corpus.
type Syncer interface {
	// Sync runs one reconciliation pass and returns its report. A nil
	// report with an error means pre-flight failed before any per-file
	// processing; a non-nil report is returned even when individual files
	// failed, and alongside a cancellation error for interrupted runs.
	Sync(ctx context.Context, mode SyncMode) (*domain.SyncReport, error)
}
