package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// OutcomeKind classifies the terminal state of one file in a sync run.
type OutcomeKind int

// Terminal per-file states.
const (
	// OutcomeIndexed means the document was written and its identifier was
	// not present in the index beforehand.
	OutcomeIndexed OutcomeKind = iota

	// OutcomeUpdated means the document was written over an existing entry.
	// The write is the same upsert either way; the split is for reporting.
	OutcomeUpdated

	// OutcomeSkippedUnsupported means no extractor matched the file.
	OutcomeSkippedUnsupported

	// OutcomeSkippedUpToDate means incremental mode found the indexed copy
	// at least as fresh as the remote file.
	OutcomeSkippedUpToDate

	// OutcomeFailed means download, extraction or the index write failed.
	OutcomeFailed
)

// String returns the outcome kind name used in logs and reports.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeIndexed:
		return "indexed"
	case OutcomeUpdated:
		return "updated"
	case OutcomeSkippedUnsupported:
		return "skipped_unsupported"
	case OutcomeSkippedUpToDate:
		return "skipped_up_to_date"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FailureStage names the pipeline stage where a file failed.
type FailureStage string

// Pipeline stages that can fail without aborting the run.
const (
	StageDownload FailureStage = "download"
	StageExtract  FailureStage = "extract"
	StageIndex    FailureStage = "index"
)

// Outcome is the classification result for one file. It is not persisted.
type Outcome struct {
	// Kind is the terminal state.
	Kind OutcomeKind

	// FileID identifies the file.
	FileID string

	// Stage is set when Kind is OutcomeFailed.
	Stage FailureStage

	// Err is the underlying failure when Kind is OutcomeFailed.
	Err error
}

// SyncReport accumulates per-file outcomes and deletion counts across one
// sync run. One report per run; counter updates are mutex-guarded so a
// bounded worker pool can record outcomes concurrently.
type SyncReport struct {
	// RunID uniquely identifies the sync run.
	RunID string

	// StartedAt is when the run began.
	StartedAt time.Time

	mu       sync.Mutex
	outcomes []Outcome
	summary  Summary
}

// Summary holds the aggregate counters of a sync run. Field names are stable
// for downstream consumers (CLI and API display).
type Summary struct {
	TotalSeen          int `json:"totalSeen"`
	Indexed            int `json:"indexed"`
	Updated            int `json:"updated"`
	SkippedUnsupported int `json:"skippedUnsupported"`
	SkippedUpToDate    int `json:"skippedUpToDate"`
	Deleted            int `json:"deleted"`
	DeletionFailed     int `json:"deletionFailed"`
	Failed             int `json:"failed"`
}

// Skipped returns the combined skip count.
func (s Summary) Skipped() int {
	return s.SkippedUnsupported + s.SkippedUpToDate
}

// NewSyncReport creates an empty report for a new run.
func NewSyncReport() *SyncReport {
	return &SyncReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
}

// Record adds a per-file outcome and bumps the matching counter.
func (r *SyncReport) Record(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.outcomes = append(r.outcomes, o)
	r.summary.TotalSeen++

	switch o.Kind {
	case OutcomeIndexed:
		r.summary.Indexed++
	case OutcomeUpdated:
		r.summary.Updated++
	case OutcomeSkippedUnsupported:
		r.summary.SkippedUnsupported++
	case OutcomeSkippedUpToDate:
		r.summary.SkippedUpToDate++
	case OutcomeFailed:
		r.summary.Failed++
	}
}

// RecordDeletion counts one successful index deletion.
func (r *SyncReport) RecordDeletion() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary.Deleted++
}

// RecordDeletionFailure counts one failed index deletion. Deletion failures
// are logged and counted but never abort the deletion pass.
func (r *SyncReport) RecordDeletionFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary.DeletionFailed++
}

// Summary returns a copy of the aggregate counters.
func (r *SyncReport) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// Outcomes returns a copy of the per-file outcomes in record order.
func (r *SyncReport) Outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}
