package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	stdsync "sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Ensure Reconciler implements the interface.
var _ driving.Syncer = (*Reconciler)(nil)

// ReconcilerOptions configures engine behaviour. Passed explicitly into the
// constructor; the engine reads no ambient configuration.
type ReconcilerOptions struct {
	// Workers bounds the per-file pipeline concurrency. Values below 1 are
	// treated as 1, which processes files sequentially.
	Workers int
}

// Reconciler synchronises the search index with the remote corpus. One run
// enumerates the remote inventory, snapshots the index state, deletes
// identifiers no longer present remotely, and drives every remaining file
// through the download, extract, upsert pipeline.
type Reconciler struct {
	source   driven.FileSource
	index    driven.SearchIndex
	registry driven.ExtractorRegistry
	workers  int

	// One sync run at a time per engine; the report contract is one
	// report per run.
	runMu stdsync.Mutex
}

// NewReconciler creates a reconciliation engine over the three collaborators.
func NewReconciler(
	source driven.FileSource,
	index driven.SearchIndex,
	registry driven.ExtractorRegistry,
	opts ReconcilerOptions,
) *Reconciler {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Reconciler{
		source:   source,
		index:    index,
		registry: registry,
		workers:  workers,
	}
}

// Sync runs one reconciliation pass.
//
// Pre-flight failures (index or source unreachable, inventory enumeration
// failed) abort before any per-file processing and yield no report. After
// pre-flight, every per-file error is converted into an outcome and the
// run continues; the report is always returned, with ctx.Err() alongside
// it when the run was cancelled part-way.
func (r *Reconciler) Sync(ctx context.Context, mode driving.SyncMode) (*domain.SyncReport, error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	logger.Section("Sync (" + mode.String() + " mode)")

	// Pre-flight: both collaborators must be reachable before any state
	// decision is made.
	if err := r.index.Ping(ctx); err != nil {
		return nil, fmt.Errorf("pre-flight: %w", err)
	}
	if err := r.source.Validate(ctx); err != nil {
		return nil, fmt.Errorf("pre-flight: %w: %v", domain.ErrSourceUnavailable, err)
	}

	if mode == driving.ModeClean {
		logger.Info("Clean mode: dropping existing index")
		if err := r.index.Reset(ctx); err != nil {
			return nil, fmt.Errorf("reset index: %w", err)
		}
	}

	// Remote inventory snapshot. Enumeration order is processing order.
	files, err := r.source.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list remote files: %w: %v", domain.ErrSourceUnavailable, err)
	}
	logger.Info("Found %d files in remote corpus", len(files))

	// Index state snapshot.
	ids, err := r.index.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list index ids: %w", err)
	}
	indexed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		indexed[id] = struct{}{}
	}

	report := domain.NewSyncReport()

	// The deletion pass has no data dependency on the per-file pass; it
	// runs first so removed files disappear even when the run is cut short.
	r.deletionPass(ctx, report, indexed, files)

	if err := r.processFiles(ctx, report, mode, files, indexed); err != nil {
		return report, err
	}

	s := report.Summary()
	logger.Info("Sync complete: %d indexed, %d updated, %d skipped, %d deleted, %d failed",
		s.Indexed, s.Updated, s.Skipped(), s.Deleted, s.Failed)
	return report, nil
}

// deletionPass removes every identifier present in the index but absent from
// the remote inventory. Individual delete failures are counted and logged,
// never fatal; the pass always runs to completion. Identifiers are deleted
// in lexicographic order for deterministic logging.
func (r *Reconciler) deletionPass(
	ctx context.Context,
	report *domain.SyncReport,
	indexed map[string]struct{},
	files []domain.RemoteFile,
) {
	remote := make(map[string]struct{}, len(files))
	for _, f := range files {
		remote[f.ID] = struct{}{}
	}

	var stale []string
	for id := range indexed {
		if _, ok := remote[id]; !ok {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return
	}
	sort.Strings(stale)

	logger.Section("Deletion Pass")
	logger.Info("Found %d deleted files to remove from index", len(stale))

	for _, id := range stale {
		err := r.index.Delete(ctx, id)
		switch {
		case err == nil:
			report.RecordDeletion()
			logger.Info("Removed deleted file: %s", id)
		case errors.Is(err, domain.ErrNotFound):
			// Already gone; the invariant (absent after the run) holds.
			report.RecordDeletion()
			logger.Debug("Already removed: %s", id)
		default:
			report.RecordDeletionFailure()
			logger.Warn("Failed to remove %s: %v", id, err)
		}
	}
}

// processFiles drives the per-file state machine over the inventory, either
// sequentially or on a bounded worker pool. No two workers ever touch the
// same identifier: inventory identifiers are unique and each file is handed
// to exactly one worker.
func (r *Reconciler) processFiles(
	ctx context.Context,
	report *domain.SyncReport,
	mode driving.SyncMode,
	files []domain.RemoteFile,
	indexed map[string]struct{},
) error {
	if r.workers <= 1 {
		for i, file := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			logger.Info("[%d/%d] %s", i+1, len(files), file.Name)
			report.Record(r.processOne(ctx, mode, file, indexed))
		}
		return nil
	}

	g := &errgroup.Group{}
	g.SetLimit(r.workers)

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			break
		}
		i, file := i, file
		g.Go(func() error {
			// In-flight files run to completion even on cancellation;
			// only un-started files are dropped.
			logger.Info("[%d/%d] %s", i+1, len(files), file.Name)
			report.Record(r.processOne(ctx, mode, file, indexed))
			return nil
		})
	}

	_ = g.Wait() // workers never return errors; outcomes go to the report
	return ctx.Err()
}

// processOne walks one file through the state machine:
//
//	Pending -> {Unsupported | UpToDate | Downloading -> Extracting -> Indexing -> Done} | Failed
//
// All failures are classified by pipeline stage and become an outcome; no
// error escapes to the caller.
func (r *Reconciler) processOne(
	ctx context.Context,
	mode driving.SyncMode,
	file domain.RemoteFile,
	indexed map[string]struct{},
) domain.Outcome {
	// Support is checked before download so unsupported files never cost
	// a network transfer.
	if !r.registry.Supported(file.MIMEType, file.Name) {
		logger.Warn("Unsupported file type, skipping: %s (MIME: %s)", file.Name, file.MIMEType)
		return domain.Outcome{Kind: domain.OutcomeSkippedUnsupported, FileID: file.ID}
	}

	if mode == driving.ModeIncremental {
		if outcome, done := r.checkUpToDate(ctx, file); done {
			return outcome
		}
	}

	logger.Debug("Downloading %s", file.Name)
	content, err := r.source.DownloadContent(ctx, file.ID)
	if err != nil {
		logger.Warn("Download failed for %s: %v", file.Name, err)
		return domain.Outcome{Kind: domain.OutcomeFailed, FileID: file.ID, Stage: domain.StageDownload, Err: err}
	}

	logger.Debug("Extracting text from %s", file.Name)
	text, err := r.registry.Extract(ctx, content, file.MIMEType, file.Name)
	if err != nil {
		logger.Warn("Extraction failed for %s: %v", file.Name, err)
		return domain.Outcome{Kind: domain.OutcomeFailed, FileID: file.ID, Stage: domain.StageExtract, Err: err}
	}

	logger.Debug("Indexing %s (%d chars)", file.Name, len(text))
	doc := domain.NewIndexableDocument(file, text)
	if err := r.index.Upsert(ctx, doc); err != nil {
		logger.Warn("Index write failed for %s: %v", file.Name, err)
		return domain.Outcome{Kind: domain.OutcomeFailed, FileID: file.ID, Stage: domain.StageIndex, Err: err}
	}

	// Same upsert either way; the split is reporting only.
	if _, wasIndexed := indexed[file.ID]; wasIndexed {
		return domain.Outcome{Kind: domain.OutcomeUpdated, FileID: file.ID}
	}
	return domain.Outcome{Kind: domain.OutcomeIndexed, FileID: file.ID}
}

// checkUpToDate applies the incremental staleness rule: a file is skipped
// when the index recorded a last-modified timestamp at least as fresh as the
// remote file's. Equal timestamps count as current; see the policy note in
// DESIGN.md regarding clock skew.
func (r *Reconciler) checkUpToDate(ctx context.Context, file domain.RemoteFile) (domain.Outcome, bool) {
	ref, err := r.index.Get(ctx, file.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Outcome{}, false
	}
	if err != nil {
		logger.Warn("Staleness lookup failed for %s: %v", file.Name, err)
		return domain.Outcome{Kind: domain.OutcomeFailed, FileID: file.ID, Stage: domain.StageIndex, Err: err}, true
	}

	if !file.ModifiedAt.After(ref.ModifiedAt) {
		logger.Info("Already up-to-date, skipping: %s", file.Name)
		return domain.Outcome{Kind: domain.OutcomeSkippedUpToDate, FileID: file.ID}, true
	}
	return domain.Outcome{}, false
}
