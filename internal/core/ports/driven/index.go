package driven

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// SearchIndex is the full-text store the engine reconciles against.
// Query DSL, schema management and connection handling live behind this
// interface; the core only needs upsert, delete and state inspection.
type SearchIndex interface {
	// Ping checks the index is reachable. Called once at pre-flight; an
	// error here aborts the whole run.
	Ping(ctx context.Context) error

	// Upsert writes a document, replacing any existing entry with the same
	// identifier.
	Upsert(ctx context.Context, doc domain.IndexableDocument) error

	// Delete removes a document by identifier. Returns domain.ErrNotFound
	// if no such document exists.
	Delete(ctx context.Context, id string) error

	// Exists reports whether a document with the identifier is indexed.
	Exists(ctx context.Context, id string) (bool, error)

	// Get returns the staleness metadata recorded at the last successful
	// write, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.IndexedDocumentRef, error)

	// ListIDs returns every indexed identifier.
	ListIDs(ctx context.Context) ([]string, error)

	// Search performs a ranked multi-field search with highlighting.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// Reset drops all indexed documents. Used by clean mode before a run.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}
