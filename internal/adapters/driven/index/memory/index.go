// Package memory provides an in-memory implementation of the SearchIndex
// port. It backs unit tests and mirrors the semantics of the SQLite adapter,
// including ErrNotFound on missing deletes.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.SearchIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.SearchIndex.
type Index struct {
	mu   sync.RWMutex
	docs map[string]domain.IndexableDocument
}

// New creates a new in-memory search index.
func New() *Index {
	return &Index{
		docs: make(map[string]domain.IndexableDocument),
	}
}

// Ping always succeeds.
func (i *Index) Ping(_ context.Context) error {
	return nil
}

// Upsert writes a document, replacing any existing entry with the same id.
func (i *Index) Upsert(_ context.Context, doc domain.IndexableDocument) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.docs[doc.ID] = doc
	return nil
}

// Delete removes a document by identifier.
func (i *Index) Delete(_ context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(i.docs, id)
	return nil
}

// Exists reports whether a document with the identifier is indexed.
func (i *Index) Exists(_ context.Context, id string) (bool, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.docs[id]
	return ok, nil
}

// Get returns the staleness metadata for one identifier.
func (i *Index) Get(_ context.Context, id string) (*domain.IndexedDocumentRef, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	doc, ok := i.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.IndexedDocumentRef{ID: doc.ID, ModifiedAt: doc.ModifiedAt}, nil
}

// ListIDs returns every indexed identifier.
func (i *Index) ListIDs(_ context.Context) ([]string, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	ids := make([]string, 0, len(i.docs))
	for id := range i.docs {
		ids = append(ids, id)
	}
	return ids, nil
}

// Search performs naive substring matching over body, name and path.
// Results are ordered by identifier for determinism; this is a test
// double, not a ranking implementation.
func (i *Index) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	q := strings.ToLower(query)
	var results []domain.SearchResult
	for _, doc := range i.docs {
		if !strings.Contains(strings.ToLower(doc.Body), q) &&
			!strings.Contains(strings.ToLower(doc.Name), q) &&
			!strings.Contains(strings.ToLower(doc.Path), q) {
			continue
		}
		results = append(results, domain.SearchResult{
			ID:         doc.ID,
			Name:       doc.Name,
			Path:       doc.Path,
			URL:        doc.URL,
			MIMEType:   doc.MIMEType,
			ModifiedAt: doc.ModifiedAt,
			Score:      1,
		})
	}

	sort.Slice(results, func(a, b int) bool { return results[a].ID < results[b].ID })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Reset drops all indexed documents.
func (i *Index) Reset(_ context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.docs = make(map[string]domain.IndexableDocument)
	return nil
}

// Close releases resources.
func (i *Index) Close() error {
	return nil
}

// Document returns the stored document for assertions in tests.
func (i *Index) Document(id string) (domain.IndexableDocument, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	doc, ok := i.docs[id]
	return doc, ok
}

// Len returns the number of indexed documents.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.docs)
}
