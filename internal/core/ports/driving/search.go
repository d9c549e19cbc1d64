package driving

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// Searcher answers ranked queries against the synchronized index.
type Searcher interface {
	// Search returns ranked results with highlighted snippets.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
