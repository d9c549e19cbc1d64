package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
)

// Ensure SearchService implements the interface.
var _ driving.Searcher = (*SearchService)(nil)

const defaultSearchLimit = 10

// SearchService validates queries and delegates ranked retrieval to the
// search index.
type SearchService struct {
	index driven.SearchIndex
}

// NewSearchService creates a search service over the given index.
func NewSearchService(index driven.SearchIndex) *SearchService {
	return &SearchService{index: index}
}

// Search returns ranked matches for the query. Blank queries are rejected;
// a non-positive limit falls back to the default.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", domain.ErrInvalidInput)
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultSearchLimit
	}
	return s.index.Search(ctx, query, opts)
}
