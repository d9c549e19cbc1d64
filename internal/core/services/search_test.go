package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/adapters/driven/index/memory"
	"github.com/custodia-labs/docsync/internal/core/domain"
)

func TestSearchService_RejectsBlankQueries(t *testing.T) {
	svc := NewSearchService(memory.New())

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := svc.Search(context.Background(), query, domain.SearchOptions{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestSearchService_DelegatesToIndex(t *testing.T) {
	idx := memory.New()
	require.NoError(t, idx.Upsert(context.Background(), domain.IndexableDocument{
		ID: "d1", Name: "notes.txt", Body: "quarterly revenue figures",
	}))
	require.NoError(t, idx.Upsert(context.Background(), domain.IndexableDocument{
		ID: "d2", Name: "misc.txt", Body: "unrelated",
	}))

	svc := NewSearchService(idx)

	results, err := svc.Search(context.Background(), "revenue", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "d1", results[0].ID)
}

func TestSearchService_AppliesDefaultLimit(t *testing.T) {
	idx := memory.New()
	for i := 0; i < 25; i++ {
		require.NoError(t, idx.Upsert(context.Background(), domain.IndexableDocument{
			ID: string(rune('a' + i)), Body: "common term",
		}))
	}

	svc := NewSearchService(idx)

	results, err := svc.Search(context.Background(), "common", domain.SearchOptions{Limit: 0})
	require.NoError(t, err)
	assert.Len(t, results, defaultSearchLimit)
}
