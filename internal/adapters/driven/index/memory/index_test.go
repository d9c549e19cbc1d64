package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

func TestIndex_DeleteMissingReturnsNotFound(t *testing.T) {
	idx := New()

	err := idx.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndex_UpsertDeleteRoundTrip(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, domain.IndexableDocument{ID: "d1", Body: "text"}))
	assert.Equal(t, 1, idx.Len())

	require.NoError(t, idx.Delete(ctx, "d1"))
	assert.Equal(t, 0, idx.Len())
}

func TestIndex_SearchMatchesAnyField(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, domain.IndexableDocument{ID: "d1", Name: "budget.txt"}))
	require.NoError(t, idx.Upsert(ctx, domain.IndexableDocument{ID: "d2", Path: "finance/q3.txt"}))
	require.NoError(t, idx.Upsert(ctx, domain.IndexableDocument{ID: "d3", Body: "budget overview"}))

	results, err := idx.Search(ctx, "budget", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "d1", results[0].ID)
	assert.Equal(t, "d3", results[1].ID)
}
