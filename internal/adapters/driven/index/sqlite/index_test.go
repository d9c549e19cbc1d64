package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		idx.Close()
	})
	return idx
}

func testDoc(id, name, body string) domain.IndexableDocument {
	return domain.IndexableDocument{
		ID:         id,
		Name:       name,
		Path:       "folder/" + name,
		URL:        "https://example.com/" + id,
		MIMEType:   "text/plain",
		Body:       body,
		Size:       int64(len(body)),
		ModifiedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestIndex_UpsertAndGet(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	doc := testDoc("d1", "notes.txt", "meeting notes")
	require.NoError(t, idx.Upsert(ctx, doc))

	exists, err := idx.Exists(ctx, "d1")
	require.NoError(t, err)
	assert.True(t, exists)

	ref, err := idx.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1", ref.ID)
	assert.True(t, ref.ModifiedAt.Equal(doc.ModifiedAt))
}

func TestIndex_GetMissingReturnsNotFound(t *testing.T) {
	idx := newTestIndex(t)

	_, err := idx.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndex_UpsertReplacesExistingDocument(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, testDoc("d1", "notes.txt", "original wording")))
	require.NoError(t, idx.Upsert(ctx, testDoc("d1", "notes.txt", "revised wording")))

	ids, err := idx.ListIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	results, err := idx.Search(ctx, "revised", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = idx.Search(ctx, "original", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results, "replaced body must no longer match")
}

func TestIndex_Delete(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, testDoc("d1", "notes.txt", "body")))
	require.NoError(t, idx.Delete(ctx, "d1"))

	exists, err := idx.Exists(ctx, "d1")
	require.NoError(t, err)
	assert.False(t, exists)

	results, err := idx.Search(ctx, "body", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIndex_DeleteMissingReturnsNotFound(t *testing.T) {
	idx := newTestIndex(t)

	err := idx.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndex_ListIDs(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, testDoc("d1", "a.txt", "one")))
	require.NoError(t, idx.Upsert(ctx, testDoc("d2", "b.txt", "two")))

	ids, err := idx.ListIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"d1", "d2"}, ids)
}

func TestIndex_SearchRanksNameMatchesFirst(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, testDoc("body-hit", "misc.txt", "the budget figures are attached")))
	require.NoError(t, idx.Upsert(ctx, testDoc("name-hit", "budget.txt", "quarterly summary")))

	results, err := idx.Search(ctx, "budget", domain.SearchOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "name-hit", results[0].ID, "file name matches outrank body matches")
}

func TestIndex_SearchReturnsHighlights(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, testDoc("d1", "notes.txt",
		"the committee approved the proposal after a short discussion")))

	results, err := idx.Search(ctx, "proposal", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotEmpty(t, results[0].Highlights)
	assert.Contains(t, results[0].Highlights[0], "[proposal]")
}

func TestIndex_SearchRespectsLimit(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	for _, id := range []string{"d1", "d2", "d3"} {
		require.NoError(t, idx.Upsert(ctx, testDoc(id, id+".txt", "shared term")))
	}

	results, err := idx.Search(ctx, "shared", domain.SearchOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestIndex_SearchQuotesUserInput(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, testDoc("d1", "a.txt", "plain content")))

	// FTS5 operators in the query must behave as literals, not syntax.
	for _, query := range []string{`content AND`, `"content`, `cont*`, `NEAR(content)`} {
		_, err := idx.Search(ctx, query, domain.SearchOptions{})
		assert.NoError(t, err, "query %q must not be treated as FTS syntax", query)
	}
}

func TestIndex_Reset(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, testDoc("d1", "a.txt", "one")))
	require.NoError(t, idx.Upsert(ctx, testDoc("d2", "b.txt", "two")))

	require.NoError(t, idx.Reset(ctx))

	ids, err := idx.ListIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestIndex_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")
	ctx := context.Background()

	idx, err := New(path)
	require.NoError(t, err)
	require.NoError(t, idx.Upsert(ctx, testDoc("d1", "a.txt", "persistent")))
	require.NoError(t, idx.Close())

	idx, err = New(path)
	require.NoError(t, err)
	defer idx.Close()

	exists, err := idx.Exists(ctx, "d1")
	require.NoError(t, err)
	assert.True(t, exists, "migrations must be idempotent across reopen")
}

func TestFTSQuery(t *testing.T) {
	assert.Equal(t, `"hello" "world"`, ftsQuery("hello world"))
	assert.Equal(t, `"dont"`, ftsQuery(`"dont"`))
	assert.Equal(t, ``, ftsQuery("   "))
}
