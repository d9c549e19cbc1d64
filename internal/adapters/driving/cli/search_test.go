package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// mockSearcher returns scripted results.
type mockSearcher struct {
	query   string
	opts    domain.SearchOptions
	results []domain.SearchResult
	err     error
}

func (m *mockSearcher) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.query = query
	m.opts = opts
	return m.results, m.err
}

func withMockSearcher(t *testing.T, m *mockSearcher) {
	t.Helper()
	old := searchService
	searchService = m
	t.Cleanup(func() {
		searchService = old
		searchLimit = 10
		searchJSON = false
	})
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := executeCommand(t, "search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_PrintsResultsTable(t *testing.T) {
	m := &mockSearcher{results: []domain.SearchResult{
		{ID: "d1", Name: "minutes.txt", Path: "meetings/minutes.txt", Score: 4.2, Highlights: []string{"board [minutes] for"}},
	}}
	withMockSearcher(t, m)

	out, err := executeCommand(t, "search", "minutes")
	require.NoError(t, err)

	assert.Equal(t, "minutes", m.query)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "minutes.txt")
	assert.Contains(t, out, "meetings/minutes.txt")
	assert.Contains(t, out, "board [minutes] for")
}

func TestSearchCmd_PassesLimitThrough(t *testing.T) {
	m := &mockSearcher{}
	withMockSearcher(t, m)

	_, err := executeCommand(t, "search", "--limit", "25", "query")
	require.NoError(t, err)
	assert.Equal(t, 25, m.opts.Limit)
}

func TestSearchCmd_NoResults(t *testing.T) {
	withMockSearcher(t, &mockSearcher{})

	out, err := executeCommand(t, "search", "nothing")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	m := &mockSearcher{results: []domain.SearchResult{
		{ID: "d1", Name: "minutes.txt", Score: 1.5},
	}}
	withMockSearcher(t, m)

	out, err := executeCommand(t, "search", "--json", "minutes")
	require.NoError(t, err)
	assert.Contains(t, out, `"file_id": "d1"`)
	assert.Contains(t, out, `"file_name": "minutes.txt"`)
}

func TestVersionCmd_PrintsVersion(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "docsync version")
}
