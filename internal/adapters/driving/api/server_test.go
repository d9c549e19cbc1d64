package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/adapters/driven/index/memory"
	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/services"
)

func newTestServer(t *testing.T) (*Server, *memory.Index) {
	t.Helper()
	idx := memory.New()
	return NewServer("127.0.0.1:0", services.NewSearchService(idx), idx), idx
}

func seedDocument(t *testing.T, idx *memory.Index, id, name, body string) {
	t.Helper()
	require.NoError(t, idx.Upsert(context.Background(), domain.IndexableDocument{
		ID:         id,
		Name:       name,
		Path:       name,
		Body:       body,
		MIMEType:   "text/plain",
		ModifiedAt: time.Now().UTC(),
	}))
}

func doGet(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Root(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(t, srv, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/search?q=")
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(t, srv, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.True(t, resp.IndexReachable)
}

func TestServer_SearchReturnsMatches(t *testing.T) {
	srv, idx := newTestServer(t)
	seedDocument(t, idx, "d1", "minutes.txt", "board meeting minutes")
	seedDocument(t, idx, "d2", "recipe.txt", "pancake instructions")

	rec := doGet(t, srv, "/search?q=minutes")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "minutes", resp.Query)
	assert.Equal(t, 1, resp.TotalResults)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "d1", resp.Results[0].ID)
}

func TestServer_SearchEmptyQueryIsBadRequest(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(t, srv, "/search?q=")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_SearchInvalidLimitIsBadRequest(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, limit := range []string{"abc", "0", "-3"} {
		rec := doGet(t, srv, "/search?q=x&limit="+limit)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}

func TestServer_SearchLimitIsCapped(t *testing.T) {
	srv, idx := newTestServer(t)
	seedDocument(t, idx, "d1", "a.txt", "term")

	rec := doGet(t, srv, "/search?q=term&limit=10000")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_SearchNoMatchesReturnsEmptyList(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(t, srv, "/search?q=nothing")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.TotalResults)
	assert.NotNil(t, resp.Results)
}

func TestServer_Stats(t *testing.T) {
	srv, idx := newTestServer(t)
	seedDocument(t, idx, "d1", "a.txt", "one")
	seedDocument(t, idx, "d2", "b.txt", "two")

	rec := doGet(t, srv, "/stats")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalDocuments)
}
