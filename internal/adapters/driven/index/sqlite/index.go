package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docsync/internal/adapters/driven/index/sqlite/migrations"
	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.SearchIndex = (*Index)(nil)

// Index is a SQLite FTS5 backed implementation of driven.SearchIndex.
// Ranking uses bm25 with the file name weighted over path and body, and
// highlighting uses FTS5 snippets over the body column.
type Index struct {
	db   *sql.DB
	path string
}

// New creates (or opens) a SQLite search index at the given file path.
// If path is empty, defaults to ~/.docsync/index.db.
func New(path string) (*Index, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".docsync", "index.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	// WAL mode for better concurrency between the sync engine and searches
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	idx := &Index{db: db, path: path}

	if err := idx.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return idx, nil
}

// Close closes the database connection.
func (i *Index) Close() error {
	return i.db.Close()
}

// Path returns the database file path.
func (i *Index) Path() string {
	return i.path
}

// Ping checks the index is reachable.
func (i *Index) Ping(ctx context.Context) error {
	if err := i.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	return nil
}

// migrate runs all pending migrations.
func (i *Index) migrate(fsys embed.FS) error {
	_, err := i.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := i.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := i.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := i.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert writes a document, replacing any existing entry with the same id.
// The metadata row and the FTS row are updated in one transaction.
func (i *Index) Upsert(ctx context.Context, doc domain.IndexableDocument) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents
			(id, name, path, url, mime_type, size, modified_at, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Name, doc.Path, doc.URL, doc.MIMEType, doc.Size,
		doc.ModifiedAt.UTC().Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents_fts WHERE id = ?", doc.ID); err != nil {
		return fmt.Errorf("clearing fts row: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO documents_fts (id, name, path, body) VALUES (?, ?, ?, ?)",
		doc.ID, doc.Name, doc.Path, doc.Body,
	)
	if err != nil {
		return fmt.Errorf("inserting fts row: %w", err)
	}

	return tx.Commit()
}

// Delete removes a document by identifier.
func (i *Index) Delete(ctx context.Context, id string) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents_fts WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting fts row: %w", err)
	}

	return tx.Commit()
}

// Exists reports whether a document with the identifier is indexed.
func (i *Index) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := i.db.QueryRowContext(ctx, "SELECT 1 FROM documents WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking existence: %w", err)
	}
	return true, nil
}

// Get returns the staleness metadata for one identifier.
func (i *Index) Get(ctx context.Context, id string) (*domain.IndexedDocumentRef, error) {
	var modified string
	err := i.db.QueryRowContext(ctx, "SELECT modified_at FROM documents WHERE id = ?", id).Scan(&modified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, modified)
	if err != nil {
		return nil, fmt.Errorf("parsing modified_at: %w", err)
	}

	return &domain.IndexedDocumentRef{ID: id, ModifiedAt: ts}, nil
}

// ListIDs returns every indexed identifier.
func (i *Index) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, "SELECT id FROM documents")
	if err != nil {
		return nil, fmt.Errorf("listing ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Search performs a bm25-ranked multi-field query with snippet highlighting.
// The name column is boosted over path and body.
func (i *Index) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	// bm25() returns smaller-is-better; negate for a display score.
	rows, err := i.db.QueryContext(ctx, `
		SELECT d.id, d.name, d.path, d.url, d.mime_type, d.modified_at,
		       -bm25(documents_fts, 0, 2.0, 1.0, 1.0) AS score,
		       snippet(documents_fts, 3, '[', ']', '…', 12) AS snip
		FROM documents_fts
		JOIN documents d ON d.id = documents_fts.id
		WHERE documents_fts MATCH ?
		ORDER BY bm25(documents_fts, 0, 2.0, 1.0, 1.0)
		LIMIT ?`,
		ftsQuery(query), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var r domain.SearchResult
		var modified, snip string
		if err := rows.Scan(&r.ID, &r.Name, &r.Path, &r.URL, &r.MIMEType, &modified, &r.Score, &snip); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, modified); err == nil {
			r.ModifiedAt = ts
		}
		if snip != "" {
			r.Highlights = []string{snip}
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ftsQuery wraps each term in double quotes so user input cannot inject
// FTS5 query syntax.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, term := range terms {
		terms[i] = `"` + strings.ReplaceAll(term, `"`, ``) + `"`
	}
	return strings.Join(terms, " ")
}

// Reset drops all indexed documents. Used by clean mode before a run.
func (i *Index) Reset(ctx context.Context) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("clearing documents: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents_fts"); err != nil {
		return fmt.Errorf("clearing fts: %w", err)
	}

	return tx.Commit()
}
