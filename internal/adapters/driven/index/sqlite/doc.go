// Package sqlite provides the SQLite FTS5 implementation of the SearchIndex port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Document metadata lives in
// a plain table while the searchable text lives in an FTS5 virtual table, so
// staleness lookups never load document bodies.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.docsync/index.db
//
// # Thread Safety
//
// All operations are thread-safe. The index relies on database-level locking
// provided by SQLite in WAL mode.
package sqlite
