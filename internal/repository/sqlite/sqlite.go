// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database. It lives inside your Go binary as a single file.
// No separate database server to install, configure, or manage. A single-user
// journal with a few thousand rows is exactly its sweet spot, and ":memory:"
// gives tests and previews an identical store that vanishes on Close.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code, so no C compiler is needed.
//
// ONE CONNECTION:
// sql.DB is a pool. We cap it at a single open connection, which gives us two things:
//   - all store access is serialized (one writer, one reader at a time)
//   - ":memory:" works: every new pool connection would otherwise get its
//     own empty in-memory database
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// BLANK IMPORT:
	// The sqlite package's init() registers itself with database/sql as a
	// driver named "sqlite". After this import, sql.Open("sqlite", ...) works.
	_ "modernc.org/sqlite"
)

// MemoryPath is the special path that opens a non-persistent database.
const MemoryPath = ":memory:"

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn *sql.DB
	path string
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/moodlog.db"  → file-based database (persistent)
//   - ":memory:"         → in-memory database (tests, previews; lost on close)
//
// The parent directory of a file path is created if it doesn't exist.
func New(dbPath string) (*DB, error) {
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: creating database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	conn.SetMaxOpenConns(1)
	// Keep the single connection alive; closing it would drop a :memory: database.
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	// Ping verifies the connection actually works.
	// Without this, a bad path or permissions issue would only surface
	// on the first query, which is much harder to debug.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL (Write-Ahead Logging) keeps readers from blocking on a writer and
	// makes each commit a single append. For ":memory:" SQLite answers
	// "memory" and carries on, so this is safe for both variants.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Wait for a lock instead of failing immediately if another process
	// (e.g. the CLI while the server is running) holds the file.
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}

	db := &DB{conn: conn, path: dbPath}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// NewInMemory opens a fresh in-memory store with the same schema and
// behaviour as a file-backed one.
func NewInMemory() (*DB, error) {
	return New(MemoryPath)
}

// Path returns the path the database was opened with.
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection pool.
//
// ALWAYS DEFER CLOSE:
//
//	db, err := sqlite.New("data/moodlog.db")
//	if err != nil { ... }
//	defer db.Close()
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema.
//
// CREATE ... IF NOT EXISTS is idempotent, so this runs on every start.
//
// recorded_at is stored as UTC unix nanoseconds rather than a DATETIME string:
// integer comparison keeps ORDER BY and range scans exact regardless of the
// zone the timestamp was recorded in.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS mood_records (
			id          TEXT PRIMARY KEY,
			recorded_at INTEGER NOT NULL,
			mood_value  INTEGER NOT NULL CHECK (mood_value BETWEEN 1 AND 10),
			note        TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_mood_records_recorded_at ON mood_records(recorded_at);
	`)
	if err != nil {
		return fmt.Errorf("creating mood_records table: %w", err)
	}

	return nil
}
