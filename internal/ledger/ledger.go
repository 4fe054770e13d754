// Package ledger persists run outcomes in SQLite: one row per run plus the
// duplicate decisions and written documents it produced.
package ledger

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	started_at   DATETIME NOT NULL,
	finished_at  DATETIME,
	loaded       INTEGER NOT NULL DEFAULT 0,
	unique_posts INTEGER NOT NULL DEFAULT 0,
	duplicates   INTEGER NOT NULL DEFAULT 0,
	written      INTEGER NOT NULL DEFAULT 0,
	skipped      INTEGER NOT NULL DEFAULT 0,
	errors       INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS duplicates (
	run_id         TEXT NOT NULL,
	kind           TEXT NOT NULL,
	survivor_id    TEXT NOT NULL DEFAULT '',
	survivor_date  TEXT NOT NULL DEFAULT '',
	discarded_id   TEXT NOT NULL DEFAULT '',
	discarded_date TEXT NOT NULL DEFAULT '',
	title          TEXT NOT NULL DEFAULT '',
	action         TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS documents (
	run_id   TEXT NOT NULL,
	filename TEXT NOT NULL,
	doc_type TEXT NOT NULL,
	checksum TEXT NOT NULL DEFAULT '',
	degraded INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_duplicates_run ON duplicates(run_id);
CREATE INDEX IF NOT EXISTS idx_documents_run ON documents(run_id);
`

// DB wraps a sql.DB with ledger-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("ledger: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ledger: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ledger: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
