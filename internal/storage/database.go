// Package storage handles the one thing this service persists: an audit
// log of provider invocations. Analysis and chat results themselves are
// never stored; they live and die with the request that produced them.
package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Blank import: registers the SQLite driver.
)

// The schema is embedded in the binary, so no migration files need to
// exist at runtime.
const schema = `
CREATE TABLE IF NOT EXISTS provider_calls (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    provider    TEXT NOT NULL,
    model       TEXT NOT NULL,
    kind        TEXT NOT NULL,
    success     BOOLEAN NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_provider_calls_provider ON provider_calls(provider);
CREATE INDEX IF NOT EXISTS idx_provider_calls_kind ON provider_calls(kind);
`

// NewDatabase opens a SQLite connection and applies the schema.
// The DSN configures pragmas for better behavior under load:
// WAL mode allows concurrent reads while writing, and busy_timeout waits
// up to 5s instead of failing on lock contention.
func NewDatabase(dbPath string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", dbPath)

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return db, nil
}
