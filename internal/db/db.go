// internal/db/db.go
//
// SQLite database helpers.
// Responsibilities:
//   - Opening the database file with safe defaults (WAL, busy timeout,
//     foreign keys).
//   - Applying the idempotent schema at startup.
//
// The logical schema is storage-technology-agnostic: five game relations
// keyed per player/session/code, plus the transport's users table.

package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE COLLATE NOCASE,
  password_hash TEXT NOT NULL,
  created_at TEXT NOT NULL,
  games_played INTEGER NOT NULL DEFAULT 0,
  wins INTEGER NOT NULL DEFAULT 0,
  streak INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS sessions (
  player_id TEXT NOT NULL,
  session_key TEXT NOT NULL,
  target_id TEXT NOT NULL,
  attempts INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'ACTIVE',
  created_at TEXT NOT NULL,
  PRIMARY KEY (player_id, session_key)
);

CREATE TABLE IF NOT EXISTS attempts (
  player_id TEXT NOT NULL,
  session_key TEXT NOT NULL,
  n INTEGER NOT NULL,
  guess TEXT NOT NULL,
  verdict TEXT NOT NULL,
  PRIMARY KEY (player_id, session_key, n)
);

CREATE TABLE IF NOT EXISTS challenges (
  code TEXT PRIMARY KEY,
  target_id TEXT NOT NULL,
  creator_id TEXT NOT NULL,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS suggestions (
  player_id TEXT PRIMARY KEY,
  token TEXT NOT NULL,
  purpose TEXT NOT NULL,
  candidate_ids TEXT NOT NULL,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS active_pointer (
  player_id TEXT PRIMARY KEY,
  session_key TEXT NOT NULL
);
`

// Open opens (creating if missing) the SQLite database at dsn and applies
// the schema.
//
//   - Ensures the parent directory exists for relative DSNs
//     (e.g. ./data/game.db).
//   - Configures busy timeout and WAL journaling.
//   - Enforces foreign keys.
func Open(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	// _txlock=immediate makes every transaction take the write lock up
	// front, so concurrent read-modify-write of attempt counters is
	// serialized instead of failing mid-transaction.
	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
