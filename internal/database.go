package internal

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// schema holds the full DDL for the memory database. CreatedAt columns are
// unix milliseconds; every seq column is the table rowid, which sqlite
// assigns monotonically and which breaks ordering ties when timestamps
// collide.
const schema = `
CREATE TABLE IF NOT EXISTS chat_session (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	title TEXT,
	workflow_id TEXT,
	agent_id TEXT,
	agent_name TEXT,
	provider TEXT,
	model TEXT,
	credential_id TEXT,
	last_message_at INTEGER,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_message (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	session_id TEXT NOT NULL,
	parent_id TEXT,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	turn_id TEXT,
	revision INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_message_session ON chat_message(session_id);
CREATE INDEX IF NOT EXISTS idx_message_parent ON chat_message(parent_id);

CREATE TABLE IF NOT EXISTS memory_entry (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	session_id TEXT NOT NULL,
	node_id TEXT NOT NULL,
	turn_id TEXT,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	name TEXT,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entry_scope ON memory_entry(session_id, node_id);
`

// OpenDatabase opens (creating if needed) the SQLite memory database and
// applies the schema.
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Key: path, Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Key: path, Err: fmt.Errorf("database ping failed: %w", err)}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the tables and indexes if they do not exist yet.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return &StorageError{Op: "migrate", Key: "schema", Err: err}
	}
	return nil
}
