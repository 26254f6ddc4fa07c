package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// Schema mirrors the production DDL so fixtures do not depend on the
// internal package.
const Schema = `
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
`

// CreateInMemoryDB creates an in-memory SQLite database with the memory
// schema for testing
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// InsertSession inserts a session row
func InsertSession(t *testing.T, db *sql.DB, id, ownerID, title string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO chat_session (id, owner_id, title, created_at) VALUES (?, ?, ?, ?)`,
		id, ownerID, title, int64(1000))
	if err != nil {
		t.Fatalf("Failed to insert session %s: %v", id, err)
	}
}

// InsertMessage inserts a chat message row. An empty parentID or turnID is
// stored as NULL.
func InsertMessage(t *testing.T, db *sql.DB, id, sessionID, parentID, role, content, turnID string, createdAt int64) {
	t.Helper()
	var parent, turn interface{}
	if parentID != "" {
		parent = parentID
	}
	if turnID != "" {
		turn = turnID
	}
	_, err := db.Exec(
		`INSERT INTO chat_message (id, session_id, parent_id, role, content, turn_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, sessionID, parent, role, content, turn, createdAt)
	if err != nil {
		t.Fatalf("Failed to insert message %s: %v", id, err)
	}
}

// InsertEntry inserts a memory entry row
func InsertEntry(t *testing.T, db *sql.DB, id, sessionID, nodeID, turnID, role, content, name string, createdAt int64) {
	t.Helper()
	var turn interface{}
	if turnID != "" {
		turn = turnID
	}
	_, err := db.Exec(
		`INSERT INTO memory_entry (id, session_id, node_id, turn_id, role, content, name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, sessionID, nodeID, turn, role, content, name, createdAt)
	if err != nil {
		t.Fatalf("Failed to insert entry %s: %v", id, err)
	}
}
