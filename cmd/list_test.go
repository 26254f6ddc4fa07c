package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/AbdulSadath77/agent-memory/internal"
)

// seedTestDB creates a database file with one session holding a retried
// conversation, and points the --db flag at it for the duration of the test.
func seedTestDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory.db")

	db, err := internal.OpenDatabase(path)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := internal.NewSQLiteStore(db)
	ctx := context.Background()

	sess := &internal.ChatSession{ID: "s1", OwnerID: "owner1", Title: "Test Chat", AgentName: "helper", CreatedAt: 1000}
	if err := store.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	msgs := []internal.ChatMessage{
		{ID: "m1", SessionID: "s1", Role: internal.RoleHuman, Content: "hi", CreatedAt: 1000},
		{ID: "m2", SessionID: "s1", ParentID: "m1", Role: internal.RoleAI, Content: "hello", TurnID: "t1", CreatedAt: 2000},
		{ID: "m3", SessionID: "s1", ParentID: "m1", Role: internal.RoleAI, Content: "hey", TurnID: "t2", CreatedAt: 3000, Revision: true},
	}
	for i := range msgs {
		if err := store.AppendMessage(ctx, &msgs[i]); err != nil {
			t.Fatalf("AppendMessage() error = %v", err)
		}
	}

	original := dbPath
	dbPath = path
	t.Cleanup(func() { dbPath = original })

	return path
}

func TestListCommand(t *testing.T) {
	seedTestDB(t)

	rootCmd.SetArgs([]string{"list"})
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("list command error = %v", err)
	}
}

func TestListCommand_EmptyDatabase(t *testing.T) {
	original := dbPath
	dbPath = filepath.Join(t.TempDir(), "empty.db")
	defer func() { dbPath = original }()

	rootCmd.SetArgs([]string{"list"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("list command on empty database error = %v", err)
	}
}
