package internal

import (
	"context"
	"testing"

	"github.com/AbdulSadath77/agent-memory/testutil"
)

func TestSQLiteStore_ListMessages(t *testing.T) {
	db := testutil.CreateTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	messages, err := store.ListMessages(ctx, "s1")
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("ListMessages() = %d messages, want 3", len(messages))
	}

	chain, err := BuildActiveChain(messages)
	if err != nil {
		t.Fatalf("BuildActiveChain() error = %v", err)
	}
	if len(chain) != 2 {
		t.Fatalf("active chain = %d messages, want 2", len(chain))
	}
	if chain[1].Content != "hey" {
		t.Errorf("leaf content = %q, want hey (retry wins)", chain[1].Content)
	}
}

func TestSQLiteStore_AppendMessageAssignsSeq(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	m1 := ChatMessage{ID: "m1", SessionID: "s1", Role: RoleHuman, Content: "hi", CreatedAt: 1000}
	m2 := ChatMessage{ID: "m2", SessionID: "s1", ParentID: "m1", Role: RoleAI, Content: "hello", TurnID: "t1", CreatedAt: 2000}

	if err := store.AppendMessage(ctx, &m1); err != nil {
		t.Fatalf("AppendMessage() error = %v", err)
	}
	if err := store.AppendMessage(ctx, &m2); err != nil {
		t.Fatalf("AppendMessage() error = %v", err)
	}

	if m1.Seq == 0 || m2.Seq <= m1.Seq {
		t.Errorf("seq assignment not monotonic: %d, %d", m1.Seq, m2.Seq)
	}

	got, err := store.ListMessages(ctx, "s1")
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListMessages() = %d messages, want 2", len(got))
	}
}

func TestSQLiteStore_AppendMessageUpdatesLastMessageAt(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	testutil.InsertSession(t, db, "s1", "owner1", "Chat")

	m := ChatMessage{ID: "m1", SessionID: "s1", Role: RoleHuman, Content: "hi", CreatedAt: 5000}
	if err := store.AppendMessage(ctx, &m); err != nil {
		t.Fatalf("AppendMessage() error = %v", err)
	}

	sess, err := store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if sess.LastMessageAt != 5000 {
		t.Errorf("LastMessageAt = %d, want 5000", sess.LastMessageAt)
	}
}

func TestSQLiteStore_ListEntries_FiltersByTurnAndNode(t *testing.T) {
	db := testutil.CreateTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	// Another node's entry for the same turn must stay invisible.
	testutil.InsertEntry(t, db, "e3", "s1", "n2", "t2", "ai", `{"text":"other node"}`, "agent", 3500)

	entries, err := store.ListEntries(ctx, "s1", "n1", []string{"t2"})
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ListEntries() = %d entries, want 1", len(entries))
	}
	if entries[0].ID != "e2" {
		t.Errorf("entry = %s, want e2", entries[0].ID)
	}
}

func TestSQLiteStore_ListEntries_EmptyTurnSet(t *testing.T) {
	db := testutil.CreateTestDB(t)
	store := NewSQLiteStore(db)

	entries, err := store.ListEntries(context.Background(), "s1", "n1", nil)
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("ListEntries() with no turns = %d entries, want 0", len(entries))
	}
}

func TestSQLiteStore_ListEntries_OrderedByCreation(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	testutil.InsertEntry(t, db, "late", "s1", "n1", "t1", "ai", "b", "", 2000)
	testutil.InsertEntry(t, db, "early", "s1", "n1", "t1", "human", "a", "", 1000)
	// Same timestamp as "late": insertion order (seq) decides.
	testutil.InsertEntry(t, db, "tied", "s1", "n1", "t1", "tool", "c", "", 2000)

	entries, err := store.ListEntries(ctx, "s1", "n1", []string{"t1"})
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	want := []string{"early", "late", "tied"}
	if len(entries) != len(want) {
		t.Fatalf("ListEntries() = %d entries, want %d", len(entries), len(want))
	}
	for i, id := range want {
		if entries[i].ID != id {
			t.Errorf("entries[%d].ID = %q, want %q", i, entries[i].ID, id)
		}
	}
}

func TestSQLiteStore_AppendAndDeleteEntries(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	e1 := MemoryEntry{ID: "e1", SessionID: "s1", NodeID: "n1", TurnID: "t1", Role: RoleHuman, Content: "hi", CreatedAt: 1000}
	e2 := MemoryEntry{ID: "e2", SessionID: "s1", NodeID: "n2", TurnID: "t1", Role: RoleHuman, Content: "hi", CreatedAt: 1000}
	if err := store.AppendEntry(ctx, &e1); err != nil {
		t.Fatalf("AppendEntry() error = %v", err)
	}
	if err := store.AppendEntry(ctx, &e2); err != nil {
		t.Fatalf("AppendEntry() error = %v", err)
	}

	if err := store.DeleteEntries(ctx, "s1", "n1"); err != nil {
		t.Fatalf("DeleteEntries() error = %v", err)
	}

	gone, err := store.ListEntries(ctx, "s1", "n1", []string{"t1"})
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(gone) != 0 {
		t.Errorf("node n1 entries remain after delete: %d", len(gone))
	}

	kept, err := store.ListEntries(ctx, "s1", "n2", []string{"t1"})
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(kept) != 1 {
		t.Errorf("node n2 entries = %d, want 1 (unaffected)", len(kept))
	}
}

func TestSQLiteStore_SessionLifecycle(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	exists, err := store.SessionExists(ctx, "s1", "owner1")
	if err != nil {
		t.Fatalf("SessionExists() error = %v", err)
	}
	if exists {
		t.Error("SessionExists() = true before create")
	}

	sess := &ChatSession{ID: "s1", OwnerID: "owner1", Title: "Chat", CreatedAt: 1000}
	if err := store.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	// A duplicate create loses the conflict silently.
	dup := &ChatSession{ID: "s1", OwnerID: "owner1", Title: "Other", CreatedAt: 2000}
	if err := store.CreateSession(ctx, dup); err != nil {
		t.Fatalf("duplicate CreateSession() error = %v", err)
	}

	got, err := store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got == nil || got.Title != "Chat" {
		t.Errorf("GetSession() = %+v, want original record", got)
	}

	exists, err = store.SessionExists(ctx, "s1", "owner1")
	if err != nil {
		t.Fatalf("SessionExists() error = %v", err)
	}
	if !exists {
		t.Error("SessionExists() = false after create")
	}

	// Existence is owner-scoped.
	exists, err = store.SessionExists(ctx, "s1", "someone-else")
	if err != nil {
		t.Fatalf("SessionExists() error = %v", err)
	}
	if exists {
		t.Error("SessionExists() = true for wrong owner")
	}
}

func TestSQLiteStore_GetSession_Absent(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	store := NewSQLiteStore(db)

	sess, err := store.GetSession(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if sess != nil {
		t.Errorf("GetSession() = %+v, want nil for absent session", sess)
	}
}

func TestSQLiteStore_ListSessions(t *testing.T) {
	db := testutil.CreateTestDB(t)
	store := NewSQLiteStore(db)

	infos, err := store.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("ListSessions() = %d sessions, want 1", len(infos))
	}
	if infos[0].ID != "s1" || infos[0].MessageCount != 3 {
		t.Errorf("ListSessions()[0] = %+v", infos[0])
	}
}

// The facade behaves identically over the SQLite store and the in-memory
// store; this exercises the full read path end to end against SQLite.
func TestSQLiteStore_FacadeIntegration(t *testing.T) {
	db := testutil.CreateTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	mem, err := NewSessionMemory(store, NewChainCache(), MemoryParams{
		SessionID: "s1",
		NodeID:    "n1",
		NodeType:  "agent",
		TurnID:    "t2",
		OwnerID:   "owner1",
	})
	if err != nil {
		t.Fatalf("NewSessionMemory() error = %v", err)
	}

	entries, err := mem.GetMemory(ctx)
	if err != nil {
		t.Fatalf("GetMemory() error = %v", err)
	}
	// The fixture's retry made t2 the active turn; t1's entry is invisible.
	if len(entries) != 1 {
		t.Fatalf("GetMemory() = %d entries, want 1", len(entries))
	}
	if entries[0].TurnID != "t2" {
		t.Errorf("entry turn = %q, want t2", entries[0].TurnID)
	}
}
