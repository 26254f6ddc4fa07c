package testutil

import (
	"database/sql"
	"testing"
)

// CreateTestDB creates an in-memory database holding one session with a
// retried conversation: the ai reply "hello" (turn t1) was superseded by
// "hey" (turn t2), and node n1 recorded entries for both turns.
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)

	InsertSession(t, db, "s1", "owner1", "Test Conversation")

	InsertMessage(t, db, "m1", "s1", "", "human", "hi", "", 1000)
	InsertMessage(t, db, "m2", "s1", "m1", "ai", "hello", "t1", 2000)
	InsertMessage(t, db, "m3", "s1", "m1", "ai", "hey", "t2", 3000)

	InsertEntry(t, db, "e1", "s1", "n1", "t1", "ai", `{"text":"hello"}`, "agent", 2000)
	InsertEntry(t, db, "e2", "s1", "n1", "t2", "ai", `{"text":"hey"}`, "agent", 3000)

	return db
}
