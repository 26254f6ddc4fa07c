package internal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Store is the persistence contract the memory subsystem consumes. Callers
// must not assume anything about the storage shape behind it. All methods
// take a context and surface I/O failures unchanged; retries, if any, are
// the implementation's concern.
type Store interface {
	// ListMessages returns every stored message for a session, in no
	// particular order.
	ListMessages(ctx context.Context, sessionID string) ([]ChatMessage, error)

	// AppendMessage inserts one message. An edit or retry is an insert of a
	// new sibling under an existing parent, never an update. The store
	// assigns Seq and echoes it back on the passed message.
	AppendMessage(ctx context.Context, msg *ChatMessage) error

	// ListEntries returns the memory entries for (sessionID, nodeID) whose
	// turn id is in turnIDs, ordered by creation. An empty turnIDs always
	// yields an empty result.
	ListEntries(ctx context.Context, sessionID, nodeID string, turnIDs []string) ([]MemoryEntry, error)

	// AppendEntry inserts one immutable memory entry.
	AppendEntry(ctx context.Context, entry *MemoryEntry) error

	// DeleteEntries removes every entry owned by (sessionID, nodeID).
	DeleteEntries(ctx context.Context, sessionID, nodeID string) error

	// SessionExists reports whether a session with this id and owner exists.
	SessionExists(ctx context.Context, id, ownerID string) (bool, error)

	// CreateSession inserts a session record. Concurrent duplicate creates
	// resolve to "already exists": losing the race is not an error.
	CreateSession(ctx context.Context, sess *ChatSession) error

	// GetSession loads one session record, or nil when absent.
	GetSession(ctx context.Context, id string) (*ChatSession, error)

	// ListSessions returns summary rows for every stored session.
	ListSessions(ctx context.Context) ([]SessionInfo, error)
}

// SQLiteStore is the SQLite-backed Store implementation.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store over an already opened database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

// ListMessages implements Store.
func (s *SQLiteStore) ListMessages(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	query := `SELECT seq, id, session_id, parent_id, role, content, turn_id, revision, created_at
		FROM chat_message WHERE session_id = ?`
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, &StorageError{Op: "query", Key: sessionID, Err: err}
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var m ChatMessage
		var parentID, turnID sql.NullString
		var revision int
		if err := rows.Scan(&m.Seq, &m.ID, &m.SessionID, &parentID, &m.Role, &m.Content, &turnID, &revision, &m.CreatedAt); err != nil {
			return nil, &StorageError{Op: "query", Key: sessionID, Err: fmt.Errorf("scan failed: %w", err)}
		}
		m.ParentID = parentID.String
		m.TurnID = turnID.String
		m.Revision = revision != 0
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query", Key: sessionID, Err: err}
	}

	return messages, nil
}

// AppendMessage implements Store.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *ChatMessage) error {
	query := `INSERT INTO chat_message (id, session_id, parent_id, role, content, turn_id, revision, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query,
		msg.ID, msg.SessionID, nullable(msg.ParentID), string(msg.Role),
		msg.Content, nullable(msg.TurnID), boolToInt(msg.Revision), msg.CreatedAt)
	if err != nil {
		return &StorageError{Op: "append", Key: msg.ID, Err: err}
	}
	if seq, err := res.LastInsertId(); err == nil {
		msg.Seq = seq
	}

	// Keep the session's activity column in step with its newest message.
	update := `UPDATE chat_session SET last_message_at = ? WHERE id = ? AND IFNULL(last_message_at, 0) < ?`
	if _, err := s.db.ExecContext(ctx, update, msg.CreatedAt, msg.SessionID, msg.CreatedAt); err != nil {
		LogWarn("failed to update last_message_at for session %s: %v", msg.SessionID, err)
	}

	return nil
}

// ListEntries implements Store.
func (s *SQLiteStore) ListEntries(ctx context.Context, sessionID, nodeID string, turnIDs []string) ([]MemoryEntry, error) {
	if len(turnIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(turnIDs))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf(`SELECT seq, id, session_id, node_id, turn_id, role, content, name, created_at
		FROM memory_entry
		WHERE session_id = ? AND node_id = ? AND turn_id IN (%s)
		ORDER BY created_at, seq`, placeholders)

	args := make([]interface{}, 0, len(turnIDs)+2)
	args = append(args, sessionID, nodeID)
	for _, id := range turnIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Op: "query", Key: sessionID, Err: err}
	}
	defer rows.Close()

	var entries []MemoryEntry
	for rows.Next() {
		var e MemoryEntry
		var turnID, name sql.NullString
		if err := rows.Scan(&e.Seq, &e.ID, &e.SessionID, &e.NodeID, &turnID, &e.Role, &e.Content, &name, &e.CreatedAt); err != nil {
			return nil, &StorageError{Op: "query", Key: sessionID, Err: fmt.Errorf("scan failed: %w", err)}
		}
		e.TurnID = turnID.String
		e.Name = name.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query", Key: sessionID, Err: err}
	}

	return entries, nil
}

// AppendEntry implements Store.
func (s *SQLiteStore) AppendEntry(ctx context.Context, entry *MemoryEntry) error {
	query := `INSERT INTO memory_entry (id, session_id, node_id, turn_id, role, content, name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.SessionID, entry.NodeID, nullable(entry.TurnID),
		string(entry.Role), entry.Content, nullable(entry.Name), entry.CreatedAt)
	if err != nil {
		return &StorageError{Op: "append", Key: entry.ID, Err: err}
	}
	if seq, err := res.LastInsertId(); err == nil {
		entry.Seq = seq
	}
	return nil
}

// DeleteEntries implements Store.
func (s *SQLiteStore) DeleteEntries(ctx context.Context, sessionID, nodeID string) error {
	query := `DELETE FROM memory_entry WHERE session_id = ? AND node_id = ?`
	if _, err := s.db.ExecContext(ctx, query, sessionID, nodeID); err != nil {
		return &StorageError{Op: "delete", Key: sessionID, Err: err}
	}
	return nil
}

// SessionExists implements Store.
func (s *SQLiteStore) SessionExists(ctx context.Context, id, ownerID string) (bool, error) {
	query := `SELECT COUNT(1) FROM chat_session WHERE id = ? AND owner_id = ?`
	var count int
	if err := s.db.QueryRowContext(ctx, query, id, ownerID).Scan(&count); err != nil {
		return false, &StorageError{Op: "query", Key: id, Err: err}
	}
	return count > 0, nil
}

// CreateSession implements Store. ON CONFLICT DO NOTHING makes the
// check-then-create bootstrap safe when concurrent executions race to
// create the same new session: the loser's insert is a no-op.
func (s *SQLiteStore) CreateSession(ctx context.Context, sess *ChatSession) error {
	query := `INSERT INTO chat_session
		(id, owner_id, title, workflow_id, agent_id, agent_name, provider, model, credential_id, last_message_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`
	_, err := s.db.ExecContext(ctx, query,
		sess.ID, sess.OwnerID, nullable(sess.Title), nullable(sess.WorkflowID),
		nullable(sess.AgentID), nullable(sess.AgentName), nullable(sess.Provider),
		nullable(sess.Model), nullable(sess.CredentialID), sess.LastMessageAt, sess.CreatedAt)
	if err != nil {
		return &StorageError{Op: "append", Key: sess.ID, Err: err}
	}
	return nil
}

// GetSession implements Store.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*ChatSession, error) {
	query := `SELECT id, owner_id, title, workflow_id, agent_id, agent_name, provider, model, credential_id, last_message_at, created_at
		FROM chat_session WHERE id = ?`
	var sess ChatSession
	var title, workflowID, agentID, agentName, provider, model, credentialID sql.NullString
	var lastMessageAt sql.NullInt64
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&sess.ID, &sess.OwnerID, &title, &workflowID, &agentID, &agentName,
		&provider, &model, &credentialID, &lastMessageAt, &sess.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "query", Key: id, Err: err}
	}
	sess.Title = title.String
	sess.WorkflowID = workflowID.String
	sess.AgentID = agentID.String
	sess.AgentName = agentName.String
	sess.Provider = provider.String
	sess.Model = model.String
	sess.CredentialID = credentialID.String
	sess.LastMessageAt = lastMessageAt.Int64
	return &sess, nil
}

// ListSessions implements Store.
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	query := `SELECT s.id, s.owner_id, IFNULL(s.title, ''), IFNULL(s.agent_name, ''),
			(SELECT COUNT(1) FROM chat_message m WHERE m.session_id = s.id),
			IFNULL(s.last_message_at, 0)
		FROM chat_session s
		ORDER BY IFNULL(s.last_message_at, s.created_at) DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &StorageError{Op: "query", Key: "sessions", Err: err}
	}
	defer rows.Close()

	var infos []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.OwnerID, &info.Title, &info.AgentName, &info.MessageCount, &info.LastMessageAt); err != nil {
			return nil, &StorageError{Op: "query", Key: "sessions", Err: fmt.Errorf("scan failed: %w", err)}
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query", Key: "sessions", Err: err}
	}

	return infos, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
