package internal

import (
	"context"
	"sort"
	"sync"
)

// MemStore is an in-memory Store implementation guarded by a RWMutex. It is
// used by tests and by embedders that do not need durability; ordering
// semantics match the SQLite store (monotonic seq assignment, creation-time
// ordering with seq tie-break).
type MemStore struct {
	mu       sync.RWMutex
	seq      int64
	messages map[string][]ChatMessage // keyed by session id
	entries  map[string][]MemoryEntry // keyed by session id
	sessions map[string]*ChatSession  // keyed by session id
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		messages: make(map[string][]ChatMessage),
		entries:  make(map[string][]MemoryEntry),
		sessions: make(map[string]*ChatSession),
	}
}

var _ Store = (*MemStore)(nil)

// ListMessages implements Store.
func (s *MemStore) ListMessages(_ context.Context, sessionID string) ([]ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[sessionID]
	out := make([]ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

// AppendMessage implements Store.
func (s *MemStore) AppendMessage(_ context.Context, msg *ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	msg.Seq = s.seq
	s.messages[msg.SessionID] = append(s.messages[msg.SessionID], *msg)

	if sess, ok := s.sessions[msg.SessionID]; ok && sess.LastMessageAt < msg.CreatedAt {
		sess.LastMessageAt = msg.CreatedAt
	}
	return nil
}

// ListEntries implements Store.
func (s *MemStore) ListEntries(_ context.Context, sessionID, nodeID string, turnIDs []string) ([]MemoryEntry, error) {
	if len(turnIDs) == 0 {
		return nil, nil
	}

	wanted := make(map[string]bool, len(turnIDs))
	for _, id := range turnIDs {
		wanted[id] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []MemoryEntry
	for _, e := range s.entries[sessionID] {
		if e.NodeID == nodeID && e.TurnID != "" && wanted[e.TurnID] {
			out = append(out, e)
		}
	}
	// Append order follows seq, but callers may stamp timestamps that do
	// not, so re-sort on the same (created_at, seq) key the SQLite store
	// orders by.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

// AppendEntry implements Store.
func (s *MemStore) AppendEntry(_ context.Context, entry *MemoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	entry.Seq = s.seq
	s.entries[entry.SessionID] = append(s.entries[entry.SessionID], *entry)
	return nil
}

// DeleteEntries implements Store.
func (s *MemStore) DeleteEntries(_ context.Context, sessionID, nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[sessionID][:0]
	for _, e := range s.entries[sessionID] {
		if e.NodeID != nodeID {
			kept = append(kept, e)
		}
	}
	s.entries[sessionID] = kept
	return nil
}

// SessionExists implements Store.
func (s *MemStore) SessionExists(_ context.Context, id, ownerID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	return ok && sess.OwnerID == ownerID, nil
}

// CreateSession implements Store. A duplicate create is a no-op, matching
// the SQLite store's conflict behavior.
func (s *MemStore) CreateSession(_ context.Context, sess *ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.ID]; ok {
		return nil
	}
	clone := *sess
	s.sessions[sess.ID] = &clone
	return nil
}

// GetSession implements Store.
func (s *MemStore) GetSession(_ context.Context, id string) (*ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	clone := *sess
	return &clone, nil
}

// ListSessions implements Store.
func (s *MemStore) ListSessions(_ context.Context) ([]SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var infos []SessionInfo
	for _, sess := range s.sessions {
		infos = append(infos, SessionInfo{
			ID:            sess.ID,
			OwnerID:       sess.OwnerID,
			Title:         sess.Title,
			AgentName:     sess.AgentName,
			MessageCount:  len(s.messages[sess.ID]),
			LastMessageAt: sess.LastMessageAt,
		})
	}
	return infos, nil
}
