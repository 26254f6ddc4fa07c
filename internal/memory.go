package internal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Node types allowed to hold session memory. Requests from any other node
// type are rejected before the store is touched.
var allowedNodeTypes = map[string]bool{
	"agent":         true,
	"buffer-memory": true,
	"window-memory": true,
}

// AllowedNodeType reports whether nodes of the given type may access
// session memory.
func AllowedNodeType(nodeType string) bool {
	return allowedNodeTypes[nodeType]
}

// MemoryParams carries everything the host supplies when it requests memory
// access for one execution.
type MemoryParams struct {
	SessionID string
	NodeID    string
	NodeType  string
	// TurnID is the correlation token minted for this execution. Empty for
	// manual runs: writes still happen but are never reachable through
	// turn-chain filtering afterwards.
	TurnID     string
	OwnerID    string
	WorkflowID string
	AgentName  string
}

// SessionMemory is the per-execution access facade over one memory node's
// isolated stream within a chat session. Reads are filtered through the
// active chain so a node only ever sees entries belonging to turns that are
// still part of the current conversation; a retried turn's entries stay in
// storage but become invisible.
//
// A facade is scoped to one (session, node, turn) and is expected to be used
// sequentially within one execution. Concurrent executions each mint their
// own facade; cross-execution reconciliation happens at read time in the
// chain builder, not through locks.
type SessionMemory struct {
	store  Store
	cache  *ChainCache
	params MemoryParams
	// now is swapped in tests to control timestamps.
	now func() int64
}

// NewSessionMemory validates the request and builds the facade. It fails
// with an AuthError when the node type is not allow-listed or no owner is
// resolvable; both checks run before any store access.
func NewSessionMemory(store Store, cache *ChainCache, params MemoryParams) (*SessionMemory, error) {
	if !AllowedNodeType(params.NodeType) {
		return nil, &AuthError{NodeType: params.NodeType, Reason: "node type is not allowed to access session memory"}
	}
	if params.OwnerID == "" {
		return nil, &AuthError{NodeType: params.NodeType, Reason: "no owner resolvable for memory access"}
	}
	if params.SessionID == "" || params.NodeID == "" {
		return nil, &AuthError{NodeType: params.NodeType, Reason: "session id and node id are required"}
	}

	return &SessionMemory{
		store:  store,
		cache:  cache,
		params: params,
		now:    NowMilli,
	}, nil
}

// OwnerID returns the owner this facade's writes are attributed to.
func (m *SessionMemory) OwnerID() string {
	return m.params.OwnerID
}

// TurnID returns the execution turn this facade writes under. Empty for
// manual runs.
func (m *SessionMemory) TurnID() string {
	return m.params.TurnID
}

// GetMemory returns this node's memory entries for every turn still present
// on the session's active chain, oldest first.
//
// A chain without assistant messages yields no turn ids; that means "no
// prior memory" and the entry store is not queried at all.
func (m *SessionMemory) GetMemory(ctx context.Context) ([]MemoryEntry, error) {
	messages, err := m.store.ListMessages(ctx, m.params.SessionID)
	if err != nil {
		return nil, err
	}

	chain, err := m.activeChain(messages)
	if err != nil {
		return nil, err
	}

	turnIDs := ExtractTurnIDs(chain)
	if len(turnIDs) == 0 {
		return nil, nil
	}

	return m.store.ListEntries(ctx, m.params.SessionID, m.params.NodeID, turnIDs)
}

// GetRecords is GetMemory with each entry decoded into its typed record.
func (m *SessionMemory) GetRecords(ctx context.Context) ([]Record, error) {
	entries, err := m.GetMemory(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]Record, len(entries))
	for i, e := range entries {
		records[i] = DecodeEntry(e)
	}
	return records, nil
}

// AddHumanMessage records one user message in this node's stream.
func (m *SessionMemory) AddHumanMessage(ctx context.Context, content string) error {
	return m.appendRecord(ctx, HumanRecord{Text: content})
}

// AddAIMessage records one assistant message, preserving any tool-call
// descriptors so a later read reconstructs them.
func (m *SessionMemory) AddAIMessage(ctx context.Context, content string, toolCalls ...ToolCall) error {
	return m.appendRecord(ctx, AIRecord{Text: content, Name: m.params.AgentName, ToolCalls: toolCalls})
}

// AddToolMessage records one tool invocation and its result as a single
// structured unit.
func (m *SessionMemory) AddToolMessage(ctx context.Context, callID, toolName, input, output string) error {
	return m.appendRecord(ctx, ToolRecord{CallID: callID, ToolName: toolName, Input: input, Output: output})
}

func (m *SessionMemory) appendRecord(ctx context.Context, rec Record) error {
	role, content, name, err := EncodeRecord(rec)
	if err != nil {
		return err
	}

	entry := &MemoryEntry{
		ID:        uuid.NewString(),
		SessionID: m.params.SessionID,
		NodeID:    m.params.NodeID,
		TurnID:    m.params.TurnID,
		Role:      role,
		Content:   content,
		Name:      name,
		CreatedAt: m.now(),
	}
	return m.store.AppendEntry(ctx, entry)
}

// ClearMemory irreversibly deletes every entry this node holds for the
// session. Chat messages are untouched.
func (m *SessionMemory) ClearMemory(ctx context.Context) error {
	return m.store.DeleteEntries(ctx, m.params.SessionID, m.params.NodeID)
}

// EnsureSession creates the session record if this owner does not have one
// yet. Safe to call on every execution: a second call, or losing a
// concurrent create race, is not an error. A supplied title wins over the
// agent name, which itself falls back to a workflow-level default.
func (m *SessionMemory) EnsureSession(ctx context.Context, title string) error {
	exists, err := m.store.SessionExists(ctx, m.params.SessionID, m.params.OwnerID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if title == "" {
		title = m.params.AgentName
	}
	if title == "" && m.params.WorkflowID != "" {
		title = fmt.Sprintf("Workflow %s", m.params.WorkflowID)
	}

	sess := &ChatSession{
		ID:         m.params.SessionID,
		OwnerID:    m.params.OwnerID,
		Title:      title,
		WorkflowID: m.params.WorkflowID,
		AgentName:  m.params.AgentName,
		CreatedAt:  m.now(),
	}
	LogDebug("bootstrapping session %s for owner %s", sess.ID, sess.OwnerID)
	return m.store.CreateSession(ctx, sess)
}

func (m *SessionMemory) activeChain(messages []ChatMessage) ([]ChatMessage, error) {
	if m.cache != nil {
		return m.cache.ActiveChain(m.params.SessionID, messages)
	}
	return BuildActiveChain(messages)
}
