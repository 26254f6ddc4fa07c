package internal

import (
	"time"
)

// Role identifies who produced a message or memory entry.
type Role string

const (
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
	RoleSystem Role = "system"
	RoleTool   Role = "tool"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleHuman, RoleAI, RoleSystem, RoleTool:
		return true
	}
	return false
}

// ChatMessage is one node in a session's message tree.
//
// Messages are never mutated after creation. An edit or retry of a message
// is stored as a new sibling under the same parent; the newer sibling
// supersedes the older one when the active chain is built. ParentID is empty
// only for the root message of a session.
type ChatMessage struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	ParentID  string `json:"parentId,omitempty"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	TurnID    string `json:"turnId,omitempty"`
	// Revision marks a message created as an edit or retry of a sibling.
	// The chain builder does not consult it; selection is purely latest-child.
	Revision  bool  `json:"revision,omitempty"`
	CreatedAt int64 `json:"createdAt"`
	// Seq is the store-assigned insertion sequence number. It breaks ties
	// between siblings whose CreatedAt timestamps collide.
	Seq int64 `json:"seq,omitempty"`
}

// Created returns the message creation time.
func (m *ChatMessage) Created() time.Time {
	return time.Unix(0, m.CreatedAt*int64(time.Millisecond))
}

// IsRoot reports whether the message starts a session's tree.
func (m *ChatMessage) IsRoot() bool {
	return m.ParentID == ""
}

// MemoryEntry is one fact remembered by exactly one memory node for one turn.
//
// Entries are append-only and owned by their (SessionID, NodeID) pair; nodes
// observing the same session never share entries. TurnID is empty for entries
// written outside a tracked turn (manual runs); such entries are never
// returned by turn-filtered reads.
type MemoryEntry struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	NodeID    string `json:"nodeId"`
	TurnID    string `json:"turnId,omitempty"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Name      string `json:"name,omitempty"`
	CreatedAt int64  `json:"createdAt"`
	Seq       int64  `json:"seq,omitempty"`
}

// Created returns the entry creation time.
func (e *MemoryEntry) Created() time.Time {
	return time.Unix(0, e.CreatedAt*int64(time.Millisecond))
}

// ChatSession identifies one conversation.
type ChatSession struct {
	ID            string `json:"id"`
	OwnerID       string `json:"ownerId"`
	Title         string `json:"title,omitempty"`
	WorkflowID    string `json:"workflowId,omitempty"`
	AgentID       string `json:"agentId,omitempty"`
	AgentName     string `json:"agentName,omitempty"`
	Provider      string `json:"provider,omitempty"`
	Model         string `json:"model,omitempty"`
	CredentialID  string `json:"credentialId,omitempty"`
	LastMessageAt int64  `json:"lastMessageAt,omitempty"`
	CreatedAt     int64  `json:"createdAt"`
}

// SessionInfo is the summary row used for session listings.
type SessionInfo struct {
	ID            string `json:"id"`
	OwnerID       string `json:"ownerId"`
	Title         string `json:"title,omitempty"`
	AgentName     string `json:"agentName,omitempty"`
	MessageCount  int    `json:"messageCount"`
	LastMessageAt int64  `json:"lastMessageAt,omitempty"`
}

// NowMilli returns the current wall clock in milliseconds, the unit every
// CreatedAt column uses.
func NowMilli() int64 {
	return time.Now().UnixMilli()
}
