package internal

import (
	"time"
)

// Transcript is the normalized, export-friendly view of a session's active
// chain.
type Transcript struct {
	SessionID string              `json:"sessionId" yaml:"session_id"`
	Title     string              `json:"title,omitempty" yaml:"title,omitempty"`
	AgentName string              `json:"agentName,omitempty" yaml:"agent_name,omitempty"`
	Messages  []TranscriptMessage `json:"messages" yaml:"messages"`
	Metadata  TranscriptMetadata  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// TranscriptMessage is one message on the active chain.
type TranscriptMessage struct {
	Timestamp string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Actor     string `json:"actor" yaml:"actor"` // "user", "assistant", "system", "tool"
	Content   string `json:"content" yaml:"content"`
	TurnID    string `json:"turnId,omitempty" yaml:"turn_id,omitempty"`
}

// TranscriptMetadata carries additional session information.
type TranscriptMetadata struct {
	OwnerID       string `json:"ownerId,omitempty" yaml:"owner_id,omitempty"`
	WorkflowID    string `json:"workflowId,omitempty" yaml:"workflow_id,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
	LastMessageAt string `json:"lastMessageAt,omitempty" yaml:"last_message_at,omitempty"`
	MessageCount  int    `json:"messageCount" yaml:"message_count"`
	// StoredCount is the total number of stored messages including
	// superseded branches; always >= MessageCount.
	StoredCount int `json:"storedCount,omitempty" yaml:"stored_count,omitempty"`
}

// Actor maps a message role to its transcript actor label.
func Actor(r Role) string {
	switch r {
	case RoleHuman:
		return "user"
	case RoleAI:
		return "assistant"
	case RoleTool:
		return "tool"
	default:
		return "system"
	}
}

// BuildTranscript renders a session and its active chain as a Transcript.
// The session record may be nil when only messages are available.
func BuildTranscript(sess *ChatSession, chain []ChatMessage, storedCount int) *Transcript {
	t := &Transcript{
		Metadata: TranscriptMetadata{
			MessageCount: len(chain),
			StoredCount:  storedCount,
		},
	}

	if sess != nil {
		t.SessionID = sess.ID
		t.Title = sess.Title
		t.AgentName = sess.AgentName
		t.Metadata.OwnerID = sess.OwnerID
		t.Metadata.WorkflowID = sess.WorkflowID
		t.Metadata.CreatedAt = formatMilli(sess.CreatedAt)
		t.Metadata.LastMessageAt = formatMilli(sess.LastMessageAt)
	} else if len(chain) > 0 {
		t.SessionID = chain[0].SessionID
	}

	for _, m := range chain {
		t.Messages = append(t.Messages, TranscriptMessage{
			Timestamp: formatMilli(m.CreatedAt),
			Actor:     Actor(m.Role),
			Content:   m.Content,
			TurnID:    m.TurnID,
		})
	}

	return t
}

func formatMilli(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.Unix(0, ms*int64(time.Millisecond)).UTC().Format(time.RFC3339)
}
