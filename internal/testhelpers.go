package internal

// Test helpers shared by the package tests. Kept out of _test files so
// multiple test files can use them.

// testCounter hands out increasing timestamps for fixture messages.
var testCounter int64

// CreateTestMessage builds a ChatMessage with an auto-incremented timestamp
// and sequence number.
func CreateTestMessage(id, sessionID, parentID string, role Role, content string) ChatMessage {
	testCounter++
	return ChatMessage{
		ID:        id,
		SessionID: sessionID,
		ParentID:  parentID,
		Role:      role,
		Content:   content,
		CreatedAt: testCounter * 1000,
		Seq:       testCounter,
	}
}

// CreateTestTurnMessage is CreateTestMessage with a turn id attached.
func CreateTestTurnMessage(id, sessionID, parentID string, role Role, content, turnID string) ChatMessage {
	m := CreateTestMessage(id, sessionID, parentID, role, content)
	m.TurnID = turnID
	return m
}

// CreateTestTranscript builds a two-message transcript for export tests.
func CreateTestTranscript(sessionID string) *Transcript {
	return &Transcript{
		SessionID: sessionID,
		Title:     "Test Conversation",
		AgentName: "helper",
		Messages: []TranscriptMessage{
			{Actor: "user", Content: "Hello, how are you?", Timestamp: "2023-01-01T00:00:00Z"},
			{Actor: "assistant", Content: "Doing well, thanks!", Timestamp: "2023-01-01T00:00:05Z", TurnID: "t1"},
		},
		Metadata: TranscriptMetadata{MessageCount: 2, StoredCount: 2},
	}
}

// CreateTestTranscriptWithMessages builds a transcript around the given
// messages.
func CreateTestTranscriptWithMessages(sessionID string, messages []TranscriptMessage) *Transcript {
	return &Transcript{
		SessionID: sessionID,
		Messages:  messages,
		Metadata:  TranscriptMetadata{MessageCount: len(messages), StoredCount: len(messages)},
	}
}
