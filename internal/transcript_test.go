package internal

import (
	"testing"
)

func TestActor(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleHuman, "user"},
		{RoleAI, "assistant"},
		{RoleTool, "tool"},
		{RoleSystem, "system"},
		{Role("mystery"), "system"},
	}
	for _, tt := range tests {
		if got := Actor(tt.role); got != tt.want {
			t.Errorf("Actor(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestBuildTranscript(t *testing.T) {
	sess := &ChatSession{
		ID:        "s1",
		OwnerID:   "owner1",
		Title:     "Chat",
		AgentName: "helper",
		CreatedAt: 1700000000000,
	}
	chain := []ChatMessage{
		CreateTestMessage("m1", "s1", "", RoleHuman, "hi"),
		CreateTestTurnMessage("m2", "s1", "m1", RoleAI, "hello", "t1"),
	}

	transcript := BuildTranscript(sess, chain, 3)

	if transcript.SessionID != "s1" || transcript.Title != "Chat" {
		t.Errorf("transcript header = %+v", transcript)
	}
	if len(transcript.Messages) != 2 {
		t.Fatalf("Messages = %d, want 2", len(transcript.Messages))
	}
	if transcript.Messages[0].Actor != "user" || transcript.Messages[1].Actor != "assistant" {
		t.Errorf("actors = %q, %q", transcript.Messages[0].Actor, transcript.Messages[1].Actor)
	}
	if transcript.Messages[1].TurnID != "t1" {
		t.Errorf("TurnID = %q, want t1", transcript.Messages[1].TurnID)
	}
	if transcript.Metadata.MessageCount != 2 || transcript.Metadata.StoredCount != 3 {
		t.Errorf("Metadata = %+v", transcript.Metadata)
	}
	if transcript.Metadata.CreatedAt == "" {
		t.Error("CreatedAt should be formatted")
	}
}

func TestBuildTranscript_NilSession(t *testing.T) {
	chain := []ChatMessage{CreateTestMessage("m1", "s9", "", RoleHuman, "hi")}

	transcript := BuildTranscript(nil, chain, 1)
	if transcript.SessionID != "s9" {
		t.Errorf("SessionID = %q, want s9 (from chain)", transcript.SessionID)
	}
}

func TestBuildTranscript_EmptyChain(t *testing.T) {
	transcript := BuildTranscript(&ChatSession{ID: "s1", OwnerID: "o"}, nil, 0)
	if len(transcript.Messages) != 0 {
		t.Errorf("Messages = %d, want 0", len(transcript.Messages))
	}
}
