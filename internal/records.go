package internal

import (
	"encoding/json"
	"fmt"
)

// Record is the typed view of a memory entry that memory consumers operate
// on. The variants form a small closed set tagged by role: HumanRecord,
// AIRecord, SystemRecord and ToolRecord. Each variant defines its own
// parse-or-fallback rule, so a consumer never sees a decode failure: a
// malformed or legacy payload degrades into plain display text instead of
// breaking the whole history load.
type Record interface {
	RecordRole() Role
}

// HumanRecord is a message written by the user.
type HumanRecord struct {
	Text string
	Name string
}

// AIRecord is an assistant response. ToolCalls carries the tool invocations
// the assistant requested alongside its text; they survive a write/read
// round trip through the flat entry shape.
type AIRecord struct {
	Text      string
	Name      string
	ToolCalls []ToolCall
}

// SystemRecord is a system message. Entries with an unrecognized role also
// decode into this variant.
type SystemRecord struct {
	Text string
}

// ToolRecord is one tool invocation and its result, stored as a single
// structured unit.
type ToolRecord struct {
	CallID   string
	ToolName string
	Input    string
	Output   string
}

// ToolCall describes one tool invocation requested by an assistant message.
type ToolCall struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Input string `json:"input,omitempty"`
}

func (HumanRecord) RecordRole() Role  { return RoleHuman }
func (AIRecord) RecordRole() Role     { return RoleAI }
func (SystemRecord) RecordRole() Role { return RoleSystem }
func (ToolRecord) RecordRole() Role   { return RoleTool }

// aiPayload is the stored content shape for ai-role entries.
type aiPayload struct {
	Text      string     `json:"text"`
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
}

// toolPayload is the stored content shape for tool-role entries.
type toolPayload struct {
	ToolCallID string `json:"toolCallId"`
	ToolName   string `json:"toolName"`
	Input      string `json:"input,omitempty"`
	Output     string `json:"output,omitempty"`
}

// DecodeEntry converts a stored entry into its typed record. It never fails:
// content that does not match the role's expected shape is kept as raw
// display text, and unknown roles are treated as system messages.
func DecodeEntry(e MemoryEntry) Record {
	switch e.Role {
	case RoleHuman:
		return HumanRecord{Text: e.Content, Name: e.Name}
	case RoleAI:
		var p aiPayload
		if err := json.Unmarshal([]byte(e.Content), &p); err != nil {
			// Legacy or malformed payload: the raw content becomes the text.
			LogDebug("entry %s: ai payload not structured, using raw content", e.ID)
			return AIRecord{Text: e.Content, Name: e.Name}
		}
		return AIRecord{Text: p.Text, Name: e.Name, ToolCalls: p.ToolCalls}
	case RoleTool:
		var p toolPayload
		if err := json.Unmarshal([]byte(e.Content), &p); err != nil {
			LogDebug("entry %s: tool payload not structured, using raw content", e.ID)
			return ToolRecord{ToolName: e.Name, Output: e.Content}
		}
		return ToolRecord{CallID: p.ToolCallID, ToolName: p.ToolName, Input: p.Input, Output: p.Output}
	case RoleSystem:
		return SystemRecord{Text: e.Content}
	default:
		return SystemRecord{Text: e.Content}
	}
}

// EncodeRecord flattens a typed record into the (role, content, name) shape
// the store persists. Assistant tool-call metadata is serialized into the
// content payload so DecodeEntry reconstructs an equivalent record.
func EncodeRecord(r Record) (role Role, content, name string, err error) {
	switch rec := r.(type) {
	case HumanRecord:
		return RoleHuman, rec.Text, rec.Name, nil
	case AIRecord:
		raw, err := json.Marshal(aiPayload{Text: rec.Text, ToolCalls: rec.ToolCalls})
		if err != nil {
			return "", "", "", fmt.Errorf("failed to encode ai record: %w", err)
		}
		return RoleAI, string(raw), rec.Name, nil
	case SystemRecord:
		return RoleSystem, rec.Text, "", nil
	case ToolRecord:
		raw, err := json.Marshal(toolPayload{
			ToolCallID: rec.CallID,
			ToolName:   rec.ToolName,
			Input:      rec.Input,
			Output:     rec.Output,
		})
		if err != nil {
			return "", "", "", fmt.Errorf("failed to encode tool record: %w", err)
		}
		return RoleTool, string(raw), rec.ToolName, nil
	default:
		return "", "", "", fmt.Errorf("unsupported record type %T", r)
	}
}

// DisplayText returns the best-effort text rendering of a record, used by
// transcript export and the CLI.
func DisplayText(r Record) string {
	switch rec := r.(type) {
	case HumanRecord:
		return rec.Text
	case AIRecord:
		return rec.Text
	case SystemRecord:
		return rec.Text
	case ToolRecord:
		return rec.Output
	default:
		return ""
	}
}
