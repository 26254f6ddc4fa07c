package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/AbdulSadath77/agent-memory/internal"
)

func TestJSONLExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	exporter := &JSONLExporter{}

	if err := exporter.Export(internal.CreateTestTranscript("test1"), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var lines []map[string]interface{}
	for scanner.Scan() {
		var obj map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &obj); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		lines = append(lines, obj)
	}

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0]["actor"] != "user" || lines[1]["actor"] != "assistant" {
		t.Errorf("actors = %v, %v", lines[0]["actor"], lines[1]["actor"])
	}
	if lines[1]["turnId"] != "t1" {
		t.Errorf("turnId = %v, want t1", lines[1]["turnId"])
	}
	if _, ok := lines[0]["turnId"]; ok {
		t.Error("user line should omit turnId")
	}
}

func TestJSONLExporter_Extension(t *testing.T) {
	exporter := &JSONLExporter{}
	if exporter.Extension() != "jsonl" {
		t.Errorf("Extension() = %q, want jsonl", exporter.Extension())
	}
}
