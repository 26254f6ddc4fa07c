package export

import (
	"bytes"
	"testing"

	"github.com/AbdulSadath77/agent-memory/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	exporter := &YAMLExporter{}

	if err := exporter.Export(internal.CreateTestTranscript("test1"), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var decoded internal.Transcript
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.SessionID != "test1" {
		t.Errorf("SessionID = %q, want test1", decoded.SessionID)
	}
	if len(decoded.Messages) != 2 {
		t.Errorf("Messages = %d, want 2", len(decoded.Messages))
	}
	if decoded.Metadata.MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", decoded.Metadata.MessageCount)
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	exporter := &YAMLExporter{}
	if exporter.Extension() != "yaml" {
		t.Errorf("Extension() = %q, want yaml", exporter.Extension())
	}
}
