package help

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadAndGetTopic(t *testing.T) {
	content := `
topics:
  look:
    aliases:
      - l
    text: |
      LOOK command help text
  attack:
    aliases:
      - kill
      - k
    text: |
      ATTACK command help text
general_help: |
  General help text
`
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "help.yaml")
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	h, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Failed to load help: %v", err)
	}

	tests := []struct {
		topic string
		want  string
	}{
		{"look", "LOOK command help text"},
		{"l", "LOOK command help text"},
		{"LOOK", "LOOK command help text"},
		{"k", "ATTACK command help text"},
		{" kill ", "ATTACK command help text"},
		{"unknown", ""},
	}
	for _, tt := range tests {
		if got := h.GetTopic(tt.topic); got != tt.want {
			t.Errorf("GetTopic(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}

func TestGetHelpText(t *testing.T) {
	h, err := Parse([]byte(`
topics:
  look:
    text: |
      LOOK help
general_help: |
  General help
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if text := h.GetHelpText(""); text != "General help" {
		t.Errorf("Expected 'General help', got %q", text)
	}
	if text := h.GetHelpText("look"); text != "LOOK help" {
		t.Errorf("Expected 'LOOK help', got %q", text)
	}
	if text := h.GetHelpText("unknown"); !strings.HasPrefix(text, "No help available for 'unknown'") {
		t.Errorf("Expected 'no help' message, got %q", text)
	}
}

func TestLoadError(t *testing.T) {
	if _, err := Load("/nonexistent/path/help.yaml"); err == nil {
		t.Error("Expected error for non-existent file")
	}

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "invalid.yaml")
	if err := os.WriteFile(tmpFile, []byte("not: valid: yaml: content:"), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	if _, err := Load(tmpFile); err == nil {
		t.Error("Expected error for invalid YAML")
	}

	if _, err := Parse([]byte("topics: {}\n")); err == nil {
		t.Error("Expected error when general_help is missing")
	}
}

func TestDefault(t *testing.T) {
	h := Default()

	if !strings.HasPrefix(h.GetHelpText(""), "Commands:") {
		t.Errorf("overview should list commands, got %q", h.GetHelpText(""))
	}

	tests := []struct {
		alias string
		want  string
	}{
		{"move", "MOVE"},
		{"m", "MOVE"},
		{"a", "ATTACK"},
		{"quaff", "USE <item>"},
		{"cast", "ABILITY <name>"},
		{"run", "FLEE"},
		{"rest", "PRAY"},
		{"l", "LOOK"},
		{"inv", "STATUS"},
		{"abilities", "STATUS"},
		{"exit", "QUIT"},
	}
	for _, tt := range tests {
		if got := h.GetTopic(tt.alias); !strings.HasPrefix(got, tt.want) {
			t.Errorf("GetTopic(%q) = %q, want prefix %q", tt.alias, got, tt.want)
		}
	}
}
