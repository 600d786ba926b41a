package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mintybot/internal/conversation"
)

func TestLogExchange(t *testing.T) {
	dir := t.TempDir()
	logger := New(dir)
	logger.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}

	transcript := []conversation.Turn{
		conversation.DeveloperTurn("system prompt"),
		conversation.UserTurn("hello", "Alice"),
	}
	if err := logger.LogExchange("C1", transcript, "hi there", 1500*time.Millisecond); err != nil {
		t.Fatalf("log exchange: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "conversations.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"Channel ID: C1",
		"Timestamp: 2026-09-01T12:00:00Z",
		"API Call Duration: 1.5s",
		"[REQUEST]",
		"<developer> system prompt",
		"<user> (Alice) hello",
		"[RESPONSE]\nhi there",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("log missing %q:\n%s", want, content)
		}
	}
}

func TestLogExchangeAppends(t *testing.T) {
	dir := t.TempDir()
	logger := New(dir)

	turn := conversation.UserTurn("q", "")
	if err := logger.LogExchange("C1", []conversation.Turn{turn}, "a1", time.Second); err != nil {
		t.Fatalf("first exchange: %v", err)
	}
	if err := logger.LogExchange("C1", []conversation.Turn{turn}, "a2", time.Second); err != nil {
		t.Fatalf("second exchange: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "conversations.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "a1") || !strings.Contains(content, "a2") {
		t.Fatalf("exchanges not appended:\n%s", content)
	}
	if strings.Index(content, "a1") > strings.Index(content, "a2") {
		t.Fatalf("exchanges out of order")
	}
}

func TestLogExchangeCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	logger := New(dir)

	err := logger.LogExchange("C1", nil, "answer", time.Second)
	if err != nil {
		t.Fatalf("log exchange: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "conversations.log")); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
}
