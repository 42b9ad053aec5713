package domain

import "testing"

func TestMessageMatchesIgnoresSenderCase(t *testing.T) {
	a := Message{Sender: "Alice", Content: "hola", Timestamp: "2024-01-01T00:00:00Z"}
	b := Message{Sender: " alice ", Content: "hola", Timestamp: "2024-01-01T00:00:00Z"}

	if !a.Matches(b) {
		t.Fatalf("expected messages to match")
	}
}

func TestMessageMatchesIsExactOnContentAndTimestamp(t *testing.T) {
	a := Message{Sender: "alice", Content: "hola", Timestamp: "2024-01-01T00:00:00Z"}

	if a.Matches(Message{Sender: "alice", Content: "Hola", Timestamp: a.Timestamp}) {
		t.Fatalf("content comparison must be exact")
	}
	if a.Matches(Message{Sender: "alice", Content: a.Content, Timestamp: "2024-01-01T00:00:01Z"}) {
		t.Fatalf("timestamp comparison must be exact")
	}
}

func TestHasContentRejectsWhitespace(t *testing.T) {
	if (Message{Content: "   \t"}).HasContent() {
		t.Fatalf("whitespace-only content must not count as content")
	}
	if !(Message{Content: " hola "}).HasContent() {
		t.Fatalf("expected content to be detected")
	}
}

func TestNormalizeIdentity(t *testing.T) {
	if got := NormalizeIdentity("  Alice "); got != "alice" {
		t.Fatalf("expected alice, got %q", got)
	}
}
