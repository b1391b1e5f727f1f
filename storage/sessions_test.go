package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *SessionStorage {
	t.Helper()
	s, err := NewSessionStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewSessionStorage failed: %v", err)
	}
	return s
}

func TestSaveAndLoadSession(t *testing.T) {
	s := newTestStorage(t)

	session := &Session{
		Name:     "Test Session",
		Provider: "ollama",
		Model:    "llama3.1:latest",
		Messages: []Message{
			{Role: "user", Content: "hello", Timestamp: time.Now()},
			{Role: "assistant", Content: "hi there", Timestamp: time.Now()},
		},
		SystemPrompt: "Be terse.",
	}

	if err := s.Save(session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if session.ID == "" {
		t.Fatal("Save did not assign an ID")
	}
	if session.CreatedAt.IsZero() || session.UpdatedAt.IsZero() {
		t.Error("Save did not set timestamps")
	}

	loaded, err := s.Load(session.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Name != "Test Session" {
		t.Errorf("Name = %q", loaded.Name)
	}
	if loaded.Provider != "ollama" {
		t.Errorf("Provider = %q", loaded.Provider)
	}
	if len(loaded.Messages) != 2 {
		t.Errorf("Messages = %d, want 2", len(loaded.Messages))
	}
	if loaded.SystemPrompt != "Be terse." {
		t.Errorf("SystemPrompt = %q", loaded.SystemPrompt)
	}
}

func TestListSortsByUpdateTime(t *testing.T) {
	s := newTestStorage(t)

	old := &Session{Name: "old", Model: "m"}
	if err := s.Save(old); err != nil {
		t.Fatal(err)
	}
	// Force a distinct UpdatedAt on the second session
	time.Sleep(10 * time.Millisecond)
	recent := &Session{Name: "recent", Model: "m"}
	if err := s.Save(recent); err != nil {
		t.Fatal(err)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List returned %d sessions, want 2", len(list))
	}
	if list[0].Name != "recent" {
		t.Errorf("first listed session = %q, want recent", list[0].Name)
	}
}

func TestDeleteSession(t *testing.T) {
	s := newTestStorage(t)

	session := &Session{Name: "doomed", Model: "m"}
	if err := s.Save(session); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(session.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Load(session.ID); err == nil {
		t.Error("Load succeeded after Delete")
	}
}

func TestSessionFilePermissions(t *testing.T) {
	dataDir := t.TempDir()
	s, err := NewSessionStorage(dataDir)
	if err != nil {
		t.Fatal(err)
	}

	session := &Session{Name: "perm", Model: "m"}
	if err := s.Save(session); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dataDir, "sessions", session.ID+".json")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("session file permissions = %o, want 0600", perm)
	}
}

func TestSessionLockLifecycle(t *testing.T) {
	s := newTestStorage(t)

	session := &Session{Name: "locked", Model: "m"}
	if err := s.Save(session); err != nil {
		t.Fatal(err)
	}

	locked, err := s.CheckSessionLock(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if locked {
		t.Error("session reported locked before LockSession")
	}

	if err := s.LockSession(session.ID); err != nil {
		t.Fatalf("LockSession failed: %v", err)
	}
	locked, err = s.CheckSessionLock(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !locked {
		t.Error("session not reported locked after LockSession")
	}

	if err := s.UnlockSession(session.ID); err != nil {
		t.Fatalf("UnlockSession failed: %v", err)
	}
	locked, err = s.CheckSessionLock(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if locked {
		t.Error("session still reported locked after UnlockSession")
	}

	// Unlocking twice must not fail
	if err := s.UnlockSession(session.ID); err != nil {
		t.Errorf("second UnlockSession failed: %v", err)
	}
}

func TestInstanceLockLifecycle(t *testing.T) {
	s := newTestStorage(t)

	locked, _, err := s.CheckInstanceLock()
	if err != nil {
		t.Fatal(err)
	}
	if locked {
		t.Error("instance reported locked before LockInstance")
	}

	if err := s.LockInstance(); err != nil {
		t.Fatalf("LockInstance failed: %v", err)
	}
	locked, pid, err := s.CheckInstanceLock()
	if err != nil {
		t.Fatal(err)
	}
	if !locked {
		t.Error("instance not reported locked after LockInstance")
	}
	if pid != os.Getpid() {
		t.Errorf("lock PID = %d, want %d", pid, os.Getpid())
	}

	if err := s.UnlockInstance(); err != nil {
		t.Fatalf("UnlockInstance failed: %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"slashes", "a/b\\c", "a-b-c"},
		{"spaces and newlines", "hello world\nbye", "hello-world-bye"},
		{"empty becomes session", "", "session"},
		{"only punctuation becomes session", "...", "session"},
		{"long name truncated", strings.Repeat("x", 80), strings.Repeat("x", 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateSessionName(t *testing.T) {
	if got := GenerateSessionName("What is the capital of France?"); got != "What is the capital of France?" {
		t.Errorf("short message name = %q", got)
	}

	long := strings.Repeat("a", 40)
	got := GenerateSessionName(long)
	if got != strings.Repeat("a", 30)+"..." {
		t.Errorf("long message name = %q", got)
	}

	if got := GenerateSessionName(""); !strings.HasPrefix(got, "Session ") {
		t.Errorf("empty message name = %q, want Session prefix", got)
	}
}

func TestSearchMessages(t *testing.T) {
	messages := []Message{
		{Role: "system", Content: "contains needle but should be skipped"},
		{Role: "user", Content: "where is the needle?"},
		{Role: "assistant", Content: "in the haystack"},
	}

	matches := SearchMessages(messages, "NEEDLE")
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].MessageIndex != 1 {
		t.Errorf("MessageIndex = %d, want 1", matches[0].MessageIndex)
	}

	if got := SearchMessages(messages, ""); len(got) != 0 {
		t.Errorf("empty query returned %d matches", len(got))
	}
}
