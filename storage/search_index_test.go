package storage

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestSearchAllSessionsRanksSubstringFirst(t *testing.T) {
	s := newTestStorage(t)

	a := &Session{
		Name:  "alpha",
		Model: "m",
		Messages: []Message{
			{Role: "user", Content: "deploy the service today", Timestamp: time.Now()},
		},
	}
	b := &Session{
		Name:  "beta",
		Model: "m",
		Messages: []Message{
			{Role: "assistant", Content: "dozens of possible ways", Timestamp: time.Now()},
		},
	}
	if err := s.Save(a); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(b); err != nil {
		t.Fatal(err)
	}

	idx := NewSearchIndex(s)
	matches, err := idx.SearchAllSessions("deploy")
	if err != nil {
		t.Fatalf("SearchAllSessions failed: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("no matches")
	}
	if matches[0].SessionID != a.ID {
		t.Errorf("top match session = %s, want the substring hit", matches[0].SessionName)
	}
	if matches[0].Score < substringBonus {
		t.Errorf("substring hit score = %d, want >= %d", matches[0].Score, substringBonus)
	}
}

func TestSearchAllSessionsSkipsSystemMessages(t *testing.T) {
	s := newTestStorage(t)

	session := &Session{
		Name:  "sys",
		Model: "m",
		Messages: []Message{
			{Role: "system", Content: "secret instructions", Timestamp: time.Now()},
			{Role: "user", Content: "nothing relevant", Timestamp: time.Now()},
		},
	}
	if err := s.Save(session); err != nil {
		t.Fatal(err)
	}

	idx := NewSearchIndex(s)
	matches, err := idx.SearchAllSessions("secret instructions")
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range matches {
		if m.Role == "system" {
			t.Error("system message surfaced in search results")
		}
	}
}

func TestSearchAllSessionsPreviewKeepsRunesIntact(t *testing.T) {
	s := newTestStorage(t)

	// CJK text is 3 bytes per rune; a byte-indexed cut at 100 would land
	// mid-sequence and produce invalid UTF-8.
	long := strings.Repeat("工具调用协议", 30)
	session := &Session{
		Name:  "cjk",
		Model: "m",
		Messages: []Message{
			{Role: "user", Content: long, Timestamp: time.Now()},
		},
	}
	if err := s.Save(session); err != nil {
		t.Fatal(err)
	}

	idx := NewSearchIndex(s)
	matches, err := idx.SearchAllSessions("工具")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) == 0 {
		t.Fatal("no matches")
	}

	preview := matches[0].Preview
	if !utf8.ValidString(preview) {
		t.Errorf("preview is not valid UTF-8: %q", preview)
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("long content preview not truncated: %q", preview)
	}
	if preview == long {
		t.Error("preview was not shortened")
	}
}

func TestSearchAllSessionsEmptyQuery(t *testing.T) {
	s := newTestStorage(t)
	idx := NewSearchIndex(s)

	matches, err := idx.SearchAllSessions("")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("empty query returned %d matches", len(matches))
	}
}

func TestFilterSessionNames(t *testing.T) {
	sessions := []SessionMetadata{
		{ID: "1", Name: "rust notes"},
		{ID: "2", Name: "go refactor plan"},
		{ID: "3", Name: "grocery list"},
	}

	got := FilterSessionNames(sessions, "gorefac")
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("FilterSessionNames = %+v, want only go refactor plan", got)
	}

	if got := FilterSessionNames(sessions, ""); len(got) != 3 {
		t.Errorf("empty pattern returned %d sessions, want 3", len(got))
	}
}
