package storage

import (
	"strings"
	"testing"
)

func TestMemoryContext(t *testing.T) {
	m, err := NewMemory(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if got := m.Context(); got != "" {
		t.Errorf("empty memory Context() = %q, want empty", got)
	}

	if err := m.SetPreference("tone", "terse"); err != nil {
		t.Fatal(err)
	}
	if err := m.AddFact("works in UTC"); err != nil {
		t.Fatal(err)
	}

	ctx := m.Context()
	if !strings.Contains(ctx, "tone: terse") {
		t.Errorf("Context() missing preference: %q", ctx)
	}
	if !strings.Contains(ctx, "works in UTC") {
		t.Errorf("Context() missing fact: %q", ctx)
	}
}

func TestMemoryPersistsAcrossReload(t *testing.T) {
	dir := t.TempDir()

	m, err := NewMemory(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetPreference("lang", "go"); err != nil {
		t.Fatal(err)
	}
	if err := m.Remember("user", "hello"); err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewMemory(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Context(); !strings.Contains(got, "lang: go") {
		t.Errorf("reloaded Context() = %q", got)
	}
	msgs := reloaded.RecentMessages()
	if len(msgs) != 1 || msgs[0].Content != "hello" {
		t.Errorf("reloaded messages = %+v", msgs)
	}
}

func TestMemoryDuplicateFactsSkipped(t *testing.T) {
	m, err := NewMemory(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := m.AddFact("same fact"); err != nil {
		t.Fatal(err)
	}
	if err := m.AddFact("same fact"); err != nil {
		t.Fatal(err)
	}
	if err := m.AddFact("  "); err != nil {
		t.Fatal(err)
	}

	ctx := m.Context()
	if strings.Count(ctx, "same fact") != 1 {
		t.Errorf("duplicate fact stored: %q", ctx)
	}
}

func TestMemoryWindowTrimsOldest(t *testing.T) {
	m, err := NewMemory(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < memoryWindowSize+5; i++ {
		if err := m.Remember("user", strings.Repeat("x", i+1)); err != nil {
			t.Fatal(err)
		}
	}

	msgs := m.RecentMessages()
	if len(msgs) != memoryWindowSize {
		t.Fatalf("window size = %d, want %d", len(msgs), memoryWindowSize)
	}
	// Oldest entries should have been dropped
	if len(msgs[0].Content) != 6 {
		t.Errorf("first kept message length = %d, want 6", len(msgs[0].Content))
	}
}

func TestMemoryClear(t *testing.T) {
	m, err := NewMemory(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetPreference("k", "v"); err != nil {
		t.Fatal(err)
	}
	if err := m.Clear(); err != nil {
		t.Fatal(err)
	}
	if got := m.Context(); got != "" {
		t.Errorf("Context() after Clear = %q", got)
	}
}
