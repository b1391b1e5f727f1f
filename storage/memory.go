package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// memoryWindowSize bounds the rolling exchange history kept across sessions.
const memoryWindowSize = 40

// MemoryEntry is one remembered exchange.
type MemoryEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type memoryFile struct {
	Preferences map[string]string `json:"preferences,omitempty"`
	Facts       []string          `json:"facts,omitempty"`
	Messages    []MemoryEntry     `json:"messages,omitempty"`
}

// Memory is a small persistent store of user preferences, remembered facts
// and a rolling window of recent exchanges. It is injected into the system
// prompt so the agent keeps context across sessions.
type Memory struct {
	mu   sync.Mutex
	path string
	data memoryFile
}

// NewMemory loads (or creates) the memory file under dataDir.
func NewMemory(dataDir string) (*Memory, error) {
	m := &Memory{
		path: filepath.Join(dataDir, "memory.json"),
		data: memoryFile{Preferences: make(map[string]string)},
	}

	raw, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read memory file: %w", err)
	}

	if err := json.Unmarshal(raw, &m.data); err != nil {
		return nil, fmt.Errorf("failed to parse memory file: %w", err)
	}
	if m.data.Preferences == nil {
		m.data.Preferences = make(map[string]string)
	}

	return m, nil
}

// SetPreference records a key/value preference and persists it.
func (m *Memory) SetPreference(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data.Preferences[key] = value
	return m.save()
}

// AddFact appends a remembered fact, skipping exact duplicates.
func (m *Memory) AddFact(fact string) error {
	fact = strings.TrimSpace(fact)
	if fact == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range m.data.Facts {
		if f == fact {
			return nil
		}
	}

	m.data.Facts = append(m.data.Facts, fact)
	return m.save()
}

// Remember appends an exchange to the rolling window, trimming the oldest
// entries once the window is full.
func (m *Memory) Remember(role, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data.Messages = append(m.data.Messages, MemoryEntry{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	if len(m.data.Messages) > memoryWindowSize {
		m.data.Messages = m.data.Messages[len(m.data.Messages)-memoryWindowSize:]
	}

	return m.save()
}

// Context renders the remembered preferences and facts as a block suitable
// for appending to a system prompt. Returns "" when there is nothing stored.
func (m *Memory) Context() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.data.Preferences) == 0 && len(m.data.Facts) == 0 {
		return ""
	}

	var b strings.Builder

	if len(m.data.Preferences) > 0 {
		b.WriteString("User preferences:\n")
		for _, key := range sortedKeys(m.data.Preferences) {
			fmt.Fprintf(&b, "- %s: %s\n", key, m.data.Preferences[key])
		}
	}

	if len(m.data.Facts) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Remembered facts:\n")
		for _, fact := range m.data.Facts {
			fmt.Fprintf(&b, "- %s\n", fact)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// RecentMessages returns a copy of the rolling exchange window.
func (m *Memory) RecentMessages() []MemoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]MemoryEntry, len(m.data.Messages))
	copy(out, m.data.Messages)
	return out
}

// Clear wipes all remembered data and persists the empty state.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = memoryFile{Preferences: make(map[string]string)}
	return m.save()
}

// save persists to disk. Caller must hold mu.
func (m *Memory) save() error {
	data, err := json.MarshalIndent(m.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory: %w", err)
	}

	// Memory contents may include personal details
	if err := os.WriteFile(m.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write memory file: %w", err)
	}

	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
