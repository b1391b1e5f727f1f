package storage

import (
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"
)

// previewWidth bounds match previews in display cells.
const previewWidth = 100

type SessionMessageMatch struct {
	SessionID    string
	SessionName  string
	MessageIndex int
	Role         string
	Content      string
	Preview      string
	Timestamp    time.Time
	Score        int
}

type SearchIndex struct {
	storage *SessionStorage
}

func NewSearchIndex(storage *SessionStorage) *SearchIndex {
	return &SearchIndex{storage: storage}
}

// SearchAllSessions searches message content across every stored session.
// Substring hits rank above fuzzy hits; within each group, higher fuzzy
// scores come first.
func (si *SearchIndex) SearchAllSessions(query string) ([]SessionMessageMatch, error) {
	if query == "" {
		return []SessionMessageMatch{}, nil
	}

	sessionList, err := si.storage.List()
	if err != nil {
		return nil, err
	}

	queryLower := strings.ToLower(query)
	var matches []SessionMessageMatch

	for _, sessionMeta := range sessionList {
		session, err := si.storage.Load(sessionMeta.ID)
		if err != nil {
			continue
		}

		for i, msg := range session.Messages {
			if msg.Role == "system" {
				continue
			}

			score, ok := scoreMessage(msg.Content, query, queryLower)
			if !ok {
				continue
			}

			// Width-aware truncation; never splits a multibyte rune
			preview := runewidth.Truncate(msg.Content, previewWidth, "...")

			matches = append(matches, SessionMessageMatch{
				SessionID:    session.ID,
				SessionName:  session.Name,
				MessageIndex: i,
				Role:         msg.Role,
				Content:      msg.Content,
				Preview:      preview,
				Timestamp:    msg.Timestamp,
				Score:        score,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches, nil
}

// substringBonus pushes exact substring hits above any fuzzy-only hit.
const substringBonus = 1 << 20

func scoreMessage(content, query, queryLower string) (int, bool) {
	if strings.Contains(strings.ToLower(content), queryLower) {
		return substringBonus, true
	}

	results := fuzzy.Find(query, []string{content})
	if len(results) == 0 {
		return 0, false
	}
	return results[0].Score, true
}

// FilterSessionNames fuzzy-filters session metadata by name, returning
// the matching entries ranked best first. An empty pattern returns the
// input unchanged.
func FilterSessionNames(sessions []SessionMetadata, pattern string) []SessionMetadata {
	if pattern == "" {
		return sessions
	}

	names := make([]string, len(sessions))
	for i, s := range sessions {
		names[i] = s.Name
	}

	results := fuzzy.Find(pattern, names)
	filtered := make([]SessionMetadata, 0, len(results))
	for _, r := range results {
		filtered = append(filtered, sessions[r.Index])
	}
	return filtered
}
