package protocol

import (
	"encoding/json"
	"regexp"
	"strings"
)

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

// ParseCandidate parses a candidate argument span into a flat mapping.
//
// Attempt order: strict parse first; on failure, strip // and /* */ comments
// occurring outside string literals plus trailing commas, and retry. Still
// failing, return nil. Never panics, never returns an error: a nil result is
// the only failure signal, and the caller decides how loudly to log it.
func ParseCandidate(span string) map[string]any {
	var args map[string]any
	if err := json.Unmarshal([]byte(span), &args); err == nil {
		return args
	}

	cleaned := CleanJSON(span)
	if err := json.Unmarshal([]byte(cleaned), &args); err == nil {
		return args
	}

	debugf("[protocol] lenient parse failed: %q", truncateForLog(span))
	return nil
}

// CleanJSON removes the JSON-adjacent noise models produce: // line comments,
// /* */ block comments, and trailing commas before } or ]. Comment markers
// inside string literals are left alone.
func CleanJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	var quote byte

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if c == quote {
				inString = false
			}
			continue
		}

		switch {
		case c == '"' || c == '\'':
			inString = true
			quote = c
			b.WriteByte(c)
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				i++
			}
			i++ // past the closing '/'
		default:
			b.WriteByte(c)
		}
	}

	return trailingComma.ReplaceAllString(b.String(), "$1")
}
