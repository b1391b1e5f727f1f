package protocol

import "strings"

// ExtractJSONSpan carves a balanced {...} span out of surrounding prose.
//
// The scan starts at the first '{' and tracks brace depth, a string-quote
// state for both single and double quotes, and backslash escapes. Braces
// inside strings do not affect depth. When depth returns to zero the closing
// brace is only a candidate end: the scan keeps going, and every later
// complete object pushes the end forward, so the span always closes at the
// LAST object in the text. Models sometimes emit several back-to-back
// objects and the outermost span is the one the caller wants.
//
// Returns ok=false when there is no '{' or the object never closes.
func ExtractJSONSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	end, ok := scanBalanced(text, start)
	if !ok {
		return "", false
	}

	// Last-object preference: keep extending past each accepted candidate
	// until no further complete object closes.
	for {
		later, ok := scanBalanced(text, end+1)
		if !ok {
			break
		}
		end = later
	}

	return text[start : end+1], true
}

// scanBalanced finds the closing brace of the first balanced object that
// begins at or after pos. Returns the index of that brace.
func scanBalanced(text string, pos int) (int, bool) {
	start := strings.IndexByte(text[pos:], '{')
	if start < 0 {
		return 0, false
	}
	start += pos

	depth := 0
	inString := false
	escaped := false
	var quote byte

	for i := start; i < len(text); i++ {
		c := text[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}

		if inString {
			if c == quote {
				inString = false
			}
			continue
		}

		switch c {
		case '"', '\'':
			inString = true
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return 0, false
}
