package protocol

import (
	"regexp"
	"strings"
)

var (
	writePathPattern    = regexp.MustCompile(`["']path["']\s*:\s*["']([^"']+)["']`)
	writeContentPattern = regexp.MustCompile(`["']content["']\s*:\s*(["'])`)

	contentUnescaper = strings.NewReplacer(
		`\n`, "\n",
		`\t`, "\t",
		`\"`, `"`,
		`\'`, `'`,
		`\\`, `\`,
	)
)

// ExtractWriteArgs recovers {path, content} for the write tool from an
// argument region whose content value may contain literal, unescaped quote
// characters.
//
// The path field is anchored by regex. For content, the scan starts just
// after the value's opening quote and inspects every later occurrence of the
// same quote character: if the remaining text from that point, trimmed,
// starts with '}' the quote is accepted immediately as the end of the value
// (earliest clean termination); if it merely ends with '}' the position is
// remembered as the current best candidate. When the scan finds no candidate
// it falls back to the last quote seen, and failing even that, to the last
// occurrence of the quote character anywhere in the region. This is a
// heuristic tuned for typical model output, not a grammar.
func ExtractWriteArgs(remainder string) (map[string]any, bool) {
	pathMatch := writePathPattern.FindStringSubmatch(remainder)
	if pathMatch == nil {
		return nil, false
	}
	path := pathMatch[1]

	contentLoc := writeContentPattern.FindStringSubmatchIndex(remainder)
	if contentLoc == nil {
		return nil, false
	}
	quote := remainder[contentLoc[2]]
	contentStart := contentLoc[3]

	end := -1
	best := -1
	lastSeen := -1

	for i := contentStart; i < len(remainder); i++ {
		c := remainder[i]
		if c == '\\' {
			i++ // escaped character never ends the value
			continue
		}
		if c != quote {
			continue
		}
		lastSeen = i

		rest := strings.TrimSpace(remainder[i+1:])
		if strings.HasPrefix(rest, "}") {
			end = i
			break
		}
		if strings.HasSuffix(rest, "}") {
			best = i
		}
	}

	switch {
	case end >= 0:
	case best >= 0:
		end = best
	case lastSeen >= 0:
		end = lastSeen
	default:
		// Every quote was escaped away; take the last one in the raw text.
		idx := strings.LastIndexByte(remainder, quote)
		if idx < contentStart {
			return nil, false
		}
		end = idx
	}

	content := contentUnescaper.Replace(remainder[contentStart:end])

	return map[string]any{
		"path":    path,
		"content": content,
	}, true
}
