// Package protocol recognizes tool invocations embedded in free-form model
// output and turns them into structured calls.
//
// Models that have no native tool-calling API are prompted to answer with a
// textual marker such as "TOOL: calculator ARGS: {...}". Real model output is
// messy: mixed languages, typos in the marker, JSON with comments and trailing
// commas, file contents full of unescaped quotes. This package is the
// recovery layer over that unreliable producer. Every function here is a pure
// function over its input text; all scan state (brace depth, in-string flag,
// escape flag) is local.
package protocol

import (
	"quark/config"
)

// ToolCall is a parsed invocation request recovered from model text.
type ToolCall struct {
	Name string
	Args map[string]any
	Raw  string // the argument span the call was parsed from
}

// WriteToolName is the tool whose content argument gets the specialized
// extractor in ExtractWriteArgs.
const WriteToolName = "write"

// Parse recognizes a tool call anywhere in the model response.
//
// Returns (nil, false) both when no trigger pattern matches (a plain
// response, not an error) and when a pattern matched but no usable argument
// object could be recovered (logged, treated as no tool call so the
// conversation can continue).
func Parse(response string) (*ToolCall, bool) {
	name, remainder, ok := Recognize(response)
	if !ok {
		return nil, false
	}

	// File contents routinely contain unescaped quotes that defeat the
	// balanced scan, so the write tool gets its own extractor first.
	if name == WriteToolName {
		if args, ok := ExtractWriteArgs(remainder); ok {
			return &ToolCall{Name: name, Args: args, Raw: remainder}, true
		}
	}

	span, ok := ExtractJSONSpan(remainder)
	if !ok {
		debugf("[protocol] trigger matched for %q but no balanced object in %q", name, truncateForLog(remainder))
		return nil, false
	}

	args := ParseCandidate(span)
	if args == nil {
		debugf("[protocol] unparseable arguments for %q: %q", name, truncateForLog(span))
		return nil, false
	}

	return &ToolCall{Name: name, Args: args, Raw: span}, true
}

// maxLogExcerpt bounds how much model output ends up in the debug log.
const maxLogExcerpt = 120

func truncateForLog(s string) string {
	if len(s) <= maxLogExcerpt {
		return s
	}
	return s[:maxLogExcerpt] + "..."
}

func debugf(format string, args ...any) {
	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf(format, args...)
	}
}
