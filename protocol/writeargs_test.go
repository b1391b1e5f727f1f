package protocol

import "testing"

func TestExtractWriteArgsEmbeddedQuotes(t *testing.T) {
	remainder := `{"path": "test.txt", "content": "He said "hi" to me"}`
	args, ok := ExtractWriteArgs(remainder)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if args["path"] != "test.txt" {
		t.Errorf("path = %v, want test.txt", args["path"])
	}
	if args["content"] != `He said "hi" to me` {
		t.Errorf("content = %v", args["content"])
	}
}

func TestExtractWriteArgsImmediateClose(t *testing.T) {
	// The quote right before the closing brace is accepted immediately,
	// even though later quotes exist in trailing prose.
	remainder := `{"path": "a.go", "content": "package main"}` + "\nthen I said \"done\""
	args, ok := ExtractWriteArgs(remainder)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if args["content"] != "package main" {
		t.Errorf("content = %v", args["content"])
	}
}

func TestExtractWriteArgsEscapedNewlines(t *testing.T) {
	remainder := `{"path": "notes.txt", "content": "line one\nline two\t- indented"}`
	args, ok := ExtractWriteArgs(remainder)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if args["content"] != "line one\nline two\t- indented" {
		t.Errorf("content = %q", args["content"])
	}
}

func TestExtractWriteArgsSingleQuotes(t *testing.T) {
	remainder := `{'path': 'b.txt', 'content': 'plain text'}`
	args, ok := ExtractWriteArgs(remainder)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if args["path"] != "b.txt" {
		t.Errorf("path = %v", args["path"])
	}
	if args["content"] != "plain text" {
		t.Errorf("content = %v", args["content"])
	}
}

func TestExtractWriteArgsMissingPath(t *testing.T) {
	if _, ok := ExtractWriteArgs(`{"content": "no path here"}`); ok {
		t.Error("expected failure without a path field")
	}
}

func TestExtractWriteArgsMissingContent(t *testing.T) {
	if _, ok := ExtractWriteArgs(`{"path": "x.txt"}`); ok {
		t.Error("expected failure without a content field")
	}
}

func TestParseWriteToolUsesSpecializer(t *testing.T) {
	text := `TOOL: write ARGS: {"path": "hello.txt", "content": "She wrote "ok" and left"}`
	call, ok := Parse(text)
	if !ok {
		t.Fatal("expected a tool call")
	}
	if call.Name != "write" {
		t.Errorf("name = %q", call.Name)
	}
	if call.Args["content"] != `She wrote "ok" and left` {
		t.Errorf("content = %v", call.Args["content"])
	}
}

func TestParsePlainResponse(t *testing.T) {
	if call, ok := Parse("The capital of France is Paris."); ok {
		t.Errorf("Parse matched a plain response: %+v", call)
	}
}

func TestParseUnusableArguments(t *testing.T) {
	// Trigger matched but no balanced object follows: dropped, not fatal.
	if call, ok := Parse("TOOL: read ARGS: oops no json"); ok {
		t.Errorf("Parse returned %+v for unusable arguments", call)
	}
}

func TestParseGenericTool(t *testing.T) {
	call, ok := Parse(`Let me compute that. TOOL: calculator ARGS: {"expression": "sqrt(16)"}`)
	if !ok {
		t.Fatal("expected a tool call")
	}
	if call.Name != "calculator" {
		t.Errorf("name = %q", call.Name)
	}
	if call.Args["expression"] != "sqrt(16)" {
		t.Errorf("expression = %v", call.Args["expression"])
	}
}
