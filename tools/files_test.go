package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteThenRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "notes.txt")

	writeTool := WriteTool()
	result, err := writeTool.Handler(context.Background(), map[string]any{
		"path":    path,
		"content": "line one\nline two\nline three",
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if msg, ok := result.(string); !ok || !strings.Contains(msg, "Wrote") {
		t.Errorf("unexpected write result: %v", result)
	}

	readTool := ReadTool()
	got, err := readTool.Handler(context.Background(), map[string]any{"path": path})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	text := got.(string)
	if !strings.Contains(text, "1| line one") {
		t.Errorf("missing numbered first line in:\n%s", text)
	}
	if !strings.Contains(text, "lines: 1-3/3") {
		t.Errorf("missing range header in:\n%s", text)
	}
}

func TestReadWindow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")

	var b strings.Builder
	for i := 1; i <= 50; i++ {
		b.WriteString("row\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}

	readTool := ReadTool()
	got, err := readTool.Handler(context.Background(), map[string]any{
		"path":   path,
		"offset": float64(10),
		"limit":  float64(5),
	})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	text := got.(string)
	if !strings.Contains(text, "lines: 10-14/") {
		t.Errorf("window not applied:\n%s", text)
	}

	_, err = readTool.Handler(context.Background(), map[string]any{
		"path":   path,
		"offset": float64(9999),
	})
	if err == nil {
		t.Error("expected out-of-range error")
	}
}

func TestEditReplacesText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.txt")
	if err := os.WriteFile(path, []byte("color=red\ncolor=red\n"), 0644); err != nil {
		t.Fatal(err)
	}

	editTool := EditTool()
	if _, err := editTool.Handler(context.Background(), map[string]any{
		"path": path,
		"old":  "red",
		"new":  "blue",
	}); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "color=blue\ncolor=red\n" {
		t.Errorf("first-occurrence edit produced %q", data)
	}

	if _, err := editTool.Handler(context.Background(), map[string]any{
		"path": path,
		"old":  "color",
		"new":  "tint",
		"all":  true,
	}); err != nil {
		t.Fatalf("edit all failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if strings.Contains(string(data), "color") {
		t.Errorf("edit all left occurrences behind: %q", data)
	}

	if _, err := editTool.Handler(context.Background(), map[string]any{
		"path": path,
		"old":  "missing text",
		"new":  "x",
	}); err == nil {
		t.Error("expected error when old text is absent")
	}
}

func TestGlobAndGrep(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"a.go":   "package main\nfunc main() {}\n",
		"b.go":   "package main\nvar answer = 42\n",
		"web.md": "answer elsewhere\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	globTool := GlobTool()
	got, err := globTool.Handler(context.Background(), map[string]any{
		"pattern": "*.go",
		"path":    dir,
	})
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	matches := got.([]string)
	if len(matches) != 2 {
		t.Errorf("glob *.go returned %d matches, want 2: %v", len(matches), matches)
	}

	grepTool := GrepTool()
	got, err = grepTool.Handler(context.Background(), map[string]any{
		"pattern": `answer\b`,
		"path":    dir,
	})
	if err != nil {
		t.Fatalf("grep failed: %v", err)
	}
	hits := got.([]GrepMatch)
	if len(hits) != 2 {
		t.Fatalf("grep returned %d hits, want 2: %v", len(hits), hits)
	}
	for _, h := range hits {
		if h.Line == 0 || h.Text == "" {
			t.Errorf("incomplete hit: %+v", h)
		}
	}

	if _, err := grepTool.Handler(context.Background(), map[string]any{
		"pattern": "([",
		"path":    dir,
	}); err == nil {
		t.Error("expected error for invalid regex")
	}
}

func TestFileStatus(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.txt")
	if err := os.WriteFile(path, []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	tool := FileStatusTool()
	got, err := tool.Handler(context.Background(), map[string]any{"path": path})
	if err != nil {
		t.Fatalf("file_status failed: %v", err)
	}
	m := got.(map[string]any)
	if m["exists"] != true || m["is_dir"] != false || m["size"] != int64(2) {
		t.Errorf("unexpected status: %v", m)
	}

	got, err = tool.Handler(context.Background(), map[string]any{"path": filepath.Join(dir, "absent.txt")})
	if err != nil {
		t.Fatalf("file_status on missing path failed: %v", err)
	}
	if got.(map[string]any)["exists"] != false {
		t.Errorf("expected exists=false, got %v", got)
	}
}
