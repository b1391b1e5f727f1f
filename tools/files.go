package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Argument accessors. JSON numbers arrive as float64, so integer parameters
// accept both.

func stringArg(args map[string]any, name string) (string, bool) {
	v, ok := args[name].(string)
	return v, ok
}

func intArg(args map[string]any, name string, fallback int) int {
	switch v := args[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

func boolArg(args map[string]any, name string) bool {
	v, _ := args[name].(bool)
	return v
}

func resolvePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if !filepath.IsAbs(path) {
		if wd, err := os.Getwd(); err == nil {
			path = filepath.Join(wd, path)
		}
	}
	return filepath.Clean(path)
}

// ReadTool returns file content with line numbers, windowed by offset/limit
// so large files stay digestible in a prompt.
func ReadTool() Tool {
	return Tool{
		Spec: mcptypes.NewTool("read",
			mcptypes.WithDescription("Read file content with line numbers."),
			mcptypes.WithString("path", mcptypes.Required(), mcptypes.Description("File path")),
			mcptypes.WithNumber("offset", mcptypes.Description("1-based start line number (default 1)")),
			mcptypes.WithNumber("limit", mcptypes.Description("Maximum number of lines to return (default 200)")),
		),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			path, ok := stringArg(args, "path")
			if !ok {
				return nil, fmt.Errorf("path is required")
			}
			offset := intArg(args, "offset", 1)
			limit := intArg(args, "limit", 200)
			if limit <= 0 {
				return nil, fmt.Errorf("limit must be a positive integer")
			}

			resolved := resolvePath(path)
			data, err := os.ReadFile(resolved)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}

			lines := strings.Split(string(data), "\n")
			total := len(lines)

			start := offset
			if start < 1 {
				start = 1
			}
			if start > total {
				return nil, fmt.Errorf("start line %d is out of range, the file only has %d lines", start, total)
			}
			end := start + limit - 1
			if end > total {
				end = total
			}

			width := len(fmt.Sprintf("%d", end))
			var b strings.Builder
			fmt.Fprintf(&b, "path: %s\nlines: %d-%d/%d\n", resolved, start, end, total)
			for i := start; i <= end; i++ {
				fmt.Fprintf(&b, "%*d| %s\n", width, i, lines[i-1])
			}
			return strings.TrimRight(b.String(), "\n"), nil
		},
	}
}

// WriteTool writes content to a file, creating parent directories as needed.
func WriteTool() Tool {
	return Tool{
		Spec: mcptypes.NewTool("write",
			mcptypes.WithDescription("Write content to a text file, creating it (and parent directories) if needed."),
			mcptypes.WithString("path", mcptypes.Required(), mcptypes.Description("File path")),
			mcptypes.WithString("content", mcptypes.Required(), mcptypes.Description("Content to write")),
		),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			path, ok := stringArg(args, "path")
			if !ok {
				return nil, fmt.Errorf("path is required")
			}
			content, ok := stringArg(args, "content")
			if !ok {
				return nil, fmt.Errorf("content is required")
			}

			resolved := resolvePath(path)
			if err := os.MkdirAll(filepath.Dir(resolved), 0755); err != nil {
				return nil, fmt.Errorf("failed to create directory: %w", err)
			}
			if err := os.WriteFile(resolved, []byte(content), 0644); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", path, err)
			}
			return fmt.Sprintf("Wrote %d bytes to %s", len(content), resolved), nil
		},
	}
}

// EditTool replaces old text with new text in an existing file.
func EditTool() Tool {
	return Tool{
		Spec: mcptypes.NewTool("edit",
			mcptypes.WithDescription("Replace text in a file. Replaces the first occurrence unless all=true."),
			mcptypes.WithString("path", mcptypes.Required(), mcptypes.Description("File path")),
			mcptypes.WithString("old", mcptypes.Required(), mcptypes.Description("Text to replace")),
			mcptypes.WithString("new", mcptypes.Required(), mcptypes.Description("Replacement text")),
			mcptypes.WithBoolean("all", mcptypes.Description("Replace every occurrence")),
		),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			path, ok := stringArg(args, "path")
			if !ok {
				return nil, fmt.Errorf("path is required")
			}
			oldText, ok := stringArg(args, "old")
			if !ok {
				return nil, fmt.Errorf("old is required")
			}
			newText, _ := stringArg(args, "new")

			resolved := resolvePath(path)
			data, err := os.ReadFile(resolved)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
			original := string(data)
			if !strings.Contains(original, oldText) {
				return nil, fmt.Errorf("old text not found in %s", path)
			}

			var updated string
			if boolArg(args, "all") {
				updated = strings.ReplaceAll(original, oldText, newText)
			} else {
				updated = strings.Replace(original, oldText, newText, 1)
			}

			if err := os.WriteFile(resolved, []byte(updated), 0644); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", path, err)
			}
			return fmt.Sprintf("Edited %s", resolved), nil
		},
	}
}

// GlobTool lists files matching a glob pattern under a directory.
func GlobTool() Tool {
	return Tool{
		Spec: mcptypes.NewTool("glob",
			mcptypes.WithDescription("List files matching a glob pattern."),
			mcptypes.WithString("pattern", mcptypes.Required(), mcptypes.Description("Glob pattern, e.g. \"*.go\" or \"src/**\"")),
			mcptypes.WithString("path", mcptypes.Description("Directory to search in (default current directory)")),
		),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			pattern, ok := stringArg(args, "pattern")
			if !ok {
				return nil, fmt.Errorf("pattern is required")
			}
			dir, _ := stringArg(args, "path")
			if dir == "" {
				dir = "."
			}

			matches, err := filepath.Glob(filepath.Join(resolvePath(dir), pattern))
			if err != nil {
				return nil, fmt.Errorf("invalid glob pattern: %w", err)
			}
			if matches == nil {
				matches = []string{}
			}
			return matches, nil
		},
	}
}

// GrepMatch is one grep hit.
type GrepMatch struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// grepMaxMatches caps result size so a broad pattern cannot flood the
// conversation.
const grepMaxMatches = 200

// GrepTool searches files under a directory for a regex pattern.
func GrepTool() Tool {
	return Tool{
		Spec: mcptypes.NewTool("grep",
			mcptypes.WithDescription("Search files for a regular expression. Returns file, line number and matching text."),
			mcptypes.WithString("pattern", mcptypes.Required(), mcptypes.Description("Regular expression")),
			mcptypes.WithString("path", mcptypes.Description("File or directory to search (default current directory)")),
		),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			pattern, ok := stringArg(args, "pattern")
			if !ok {
				return nil, fmt.Errorf("pattern is required")
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid regex: %w", err)
			}

			root, _ := stringArg(args, "path")
			if root == "" {
				root = "."
			}
			root = resolvePath(root)

			var matches []GrepMatch
			walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
				if err != nil || d.IsDir() {
					return nil
				}
				if len(matches) >= grepMaxMatches {
					return filepath.SkipAll
				}
				data, err := os.ReadFile(path)
				if err != nil {
					return nil
				}
				for i, line := range strings.Split(string(data), "\n") {
					if re.MatchString(line) {
						matches = append(matches, GrepMatch{File: path, Line: i + 1, Text: line})
						if len(matches) >= grepMaxMatches {
							break
						}
					}
				}
				return nil
			})
			if walkErr != nil {
				return nil, walkErr
			}
			if matches == nil {
				matches = []GrepMatch{}
			}
			return matches, nil
		},
	}
}
