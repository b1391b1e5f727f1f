package tools

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// ClipboardCopyTool puts text on the system clipboard.
func ClipboardCopyTool() Tool {
	return Tool{
		Spec: mcptypes.NewTool("clipboard_copy",
			mcptypes.WithDescription("Copy text to the system clipboard."),
			mcptypes.WithString("text", mcptypes.Required(), mcptypes.Description("Text to copy")),
		),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			text, ok := stringArg(args, "text")
			if !ok {
				return nil, fmt.Errorf("text is required")
			}
			if err := clipboard.WriteAll(text); err != nil {
				return nil, fmt.Errorf("clipboard write failed: %w", err)
			}
			return fmt.Sprintf("Copied %d characters to clipboard", len(text)), nil
		},
	}
}
