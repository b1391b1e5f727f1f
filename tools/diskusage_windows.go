//go:build windows

package tools

import (
	"context"
	"fmt"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// DiskUsageTool is not implemented on Windows; it registers so the
// capability list is stable across platforms, and reports the limitation
// at call time.
func DiskUsageTool() Tool {
	return Tool{
		Spec: mcptypes.NewTool("disk_usage",
			mcptypes.WithDescription("Report total, used and free disk space for a path."),
			mcptypes.WithString("path", mcptypes.Description("Filesystem path")),
		),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, fmt.Errorf("disk_usage is not supported on this platform")
		},
	}
}
