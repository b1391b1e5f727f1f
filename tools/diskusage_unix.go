//go:build unix

package tools

import (
	"context"
	"fmt"
	"syscall"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// DiskUsageTool reports total, used and free space for a filesystem path.
func DiskUsageTool() Tool {
	return Tool{
		Spec: diskUsageSpec(),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			path, ok := stringArg(args, "path")
			if !ok || path == "" {
				path = "/"
			}

			var st syscall.Statfs_t
			if err := syscall.Statfs(resolvePath(path), &st); err != nil {
				return nil, fmt.Errorf("statfs %s: %w", path, err)
			}

			total := st.Blocks * uint64(st.Bsize)
			free := st.Bavail * uint64(st.Bsize)
			used := total - free

			return map[string]any{
				"path":       path,
				"total":      total,
				"used":       used,
				"free":       free,
				"used_human": humanBytes(used),
				"free_human": humanBytes(free),
			}, nil
		},
	}
}

func diskUsageSpec() mcptypes.Tool {
	return mcptypes.NewTool("disk_usage",
		mcptypes.WithDescription("Report total, used and free disk space for a path."),
		mcptypes.WithString("path", mcptypes.Description("Filesystem path (default /)")),
	)
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
