package tools

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// CurrentTimeTool reports the local date and time.
func CurrentTimeTool() Tool {
	return Tool{
		Spec: mcptypes.NewTool("current_time",
			mcptypes.WithDescription("Get the current local date and time."),
		),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return time.Now().Format("2006-01-02 15:04:05 MST"), nil
		},
	}
}

// SystemInfoTool reports basic host information.
func SystemInfoTool() Tool {
	return Tool{
		Spec: mcptypes.NewTool("system_info",
			mcptypes.WithDescription("Get basic information about the host system."),
		),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			hostname, _ := os.Hostname()
			wd, _ := os.Getwd()
			return map[string]any{
				"os":       runtime.GOOS,
				"arch":     runtime.GOARCH,
				"hostname": hostname,
				"cpus":     runtime.NumCPU(),
				"cwd":      wd,
			}, nil
		},
	}
}

// FileStatusTool reports whether a path exists and its basic attributes.
func FileStatusTool() Tool {
	return Tool{
		Spec: mcptypes.NewTool("file_status",
			mcptypes.WithDescription("Check whether a path exists and report its size, type and modification time."),
			mcptypes.WithString("path", mcptypes.Required(), mcptypes.Description("Path to inspect")),
		),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			path, ok := stringArg(args, "path")
			if !ok {
				return nil, fmt.Errorf("path is required")
			}
			info, err := os.Stat(resolvePath(path))
			if os.IsNotExist(err) {
				return map[string]any{"exists": false}, nil
			}
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"exists":   true,
				"is_dir":   info.IsDir(),
				"size":     info.Size(),
				"modified": info.ModTime().Format(time.RFC3339),
				"mode":     info.Mode().String(),
			}, nil
		},
	}
}

// EnvGetTool reads an environment variable.
func EnvGetTool() Tool {
	return Tool{
		Spec: mcptypes.NewTool("env_get",
			mcptypes.WithDescription("Read an environment variable."),
			mcptypes.WithString("name", mcptypes.Required(), mcptypes.Description("Variable name")),
		),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			name, ok := stringArg(args, "name")
			if !ok {
				return nil, fmt.Errorf("name is required")
			}
			value, found := os.LookupEnv(name)
			return map[string]any{"name": name, "value": value, "set": found}, nil
		},
	}
}

// EnvSetTool sets an environment variable for this process.
func EnvSetTool() Tool {
	return Tool{
		Spec: mcptypes.NewTool("env_set",
			mcptypes.WithDescription("Set an environment variable for the current process."),
			mcptypes.WithString("name", mcptypes.Required(), mcptypes.Description("Variable name")),
			mcptypes.WithString("value", mcptypes.Required(), mcptypes.Description("Value to set")),
		),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			name, ok := stringArg(args, "name")
			if !ok {
				return nil, fmt.Errorf("name is required")
			}
			value, ok := stringArg(args, "value")
			if !ok {
				return nil, fmt.Errorf("value is required")
			}
			if err := os.Setenv(name, value); err != nil {
				return nil, err
			}
			return fmt.Sprintf("Set %s", name), nil
		},
	}
}
