package tools

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// bashTimeout bounds how long a single shell command may run.
const bashTimeout = 2 * time.Minute

// BashTool runs a shell command and returns exit code, stdout and stderr as
// a structured result so the model can reason over failures.
func BashTool() Tool {
	return Tool{
		Spec: mcptypes.NewTool("bash",
			mcptypes.WithDescription("Execute a shell command. Returns exit_code, stdout and stderr."),
			mcptypes.WithString("cmd", mcptypes.Required(), mcptypes.Description("Shell command to run")),
		),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			cmdline, ok := stringArg(args, "cmd")
			if !ok || strings.TrimSpace(cmdline) == "" {
				return nil, fmt.Errorf("cmd is required")
			}

			ctx, cancel := context.WithTimeout(ctx, bashTimeout)
			defer cancel()

			cmd := exec.CommandContext(ctx, "bash", "-c", cmdline)
			cmd.Env = os.Environ()

			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			err := cmd.Run()
			exitCode := 0
			if err != nil {
				if exitErr, ok := err.(*exec.ExitError); ok {
					exitCode = exitErr.ExitCode()
				} else {
					return map[string]any{
						"exit_code": 1,
						"stdout":    "",
						"stderr":    err.Error(),
					}, nil
				}
			}

			return map[string]any{
				"exit_code": exitCode,
				"stdout":    strings.TrimSpace(stdout.String()),
				"stderr":    strings.TrimSpace(stderr.String()),
			}, nil
		},
	}
}
