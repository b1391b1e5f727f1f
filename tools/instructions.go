package tools

import (
	"fmt"
	"sort"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Instructions renders the capability list plus the invocation directive
// that gets appended to the system message. The model is taught exactly one
// reply shape; the parser tolerates several more.
func Instructions(specs []mcptypes.Tool) string {
	if len(specs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("You have access to the following tools:\n\n")

	for _, spec := range specs {
		b.WriteString("Tool: " + spec.Name + "\n")
		b.WriteString("Description: " + spec.Description + "\n")
		b.WriteString("Parameters:\n")
		b.WriteString(renderParameters(spec))
		b.WriteString("\n")
	}

	b.WriteString(strings.Join([]string{
		"To use a tool, respond with EXACTLY this format and nothing after it:",
		"TOOL: <tool_name> ARGS: {\"param\": \"value\"}",
		"",
		"The ARGS value must be a single JSON object on one line.",
		"After a tool result comes back, continue reasoning or answer the user.",
		"When no tool is needed, just answer directly.",
	}, "\n"))

	return b.String()
}

func renderParameters(spec mcptypes.Tool) string {
	if len(spec.InputSchema.Properties) == 0 {
		return "  (none)\n"
	}

	required := make(map[string]bool, len(spec.InputSchema.Required))
	for _, name := range spec.InputSchema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(spec.InputSchema.Properties))
	for name := range spec.InputSchema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		desc := propertyDescription(spec.InputSchema.Properties[name])
		if required[name] {
			fmt.Fprintf(&b, "  - %s: %s (required)\n", name, desc)
		} else {
			fmt.Fprintf(&b, "  - %s: %s\n", name, desc)
		}
	}
	return b.String()
}

func propertyDescription(prop any) string {
	m, ok := prop.(map[string]any)
	if !ok {
		return ""
	}
	if desc, ok := m["description"].(string); ok {
		return desc
	}
	return ""
}
