package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"quark/model"
	"quark/provider/testutil"
	"quark/tools"
)

func echoTool(name string) tools.Tool {
	return tools.Tool{
		Spec: mcptypes.NewTool(name, mcptypes.WithDescription("echoes its input")),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return fmt.Sprintf("echo:%v", args["value"]), nil
		},
	}
}

func failingTool(name string, err error) tools.Tool {
	return tools.Tool{
		Spec: mcptypes.NewTool(name, mcptypes.WithDescription("always fails")),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, err
		},
	}
}

func TestRunPlainResponsePassesThrough(t *testing.T) {
	p := testutil.NewScriptedProvider("The answer is 42.")
	a := New(p, Options{Registry: tools.NewRegistry()})

	got := a.Run(context.Background(), "what is the answer?")
	if got != "The answer is 42." {
		t.Errorf("Run returned %q", got)
	}
	if p.CallCount() != 1 {
		t.Errorf("provider called %d times, want 1", p.CallCount())
	}
}

func TestRunExecutesToolThenAnswers(t *testing.T) {
	p := testutil.NewScriptedProvider(
		`TOOL: echo ARGS: {"value": "ping"}`,
		"Done, the tool said echo:ping.",
	)
	a := New(p, Options{
		Registry:   tools.NewRegistry(),
		LocalTools: []tools.Tool{echoTool("echo")},
	})

	got := a.Run(context.Background(), "run the echo tool")
	if got != "Done, the tool said echo:ping." {
		t.Errorf("Run returned %q", got)
	}
	if p.CallCount() != 2 {
		t.Fatalf("provider called %d times, want 2", p.CallCount())
	}

	// Second call must carry the invocation and the tool result pair.
	second := p.Calls[1]
	var sawAssistant, sawResult bool
	for _, msg := range second {
		if msg.Role == "assistant" && strings.Contains(msg.Content, "TOOL: echo") {
			sawAssistant = true
		}
		if msg.Role == "user" && msg.Content == "Tool echo returned: echo:ping" {
			sawResult = true
		}
	}
	if !sawAssistant {
		t.Error("raw invocation text missing from conversation")
	}
	if !sawResult {
		t.Error("tool result message missing from conversation")
	}
}

func TestRunIterationCeiling(t *testing.T) {
	// Every response invokes a tool, so the loop can never finish.
	p := testutil.NewScriptedProvider(`TOOL: echo ARGS: {"value": "again"}`)
	a := New(p, Options{
		Registry:      tools.NewRegistry(),
		LocalTools:    []tools.Tool{echoTool("echo")},
		MaxIterations: 4,
	})

	got := a.Run(context.Background(), "loop forever")
	if got != "Reached maximum iterations without completing the task" {
		t.Errorf("Run returned %q", got)
	}
	if p.CallCount() != 4 {
		t.Errorf("provider called %d times, want exactly 4", p.CallCount())
	}
}

func TestRunToolFailureIsNotFatal(t *testing.T) {
	p := testutil.NewScriptedProvider(
		`TOOL: broken ARGS: {"value": 1}`,
		"The tool failed, moving on.",
	)
	a := New(p, Options{
		Registry:   tools.NewRegistry(),
		LocalTools: []tools.Tool{failingTool("broken", errors.New("disk on fire"))},
	})

	got := a.Run(context.Background(), "try the broken tool")
	if got != "The tool failed, moving on." {
		t.Errorf("Run returned %q", got)
	}

	second := p.Calls[1]
	var sawError bool
	for _, msg := range second {
		if msg.Role == "user" && strings.Contains(msg.Content, `{"error":"disk on fire"}`) {
			sawError = true
		}
	}
	if !sawError {
		t.Error("handler error was not wrapped into an error result")
	}
}

func TestRunUnknownToolBecomesErrorResult(t *testing.T) {
	p := testutil.NewScriptedProvider(
		`TOOL: missing ARGS: {}`,
		"No such tool apparently.",
	)
	a := New(p, Options{Registry: tools.NewRegistry()})

	got := a.Run(context.Background(), "use a tool that doesn't exist")
	if got != "No such tool apparently." {
		t.Errorf("Run returned %q", got)
	}

	second := p.Calls[1]
	var sawUnknown bool
	for _, msg := range second {
		if strings.Contains(msg.Content, "Unknown tool: missing") {
			sawUnknown = true
		}
	}
	if !sawUnknown {
		t.Error("unknown tool was not reported as an error result")
	}
}

func TestRunProviderFailure(t *testing.T) {
	flaky := testutil.NewFlakyProvider(100, errors.New("connection refused"), "never")
	a := New(flaky, Options{Registry: tools.NewRegistry()})

	got := a.Run(context.Background(), "hello")
	if !strings.HasPrefix(got, "Failed to get LLM response: ") {
		t.Errorf("Run returned %q", got)
	}
	if !strings.Contains(got, "connection refused") {
		t.Errorf("underlying error missing from %q", got)
	}
}

func TestRunObserverEventOrder(t *testing.T) {
	p := testutil.NewScriptedProvider(
		`TOOL: echo ARGS: {"value": "x"}`,
		"done",
	)

	var events []Event
	a := New(p, Options{
		Registry:   tools.NewRegistry(),
		LocalTools: []tools.Tool{echoTool("echo")},
		Observer:   func(ev Event) { events = append(events, ev) },
	})
	a.Run(context.Background(), "go")

	if len(events) != 2 {
		t.Fatalf("observer saw %d events, want 2: %+v", len(events), events)
	}
	if events[0].Kind != "status" || events[0].Tool != "echo" {
		t.Errorf("first event = %+v, want status/echo", events[0])
	}
	if events[1].Kind != "end" || events[1].Result != "echo:x" {
		t.Errorf("second event = %+v, want end with result", events[1])
	}
}

func TestRunLocalToolShadowsRegistry(t *testing.T) {
	r := tools.NewRegistry()
	if err := r.Register(tools.Tool{
		Spec: mcptypes.NewTool("echo", mcptypes.WithDescription("global echo")),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return "global", nil
		},
	}); err != nil {
		t.Fatal(err)
	}

	p := testutil.NewScriptedProvider(`TOOL: echo ARGS: {}`, "done")
	a := New(p, Options{
		Registry:   r,
		LocalTools: []tools.Tool{echoTool("echo")},
	})
	a.Run(context.Background(), "go")

	var sawLocal bool
	for _, msg := range p.Calls[1] {
		if strings.Contains(msg.Content, "echo:<nil>") {
			sawLocal = true
		}
	}
	if !sawLocal {
		t.Error("registry tool ran instead of the local override")
	}
}

func TestRunIncludesSystemPromptAndHistory(t *testing.T) {
	p := testutil.NewScriptedProvider("ok")
	a := New(p, Options{
		Registry:     tools.NewRegistry(),
		SystemPrompt: "You are a terse assistant.",
	})
	a.SetHistory([]model.Message{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	})
	a.Run(context.Background(), "new question")

	msgs := p.Calls[0]
	if len(msgs) != 4 {
		t.Fatalf("provider got %d messages, want 4", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[0].Content != "You are a terse assistant." {
		t.Errorf("first message = %+v", msgs[0])
	}
	if msgs[1].Content != "earlier question" || msgs[2].Content != "earlier answer" {
		t.Error("history not preserved in order")
	}
	if msgs[3].Role != "user" || msgs[3].Content != "new question" {
		t.Errorf("last message = %+v", msgs[3])
	}
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string passthrough", "plain text", "plain text"},
		{"map as json", map[string]any{"error": "boom"}, `{"error":"boom"}`},
		{"number as json", 42, "42"},
		{"slice as json", []string{"a", "b"}, `["a","b"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatResult(tt.value); got != tt.want {
				t.Errorf("formatResult(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
