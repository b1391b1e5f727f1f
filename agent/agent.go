// Package agent runs the tool-use conversation loop.
//
// The model is prompted with a capability list and a plain-text invocation
// format. Each response is scanned for a tool invocation; when one is found
// the tool runs and its result is fed back into the conversation, up to a
// bounded number of model calls. A response with no invocation is the final
// answer.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quark/config"
	"quark/model"
	"quark/protocol"
	"quark/tools"
)

// Sentinel responses. These are returned as normal text so the caller always
// gets something to show the user.
const (
	maxIterationsResponse = "Reached maximum iterations without completing the task"
	llmFailureFormat      = "Failed to get LLM response: %v"
)

// DefaultMaxIterations bounds the loop when the caller doesn't configure it.
const DefaultMaxIterations = 10

// Event is a tool-execution notification. Kind is "status" right before the
// handler runs and "end" right after, with Result populated.
type Event struct {
	Kind   string
	Tool   string
	Args   map[string]any
	Result string
}

// Observer receives tool events. Observer panics are deliberately not
// recovered; a broken observer is a programming error.
type Observer func(Event)

// Options configures an Agent.
type Options struct {
	SystemPrompt  string
	MaxIterations int
	LocalTools    []tools.Tool
	Registry      *tools.Registry
	Reflector     *Reflector
	Observer      Observer
}

// Agent drives the model/tool conversation loop for one query at a time.
type Agent struct {
	provider      model.Provider
	systemPrompt  string
	maxIterations int
	localTools    map[string]tools.Tool
	registry      *tools.Registry
	reflector     *Reflector
	observer      Observer

	history []model.Message
}

// New creates an agent. A nil Registry falls back to tools.Default().
func New(provider model.Provider, opts Options) *Agent {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Registry == nil {
		opts.Registry = tools.Default()
	}

	local := make(map[string]tools.Tool, len(opts.LocalTools))
	for _, t := range opts.LocalTools {
		local[t.Spec.Name] = t
	}

	return &Agent{
		provider:      provider,
		systemPrompt:  opts.SystemPrompt,
		maxIterations: opts.MaxIterations,
		localTools:    local,
		registry:      opts.Registry,
		reflector:     opts.Reflector,
		observer:      opts.Observer,
	}
}

// SetHistory seeds the conversation with prior session messages. Only user
// and assistant turns are meaningful here.
func (a *Agent) SetHistory(history []model.Message) {
	a.history = append([]model.Message(nil), history...)
}

// Run executes the loop for one user query and always returns text: either
// the model's final answer or a sentinel describing why the loop stopped.
func (a *Agent) Run(ctx context.Context, query string) string {
	messages := make([]model.Message, 0, len(a.history)+2)
	if a.systemPrompt != "" {
		messages = append(messages, model.Message{Role: "system", Content: a.systemPrompt})
	}
	messages = append(messages, a.history...)
	messages = append(messages, model.Message{Role: "user", Content: query, Timestamp: time.Now()})

	for i := 0; i < a.maxIterations; i++ {
		response, err := a.provider.Chat(ctx, messages, model.ChatOptions{})
		if err != nil {
			return fmt.Sprintf(llmFailureFormat, err)
		}

		call, ok := protocol.Parse(response)
		if !ok {
			// No tool invocation: this is the final answer.
			if a.reflector != nil {
				return a.reflector.Reflect(ctx, query, response)
			}
			return response
		}

		result := a.execute(ctx, call)

		// The raw response (invocation text included) stays in the
		// conversation so the model sees what it asked for.
		messages = append(messages,
			model.Message{Role: "assistant", Content: response, Timestamp: time.Now()},
			model.Message{Role: "user", Content: fmt.Sprintf("Tool %s returned: %s", call.Name, result), Timestamp: time.Now()},
		)
	}

	return maxIterationsResponse
}

// execute runs one tool invocation. Unknown tools and handler errors become
// error results, never loop failures.
func (a *Agent) execute(ctx context.Context, call *protocol.ToolCall) string {
	a.notify(Event{Kind: "status", Tool: call.Name, Args: call.Args})

	var result string
	tool, ok := a.lookup(call.Name)
	switch {
	case !ok:
		result = formatResult(map[string]any{"error": fmt.Sprintf("Unknown tool: %s", call.Name)})
	default:
		value, err := tool.Handler(ctx, call.Args)
		if err != nil {
			result = formatResult(map[string]any{"error": err.Error()})
		} else {
			result = formatResult(value)
		}
	}

	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Agent] Tool %s -> %s", call.Name, result)
	}

	a.notify(Event{Kind: "end", Tool: call.Name, Args: call.Args, Result: result})
	return result
}

// lookup checks local tools before the shared registry, so a caller can
// shadow a global tool for one agent.
func (a *Agent) lookup(name string) (tools.Tool, bool) {
	if t, ok := a.localTools[name]; ok {
		return t, true
	}
	return a.registry.Lookup(name)
}

func (a *Agent) notify(ev Event) {
	if a.observer != nil {
		a.observer(ev)
	}
}

// formatResult renders a tool result for the conversation. Strings pass
// through untouched; everything else is JSON.
func formatResult(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}
