// Package tools holds the capability registry and the built-in tool set.
//
// Every tool is described by an mcp.Tool schema (name, description, JSON
// parameter schema) plus a handler. The schemas double as the source for the
// capability list rendered into the system prompt, so the model and the
// executor always agree on what exists.
package tools

import (
	"context"
	"fmt"
	"sync"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Handler executes a tool with parsed arguments. An error return is a
// per-call failure, it is wrapped into an error result and never terminates
// the conversation.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Tool pairs a schema with its implementation.
type Tool struct {
	Spec    mcptypes.Tool
	Handler Handler
}

// Registry is a name-keyed tool collection. Specs preserves registration
// order so the rendered capability list is stable across runs.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Duplicate names are a configuration error.
func (r *Registry) Register(t Tool) error {
	if t.Spec.Name == "" {
		return fmt.Errorf("tool has no name")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %s has no handler", t.Spec.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Spec.Name]; exists {
		return fmt.Errorf("tool %s already registered", t.Spec.Name)
	}
	r.tools[t.Spec.Name] = t
	r.order = append(r.order, t.Spec.Name)
	return nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Specs returns all schemas in registration order.
func (r *Registry) Specs() []mcptypes.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]mcptypes.Tool, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.tools[name].Spec)
	}
	return specs
}

// Names returns all tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry that built-in tools live in.
// Agents consult their local tool list first and fall back to this.
func Default() *Registry {
	return defaultRegistry
}
