package tools

import (
	"context"
	"strings"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

func testTool(name string) Tool {
	return Tool{
		Spec: mcptypes.NewTool(name, mcptypes.WithDescription("test tool "+name)),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return name, nil
		},
	}
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testTool("alpha")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(testTool("beta")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, ok := r.Lookup("alpha")
	if !ok {
		t.Fatal("expected to find alpha")
	}
	if got.Spec.Name != "alpha" {
		t.Errorf("Lookup returned %q, want alpha", got.Spec.Name)
	}
	if _, ok := r.Lookup("gamma"); ok {
		t.Error("expected gamma to be absent")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestRegistryDuplicateName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testTool("alpha")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	err := r.Register(testTool("alpha"))
	if err == nil {
		t.Fatal("expected error for duplicate registration")
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Errorf("unexpected error: %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d after rejected duplicate, want 1", r.Len())
	}
}

func TestRegistryRejectsInvalidTools(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Tool{Handler: func(ctx context.Context, args map[string]any) (any, error) { return nil, nil }}); err == nil {
		t.Error("expected error for tool without a name")
	}
	if err := r.Register(Tool{Spec: mcptypes.NewTool("nohandler")}); err == nil {
		t.Error("expected error for tool without a handler")
	}
}

func TestRegistrySpecsPreserveOrder(t *testing.T) {
	r := NewRegistry()
	names := []string{"zeta", "alpha", "mid"}
	for _, name := range names {
		if err := r.Register(testTool(name)); err != nil {
			t.Fatalf("Register(%s) failed: %v", name, err)
		}
	}

	specs := r.Specs()
	if len(specs) != len(names) {
		t.Fatalf("Specs() returned %d entries, want %d", len(specs), len(names))
	}
	for i, spec := range specs {
		if spec.Name != names[i] {
			t.Errorf("Specs()[%d] = %q, want %q", i, spec.Name, names[i])
		}
	}

	got := r.Names()
	for i, name := range got {
		if name != names[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, name, names[i])
		}
	}
}

func TestRegisterBuiltins(t *testing.T) {
	r := NewRegistry()
	if err := RegisterBuiltins(r, BuiltinOptions{}); err != nil {
		t.Fatalf("RegisterBuiltins failed: %v", err)
	}
	for _, name := range []string{"calculator", "read", "write", "edit", "bash", "current_time", "web_search", "clipboard_copy"} {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("builtin %q not registered", name)
		}
	}
	if r.Len() != len(Builtins(BuiltinOptions{})) {
		t.Errorf("Len() = %d, want %d", r.Len(), len(Builtins(BuiltinOptions{})))
	}
}
