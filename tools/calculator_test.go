package tools

import (
	"context"
	"math"
	"strings"
	"testing"
)

func TestCalculatorEvaluates(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want any
	}{
		{"addition", "2 + 3", int64(5)},
		{"precedence", "2 + 3 * 4", int64(14)},
		{"parentheses", "(2 + 3) * 4", int64(20)},
		{"division", "10 / 4", 2.5},
		{"modulo", "10 % 3", int64(1)},
		{"power right assoc", "2 ^ 3 ^ 2", int64(512)},
		{"unary minus", "-5 + 3", int64(-2)},
		{"sqrt", "sqrt(16)", int64(4)},
		{"nested call", "max(1, min(5, 3), 2)", int64(3)},
		{"pow", "pow(2, 10)", int64(1024)},
		{"round", "round(2.4)", int64(2)},
		{"scientific notation", "1.5e2", int64(150)},
		{"pi", "floor(pi)", int64(3)},
	}

	tool := CalculatorTool()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tool.Handler(context.Background(), map[string]any{"expression": tt.expr})
			if err != nil {
				t.Fatalf("eval(%q) failed: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("eval(%q) = %v (%T), want %v (%T)", tt.expr, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestCalculatorErrors(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr string
	}{
		{"division by zero", "1 / 0", "division by zero"},
		{"unknown function", "frobnicate(1)", "unknown function"},
		{"unknown identifier", "x + 1", "unknown identifier"},
		{"unterminated paren", "(1 + 2", "closing parenthesis"},
		{"trailing garbage", "1 + 2 @", "unexpected character"},
		{"sqrt negative", "sqrt(-1)", "negative"},
		{"empty", "   ", "required"},
	}

	tool := CalculatorTool()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tool.Handler(context.Background(), map[string]any{"expression": tt.expr})
			if err == nil {
				t.Fatalf("eval(%q) succeeded, want error containing %q", tt.expr, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("eval(%q) error = %v, want it to contain %q", tt.expr, err, tt.wantErr)
			}
		})
	}
}

func TestCalculatorFractionalResult(t *testing.T) {
	tool := CalculatorTool()
	got, err := tool.Handler(context.Background(), map[string]any{"expression": "sqrt(2)"})
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	v, ok := got.(float64)
	if !ok {
		t.Fatalf("got %T, want float64", got)
	}
	if math.Abs(v-math.Sqrt2) > 1e-12 {
		t.Errorf("sqrt(2) = %v", v)
	}
}
