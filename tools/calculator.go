package tools

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// CalculatorTool evaluates arithmetic expressions with a small recursive
// descent parser. Nothing is ever passed to a shell or an interpreter.
func CalculatorTool() Tool {
	return Tool{
		Spec: mcptypes.NewTool("calculator",
			mcptypes.WithDescription("Evaluate a mathematical expression. Supports + - * / % ^, parentheses, and the functions sqrt, abs, min, max, pow, floor, ceil, round, plus the constants pi and e."),
			mcptypes.WithString("expression",
				mcptypes.Required(),
				mcptypes.Description("The expression to evaluate, e.g. \"2 * (3 + 4)\" or \"sqrt(16)\""),
			),
		),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			expr, ok := args["expression"].(string)
			if !ok || strings.TrimSpace(expr) == "" {
				return nil, fmt.Errorf("expression is required")
			}

			value, err := evalExpression(expr)
			if err != nil {
				return nil, err
			}

			// Integral results read better without the decimal point.
			if value == math.Trunc(value) && math.Abs(value) < 1e15 {
				return int64(value), nil
			}
			return value, nil
		},
	}
}

type exprParser struct {
	input string
	pos   int
}

func evalExpression(input string) (float64, error) {
	p := &exprParser{input: input}
	value, err := p.parseAddSub()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, fmt.Errorf("result is not a finite number")
	}
	return value, nil
}

func (p *exprParser) parseAddSub() (float64, error) {
	left, err := p.parseMulDiv()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch {
		case p.consume('+'):
			right, err := p.parseMulDiv()
			if err != nil {
				return 0, err
			}
			left += right
		case p.consume('-'):
			right, err := p.parseMulDiv()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseMulDiv() (float64, error) {
	left, err := p.parsePower()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch {
		case p.consume('*'):
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			left *= right
		case p.consume('/'):
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		case p.consume('%'):
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("modulo by zero")
			}
			left = math.Mod(left, right)
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parsePower() (float64, error) {
	base, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	// Right associative: 2^3^2 is 2^(3^2).
	if p.consume('^') {
		exp, err := p.parsePower()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil
	}
	return base, nil
}

func (p *exprParser) parseUnary() (float64, error) {
	p.skipSpaces()
	if p.consume('-') {
		v, err := p.parseUnary()
		return -v, err
	}
	if p.consume('+') {
		return p.parseUnary()
	}
	return p.parseAtom()
}

func (p *exprParser) parseAtom() (float64, error) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	if p.consume('(') {
		v, err := p.parseAddSub()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if !p.consume(')') {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		return v, nil
	}

	c := p.input[p.pos]
	switch {
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case unicode.IsLetter(rune(c)):
		return p.parseNameOrCall()
	default:
		return 0, fmt.Errorf("unexpected character %q at position %d", c, p.pos)
	}
}

func (p *exprParser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' || c == '.' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		// Exponent sign: only valid right after e/E.
		if (c == '+' || c == '-') && p.pos > start {
			prev := p.input[p.pos-1]
			if prev == 'e' || prev == 'E' {
				p.pos++
				continue
			}
		}
		break
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", p.input[start:p.pos])
	}
	return v, nil
}

func (p *exprParser) parseNameOrCall() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && (unicode.IsLetter(rune(p.input[p.pos])) || unicode.IsDigit(rune(p.input[p.pos])) || p.input[p.pos] == '_') {
		p.pos++
	}
	name := strings.ToLower(p.input[start:p.pos])

	p.skipSpaces()
	if !p.consume('(') {
		switch name {
		case "pi":
			return math.Pi, nil
		case "e":
			return math.E, nil
		default:
			return 0, fmt.Errorf("unknown identifier %q", name)
		}
	}

	var callArgs []float64
	p.skipSpaces()
	if !p.consume(')') {
		for {
			v, err := p.parseAddSub()
			if err != nil {
				return 0, err
			}
			callArgs = append(callArgs, v)
			p.skipSpaces()
			if p.consume(',') {
				continue
			}
			if p.consume(')') {
				break
			}
			return 0, fmt.Errorf("missing closing parenthesis in call to %q", name)
		}
	}

	return applyFunc(name, callArgs)
}

func applyFunc(name string, args []float64) (float64, error) {
	one := func() (float64, error) {
		if len(args) != 1 {
			return 0, fmt.Errorf("%s expects 1 argument, got %d", name, len(args))
		}
		return args[0], nil
	}

	switch name {
	case "sqrt":
		v, err := one()
		if err != nil {
			return 0, err
		}
		if v < 0 {
			return 0, fmt.Errorf("sqrt of negative number")
		}
		return math.Sqrt(v), nil
	case "abs":
		v, err := one()
		if err != nil {
			return 0, err
		}
		return math.Abs(v), nil
	case "floor":
		v, err := one()
		if err != nil {
			return 0, err
		}
		return math.Floor(v), nil
	case "ceil":
		v, err := one()
		if err != nil {
			return 0, err
		}
		return math.Ceil(v), nil
	case "round":
		v, err := one()
		if err != nil {
			return 0, err
		}
		return math.Round(v), nil
	case "pow":
		if len(args) != 2 {
			return 0, fmt.Errorf("pow expects 2 arguments, got %d", len(args))
		}
		return math.Pow(args[0], args[1]), nil
	case "min":
		if len(args) == 0 {
			return 0, fmt.Errorf("min expects at least 1 argument")
		}
		v := args[0]
		for _, a := range args[1:] {
			v = math.Min(v, a)
		}
		return v, nil
	case "max":
		if len(args) == 0 {
			return 0, fmt.Errorf("max expects at least 1 argument")
		}
		v := args[0]
		for _, a := range args[1:] {
			v = math.Max(v, a)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("unknown function %q", name)
	}
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n' || p.input[p.pos] == '\r') {
		p.pos++
	}
}

func (p *exprParser) consume(c byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}
