// In file: internal/tools/calculator_tool.go
package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// --- Calculator Tool Implementation ---

// CalculatorTool evaluates arithmetic expressions over a deliberately small
// grammar: decimal numbers, + - * / % ^, unary minus, and parentheses.
// Identifiers and function calls are rejected outright, so there is no path
// to evaluating arbitrary code.
type CalculatorTool struct{}

// Statically verify that CalculatorTool implements the ToolExecutor interface.
var _ ToolExecutor = (*CalculatorTool)(nil)

// NewCalculatorTool creates a new instance of the CalculatorTool.
func NewCalculatorTool() *CalculatorTool {
	return &CalculatorTool{}
}

// Definition describes the tool to the model. A single expression string is
// used rather than operand/operator fields so the model can hand over nested
// expressions like "(2+3)*4^2" in one call.
func (ct *CalculatorTool) Definition() Tool {
	return NewFunctionTool(
		"calculate",
		"Evaluate a mathematical expression. Supports numbers, + - * / % ^ and parentheses.",
		JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"expression": {
					Type:        "string",
					Description: "The mathematical expression to evaluate, e.g. '(2+3)*4' or '2^10'.",
				},
			},
			Required: []string{"expression"},
		},
	)
}

// Execute parses the arguments and evaluates the expression. Malformed
// expressions come back as an error-shaped JSON payload for the model, not
// as a Go error; only unparseable argument JSON is a hard error.
func (ct *CalculatorTool) Execute(arguments string) (string, error) {
	var args struct {
		Expression string `json:"expression"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments for calculator: %w", err)
	}

	result, err := EvaluateExpression(args.Expression)
	if err != nil {
		payload, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(payload), nil
	}

	payload, _ := json.Marshal(map[string]float64{"result": result})
	return string(payload), nil
}

// EvaluateExpression evaluates an arithmetic expression using a
// recursive-descent parser. Grammar, loosest to tightest binding:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/" | "%") unary }
//	unary   = "-" unary | power
//	power   = primary [ "^" unary ]        (right-associative)
//	primary = number | "(" expr ")"
func EvaluateExpression(input string) (float64, error) {
	p := &exprParser{input: input}
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0, fmt.Errorf("empty expression")
	}
	value, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected character '%c' at position %d", p.input[p.pos], p.pos)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, fmt.Errorf("expression result is not a finite number")
	}
	return value, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

// peek returns the next significant byte, or 0 at end of input.
func (p *exprParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *exprParser) parseExpr() (float64, error) {
	value, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			value += rhs
		case '-':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			value -= rhs
		default:
			return value, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	value, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			value *= rhs
		case '/':
			p.pos++
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			value /= rhs
		case '%':
			p.pos++
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, fmt.Errorf("modulo by zero")
			}
			value = math.Mod(value, rhs)
		default:
			return value, nil
		}
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	if p.peek() == '-' {
		p.pos++
		value, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -value, nil
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (float64, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	if p.peek() == '^' {
		p.pos++
		// Right-associative: 2^3^2 is 2^(3^2).
		exponent, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exponent), nil
	}
	return base, nil
}

func (p *exprParser) parsePrimary() (float64, error) {
	ch := p.peek()
	switch {
	case ch == '(':
		p.pos++
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return value, nil
	case ch >= '0' && ch <= '9', ch == '.':
		return p.parseNumber()
	case ch == 0:
		return 0, fmt.Errorf("unexpected end of expression")
	default:
		return 0, fmt.Errorf("invalid character '%c' in expression", ch)
	}
}

func (p *exprParser) parseNumber() (float64, error) {
	start := p.pos
	seenDot := false
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch >= '0' && ch <= '9' {
			p.pos++
			continue
		}
		if ch == '.' && !seenDot {
			seenDot = true
			p.pos++
			continue
		}
		break
	}
	text := strings.TrimSpace(p.input[start:p.pos])
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number '%s'", text)
	}
	return value, nil
}
