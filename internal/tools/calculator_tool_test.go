// In file: internal/tools/calculator_tool_test.go
package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateExpression(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"addition", "2+2", 4},
		{"precedence", "2+3*4", 14},
		{"parentheses", "(2+3)*4", 20},
		{"division", "7/2", 3.5},
		{"modulo", "10%3", 1},
		{"power", "2^10", 1024},
		{"power right associative", "2^3^2", 512},
		{"unary minus", "-3+5", 2},
		{"double unary minus", "--4", 4},
		{"nested", "((1+2)*(3+4))", 21},
		{"decimals", "0.1+0.2*10", 2.1},
		{"whitespace", "  2 +  2 ", 4},
		{"unary with power", "-2^2", -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluateExpression(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEvaluateExpression_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"trailing operator", "2+"},
		{"identifier", "two plus two"},
		{"function call", "sqrt(4)"},
		{"unbalanced paren", "(2+3"},
		{"division by zero", "1/0"},
		{"modulo by zero", "5%0"},
		{"double dot number", "1.2.3"},
		{"stray character", "2+2="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EvaluateExpression(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestCalculatorTool_Execute(t *testing.T) {
	tool := NewCalculatorTool()

	t.Run("valid expression", func(t *testing.T) {
		out, err := tool.Execute(`{"expression": "(2+3)*4"}`)
		require.NoError(t, err)

		var payload map[string]float64
		require.NoError(t, json.Unmarshal([]byte(out), &payload))
		assert.Equal(t, 20.0, payload["result"])
	})

	t.Run("bad expression is a payload, not an error", func(t *testing.T) {
		out, err := tool.Execute(`{"expression": "2+"}`)
		require.NoError(t, err)

		var payload map[string]string
		require.NoError(t, json.Unmarshal([]byte(out), &payload))
		assert.NotEmpty(t, payload["error"])
	})

	t.Run("malformed arguments are a hard error", func(t *testing.T) {
		_, err := tool.Execute(`not json`)
		assert.Error(t, err)
	})
}

func TestCalculatorTool_Definition(t *testing.T) {
	def := NewCalculatorTool().Definition()

	assert.Equal(t, ToolTypeFunction, def.Type)
	assert.Equal(t, "calculate", def.Function.Name)
	assert.Contains(t, def.Function.Parameters.Required, "expression")
}
