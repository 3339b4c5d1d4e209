// In file: internal/llm/detector_test.go
package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector() *ToolCallDetector {
	return NewToolCallDetector("web_search", "calculate")
}

func TestDetector_ExplicitFormats(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantTool string
		wantArgs string
	}{
		{
			name:     "function tag with brace args",
			text:     `I'll look that up. <function=web_search {"query": "capital of France"}>`,
			wantTool: "web_search",
			wantArgs: `{"query":"capital of France"}`,
		},
		{
			name:     "function tag with bracket args",
			text:     `<function=web_search ["latest Go release"]`,
			wantTool: "web_search",
			wantArgs: `{"query":"latest Go release"}`,
		},
		{
			name:     "bare call",
			text:     `Let me work this out: calculate(2+2*3)`,
			wantTool: "calculate",
			wantArgs: `{"expression":"2+2*3"}`,
		},
		{
			name:     "function keyword",
			text:     `function web_search("weather in Paris")`,
			wantTool: "web_search",
			wantArgs: `{"query":"weather in Paris"}`,
		},
		{
			name:     "tool tag",
			text:     `<tool:calculate>7*6</tool>`,
			wantTool: "calculate",
			wantArgs: `{"expression":"7*6"}`,
		},
		{
			name:     "alias resolves to registered name",
			text:     `websearch("golang generics")`,
			wantTool: "web_search",
			wantArgs: `{"query":"golang generics"}`,
		},
		{
			name:     "using tool phrasing",
			text:     `Using web_search to search for "current gold price"`,
			wantTool: "web_search",
			wantArgs: `{"query":"current gold price"}`,
		},
	}

	detector := newTestDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := detector.Detect(tt.text)
			require.NotNil(t, call)
			assert.Equal(t, tt.wantTool, call.ToolName)
			assert.JSONEq(t, tt.wantArgs, call.Arguments)
			assert.NotEmpty(t, call.OriginalText)
		})
	}
}

func TestDetector_ConversationalPhrasings(t *testing.T) {
	detector := newTestDetector()

	t.Run("ill search for", func(t *testing.T) {
		call := detector.Detect(`I'll search for "latest election results" right away.`)
		require.NotNil(t, call)
		assert.Equal(t, "web_search", call.ToolName)
		assert.JSONEq(t, `{"query":"latest election results"}`, call.Arguments)
	})

	t.Run("let me calculate", func(t *testing.T) {
		call := detector.Detect(`Let me calculate "15% of 80" for you.`)
		require.NotNil(t, call)
		assert.Equal(t, "calculate", call.ToolName)
		assert.JSONEq(t, `{"expression":"15% of 80"}`, call.Arguments)
	})

	t.Run("unquoted search intent", func(t *testing.T) {
		call := detector.Detect("I need to search for the current weather in Tokyo.\n")
		require.NotNil(t, call)
		assert.Equal(t, "web_search", call.ToolName)
		assert.JSONEq(t, `{"query":"the current weather in Tokyo"}`, call.Arguments)
	})
}

func TestDetector_NoFalsePositives(t *testing.T) {
	detector := newTestDetector()

	tests := []struct {
		name string
		text string
	}{
		{"empty text", ""},
		{"plain answer", "The capital of France is Paris."},
		{"unknown function name", "In math, f(x) means a function applied to x."},
		{"mentions tools without invoking", "I have web search and calculator capabilities."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, detector.Detect(tt.text))
		})
	}
}

func TestDetector_UnregisteredToolsAreIgnored(t *testing.T) {
	// Only web_search is registered here; calculate prose must not match.
	detector := NewToolCallDetector("web_search")

	assert.Nil(t, detector.Detect(`calculate(2+2)`))

	call := detector.Detect(`search("something recent")`)
	require.NotNil(t, call)
	assert.Equal(t, "web_search", call.ToolName)
}

func TestExtractArgument(t *testing.T) {
	assert.Equal(t, "golang", extractArgument("web_search", `{"query": "golang"}`))
	assert.Equal(t, "2+2", extractArgument("calculate", `{"expression": "2+2"}`))
	assert.Equal(t, "quoted fallback", extractArgument("web_search", `"quoted fallback"`))
	assert.Equal(t, "raw blob", extractArgument("calculate", ` raw blob `))
}
