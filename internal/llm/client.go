// In file: internal/llm/client.go

// Package llm contains the model-facing core of the assistant: the universal
// client interface, the Groq and Gemini implementations, the query router,
// and the fallback detector for tool calls written as plain text.
package llm

import (
	"context"

	"github.com/dileep-u-k/groq-assistant/internal/api"
	"github.com/dileep-u-k/groq-assistant/internal/tools"
)

// Role identifies the originator of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is a single record in the conversation history. Histories are
// append-only: records are added for the user turn, assistant tool calls,
// tool results, and the final answer, and never edited in place.
type Message struct {
	Role       Role              `json:"role"`
	Content    string            `json:"content"`
	ToolCallID string            `json:"tool_call_id,omitempty"`
	ToolCalls  []*tools.ToolCall `json:"tool_calls,omitempty"`
}

// GenerationConfig controls one model call.
type GenerationConfig struct {
	// Model is the provider-specific model id (e.g. "llama-3.3-70b-versatile").
	Model string
	// Temperature; a pointer so an explicit 0.0 survives.
	Temperature *float32
	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int
	// TopP nucleus sampling parameter.
	TopP *float32
	// ForceTool, when set, pins tool_choice to that function name so the
	// model must call it. Empty means "auto" when tools are attached.
	ForceTool string
}

// GenerationResult is the complete, non-streamed output of one model call.
type GenerationResult struct {
	Content   string
	ToolCalls []*tools.ToolCall
	Usage     api.Usage
}

// StreamingResult is one chunk of a streamed response.
type StreamingResult struct {
	ContentDelta  string
	ToolCallChunk *tools.ToolCall
	Usage         *api.Usage
	Err           error
}

// LLMClient is the universal interface implemented by every provider client.
type LLMClient interface {
	// Generate performs a blocking request and returns the complete result.
	Generate(
		ctx context.Context,
		messages []Message,
		config *GenerationConfig,
		availableTools []tools.Tool,
	) (*GenerationResult, error)

	// GenerateStream performs a streaming request. The returned channel is
	// closed by the client when the stream ends.
	GenerateStream(
		ctx context.Context,
		messages []Message,
		config *GenerationConfig,
		availableTools []tools.Tool,
	) (<-chan *StreamingResult, error)
}
