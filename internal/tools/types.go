// In file: internal/tools/types.go

// Package tools defines the function-calling (tool use) surface of the
// assistant: the schemas described to the model, the calls the model sends
// back, and the results fed into the conversation history.
package tools

// ToolTypeFunction is the standard type for function-based tools.
const ToolTypeFunction = "function"

// Result statuses. Tool execution never propagates an error past the
// manager; it is folded into a ToolResult instead so the model can see it.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Tool is the schema for a function as described *to* the model.
type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

// Function holds the name, description, and parameter schema of a callable
// tool. The description is what the model uses to decide when to call it.
type Function struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  JSONSchema `json:"parameters"`
}

// JSONSchema is a typed subset of JSON Schema sufficient for tool
// parameters. Using a struct instead of map[string]interface{} keeps tool
// definitions checkable at compile time.
type JSONSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
}

// ToolCall is a request *from* the model to execute a tool. The ID ties the
// execution result back to the request in the follow-up model call.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction carries the function name and its arguments as the raw
// JSON string the model generated.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolResult is the outcome of one tool invocation. It exists for exactly
// one turn: created by the manager, appended to the conversation, discarded.
type ToolResult struct {
	ToolName string `json:"tool_name"`
	Status   string `json:"status"`
	Content  string `json:"content"`
}

// IsError reports whether the invocation failed.
func (r ToolResult) IsError() bool { return r.Status == StatusError }

// NewFunctionTool builds a Tool with the correct "function" type set.
func NewFunctionTool(name, description string, parameters JSONSchema) Tool {
	return Tool{
		Type: ToolTypeFunction,
		Function: Function{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}
