// In file: internal/tools/executor.go
package tools

// ToolExecutor is the contract every tool implements. The manager only ever
// talks to tools through this interface, so new tools plug in without the
// conversation loop knowing their details.
type ToolExecutor interface {
	// Definition returns the schema handed to the model.
	Definition() Tool

	// Execute runs the tool. Arguments arrive as the JSON string generated
	// by the model against the tool's schema. The string result is sent back
	// to the model verbatim.
	Execute(arguments string) (string, error)
}
