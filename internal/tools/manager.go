// In file: internal/tools/manager.go
package tools

import "fmt"

// Manager holds the registry of available tools and dispatches calls to them.
// Registration happens once at startup; the registry is immutable afterwards.
type Manager struct {
	tools map[string]ToolExecutor
	order []string
}

func NewManager() *Manager {
	return &Manager{
		tools: make(map[string]ToolExecutor),
	}
}

// Register adds a tool under the name from its own definition.
func (m *Manager) Register(tool ToolExecutor) {
	name := tool.Definition().Function.Name
	if _, exists := m.tools[name]; !exists {
		m.order = append(m.order, name)
	}
	m.tools[name] = tool
}

// Definitions returns all registered tool schemas in registration order, so
// the request payload sent to the model is stable across turns.
func (m *Manager) Definitions() []Tool {
	defs := make([]Tool, 0, len(m.tools))
	for _, name := range m.order {
		defs = append(defs, m.tools[name].Definition())
	}
	return defs
}

// Lookup returns the tool registered under name.
func (m *Manager) Lookup(name string) (ToolExecutor, error) {
	tool, ok := m.tools[name]
	if !ok {
		return nil, fmt.Errorf("tool '%s' not found", name)
	}
	return tool, nil
}

// Has reports whether a tool is registered under name.
func (m *Manager) Has(name string) bool {
	_, ok := m.tools[name]
	return ok
}

// ToolCount returns the number of registered tools.
func (m *Manager) ToolCount() int {
	return len(m.tools)
}

// Execute runs a tool by name and always returns a ToolResult. Unknown
// names, execution errors, and panics inside tool bodies all become results
// with StatusError; nothing escapes past this boundary.
func (m *Manager) Execute(name, arguments string) (result ToolResult) {
	result = ToolResult{ToolName: name, Status: StatusOK}

	defer func() {
		if r := recover(); r != nil {
			result.Status = StatusError
			result.Content = fmt.Sprintf("tool '%s' panicked: %v", name, r)
		}
	}()

	tool, err := m.Lookup(name)
	if err != nil {
		result.Status = StatusError
		result.Content = err.Error()
		return result
	}

	content, err := tool.Execute(arguments)
	if err != nil {
		result.Status = StatusError
		result.Content = fmt.Sprintf("tool '%s' failed: %v", name, err)
		return result
	}

	result.Content = content
	return result
}
