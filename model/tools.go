package model

import (
	"context"
	"fmt"
)

// ToolDescriptor is the vendor-neutral description of a callable tool.
// Its JSON shape matches the Claude tool format:
//
//	{"name": "...", "description": "...", "input_schema": {"properties": {...}, "required": [...]}}
type ToolDescriptor struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	InputSchema *InputSchema `json:"input_schema,omitempty"`
}

// InputSchema is the object-typed JSON schema of a tool's arguments.
type InputSchema struct {
	Type       string         `json:"type,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

// ToolCall is a function-call directive decoded from a backend response.
// It only lives for the duration of one GenerateResponse call.
type ToolCall struct {
	ID        string // backend correlation id, empty when the backend has none
	Name      string
	Arguments map[string]any
}

// ToolExecutor runs a named tool with the arguments chosen by the model.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, args map[string]any) (any, error)
}

// ExecutorFunc adapts an ordinary function to the ToolExecutor interface.
type ExecutorFunc func(ctx context.Context, name string, args map[string]any) (any, error)

// Execute calls f(ctx, name, args).
func (f ExecutorFunc) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	return f(ctx, name, args)
}

// ValidateTools checks that names are unique within the set and that every
// required parameter is declared in the schema properties.
func ValidateTools(tools []ToolDescriptor) error {
	seen := make(map[string]bool, len(tools))
	for _, tool := range tools {
		if tool.Name == "" {
			return fmt.Errorf("tool name is required")
		}
		if seen[tool.Name] {
			return fmt.Errorf("duplicate tool name: %s", tool.Name)
		}
		seen[tool.Name] = true

		if tool.InputSchema == nil {
			continue
		}
		for _, req := range tool.InputSchema.Required {
			if _, ok := tool.InputSchema.Properties[req]; !ok {
				return fmt.Errorf("tool %s: required parameter %q is not a declared property", tool.Name, req)
			}
		}
	}
	return nil
}
