// Package tools holds the in-process tools offered to the model and the
// Registry that dispatches function calls to them.
package tools

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"coursebot/config"
	"coursebot/model"
)

// ErrUnknownTool is returned when the model asks for a tool that was never
// registered.
var ErrUnknownTool = errors.New("unknown tool")

// Handler runs a tool with the arguments chosen by the model.
type Handler func(ctx context.Context, args map[string]any) (any, error)

type Tool struct {
	Definition model.ToolDescriptor
	Handler    Handler
}

// Registry is a model.ToolExecutor over a set of named tools. Definitions
// are returned in registration order.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Names must be unique and schemas consistent.
func (r *Registry) Register(tool Tool) error {
	if tool.Handler == nil {
		return fmt.Errorf("tool %s has no handler", tool.Definition.Name)
	}
	if err := model.ValidateTools([]model.ToolDescriptor{tool.Definition}); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Definition.Name]; exists {
		return fmt.Errorf("duplicate tool name: %s", tool.Definition.Name)
	}
	r.tools[tool.Definition.Name] = tool
	r.order = append(r.order, tool.Definition.Name)

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Tools] Registered %s", tool.Definition.Name)
	}
	return nil
}

// Definitions returns the descriptors of all registered tools.
func (r *Registry) Definitions() []model.ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]model.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition)
	}
	return defs
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Execute implements model.ToolExecutor.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Tools] Executing %s with %v", name, args)
	}
	return tool.Handler(ctx, args)
}
