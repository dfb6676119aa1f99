package testutil

import (
	"context"
	"sync"

	"coursebot/model"
)

// MockProvider implements model.Provider for testing front ends.
type MockProvider struct {
	// GenerateFunc produces the answer. Defaults to echoing the query.
	GenerateFunc func(ctx context.Context, req model.Request) string
	Tools        bool

	mu           sync.Mutex
	requests     []model.Request
	currentModel string
}

// NewMockProvider creates a mock provider with default implementations
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{currentModel: modelName, Tools: true}
	mock.GenerateFunc = mock.defaultGenerate
	return mock
}

func (m *MockProvider) defaultGenerate(ctx context.Context, req model.Request) string {
	return "Mock response: " + req.Query
}

func (m *MockProvider) GenerateResponse(ctx context.Context, req model.Request) string {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.GenerateFunc(ctx, req)
}

func (m *MockProvider) SupportsTools() bool {
	return m.Tools
}

func (m *MockProvider) GetModel() string {
	return m.currentModel
}

// Requests returns every request received so far.
func (m *MockProvider) Requests() []model.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Request(nil), m.requests...)
}

// ToolInvocation records one call to a RecordingExecutor.
type ToolInvocation struct {
	Name string
	Args map[string]any
}

// RecordingExecutor is a model.ToolExecutor that records every call and
// answers with Result/Err, or with ExecuteFunc when set.
type RecordingExecutor struct {
	Result      any
	Err         error
	ExecuteFunc func(ctx context.Context, name string, args map[string]any) (any, error)

	mu    sync.Mutex
	calls []ToolInvocation
}

func (e *RecordingExecutor) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	e.mu.Lock()
	e.calls = append(e.calls, ToolInvocation{Name: name, Args: args})
	e.mu.Unlock()

	if e.ExecuteFunc != nil {
		return e.ExecuteFunc(ctx, name, args)
	}
	return e.Result, e.Err
}

// Calls returns the recorded invocations in order.
func (e *RecordingExecutor) Calls() []ToolInvocation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ToolInvocation(nil), e.calls...)
}
