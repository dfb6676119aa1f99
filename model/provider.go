package model

import (
	"context"
)

// Provider abstracts LLM backends (Claude, Gemini, OpenAI, Ollama) behind a
// single request/answer contract.
//
// This interface is defined in the model package (not provider package) so
// that front ends and tool executors can depend on it without importing any
// vendor SDK.
type Provider interface {
	// GenerateResponse answers req.Query, running at most one tool call when
	// the backend asks for one. It never returns an error: failures come back
	// as text starting with GenerationErrorPrefix or ToolExecutionErrorPrefix.
	GenerateResponse(ctx context.Context, req Request) string

	// SupportsTools reports whether the backend honours Request.Tools.
	// Backends returning false ignore any tools they are given.
	SupportsTools() bool

	// GetModel returns the model identifier used for API calls.
	GetModel() string
}

// Request carries the inputs of a single GenerateResponse call.
type Request struct {
	// Query is the user's question. Must be non-empty.
	Query string

	// History is an already formatted summary of earlier turns. It is
	// prepended to the prompt verbatim and never interpreted.
	History string

	// Tools are offered to the model in order. Ignored by backends that do
	// not support tools.
	Tools []ToolDescriptor

	// Executor runs the function the model asks for. May be nil.
	Executor ToolExecutor
}

// HasTools reports whether the request offers at least one tool.
func (r Request) HasTools() bool {
	return len(r.Tools) > 0
}
