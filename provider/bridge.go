package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"coursebot/config"
	"coursebot/model"
)

// toolBackend is the vendor-specific half of a provider. T is the backend's
// native tool declaration type.
type toolBackend[T any] interface {
	// translateTools converts canonical descriptors into native declarations.
	translateTools(tools []model.ToolDescriptor) T

	// generate makes the first call. tools is the zero value when no tools
	// are offered.
	generate(ctx context.Context, prompt string, tools T) (model.Reply, error)

	// followUp resubmits the prompt together with the directive in reply and
	// the executor's result, and returns the final text.
	followUp(ctx context.Context, prompt string, reply model.Reply, result any, tools T) (string, error)
}

// respond runs one request through backend. It is the shared body of every
// provider's GenerateResponse.
func respond[T any](ctx context.Context, tag string, backend toolBackend[T], supportsTools bool, req model.Request) string {
	prompt := buildPrompt(req.Query, req.History)

	var native T
	useTools := supportsTools && req.HasTools()
	if useTools {
		native = backend.translateTools(req.Tools)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[%s] generate: %d chars, %d tools offered (used=%v), history=%v",
			tag, len(prompt), len(req.Tools), useTools, req.History != "")
	}

	reply, err := backend.generate(ctx, prompt, native)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[%s] generate failed: %v", tag, err)
		}
		return model.FailureText(model.GenerationFailure(err))
	}

	if !reply.IsFunctionCall() {
		return reply.Text
	}

	text, err := runToolCall(ctx, tag, backend, prompt, reply, req.Executor, native)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[%s] tool call %s failed: %v", tag, reply.Call.Name, err)
		}
		return model.FailureText(model.ToolExecutionFailure(err))
	}
	return text
}

func runToolCall[T any](ctx context.Context, tag string, backend toolBackend[T], prompt string, reply model.Reply, executor model.ToolExecutor, tools T) (string, error) {
	if executor == nil {
		return "", model.ErrNoExecutor
	}

	call := reply.Call
	if call.Arguments == nil {
		call.Arguments = map[string]any{}
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[%s] executing %s (id=%q)", tag, call.Name, call.ID)
	}

	result, err := execute(ctx, executor, call)
	if err != nil {
		return "", err
	}

	return backend.followUp(ctx, prompt, reply, result, tools)
}

// execute runs the tool, turning a panic in the executor into an error.
func execute(ctx context.Context, executor model.ToolExecutor, call model.ToolCall) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", call.Name, r)
		}
	}()
	return executor.Execute(ctx, call.Name, call.Arguments)
}

// resultText renders a tool result for backends that take tool output as a
// string. Strings pass through; everything else is sent as JSON.
func resultText(result any) string {
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprint(result)
	}
	return string(data)
}

// parseArguments decodes a JSON object of tool arguments. An empty string is
// an empty object.
func parseArguments(raw string) (map[string]any, error) {
	args := map[string]any{}
	if raw == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("invalid tool arguments: %w", err)
	}
	return args, nil
}
