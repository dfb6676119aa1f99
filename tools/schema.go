package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"coursebot/model"

	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects the JSON schema of an argument struct. Fields
// without omitempty are required; `jsonschema:"description=..."` tags
// become property descriptions.
func GenerateSchema[T any]() (*model.InputSchema, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	var args T
	reflected := reflector.Reflect(&args)

	data, err := json.Marshal(reflected)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	var raw struct {
		Properties map[string]any `json:"properties"`
		Required   []string       `json:"required"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}

	if raw.Properties == nil {
		raw.Properties = map[string]any{}
	}
	return &model.InputSchema{
		Type:       "object",
		Properties: raw.Properties,
		Required:   raw.Required,
	}, nil
}

// NewTypedTool builds a Tool whose arguments are decoded into T before the
// handler runs.
func NewTypedTool[T any](name, description string, handler func(ctx context.Context, args T) (any, error)) (Tool, error) {
	schema, err := GenerateSchema[T]()
	if err != nil {
		return Tool{}, fmt.Errorf("tool %s: %w", name, err)
	}

	return Tool{
		Definition: model.ToolDescriptor{
			Name:        name,
			Description: description,
			InputSchema: schema,
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			typed, err := decodeArgs[T](args)
			if err != nil {
				return nil, fmt.Errorf("tool %s: %w", name, err)
			}
			return handler(ctx, typed)
		},
	}, nil
}

func decodeArgs[T any](args map[string]any) (T, error) {
	var typed T
	data, err := json.Marshal(args)
	if err != nil {
		return typed, fmt.Errorf("invalid arguments: %w", err)
	}
	if err := json.Unmarshal(data, &typed); err != nil {
		return typed, fmt.Errorf("invalid arguments: %w", err)
	}
	return typed, nil
}
