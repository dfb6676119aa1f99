package provider

import (
	"encoding/json"

	"coursebot/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// parametersOf returns the object-typed parameter schema of a tool.
// Properties and required are copied verbatim; a tool without a schema takes
// no parameters.
func parametersOf(tool model.ToolDescriptor) map[string]any {
	properties := map[string]any{}
	required := []string{}

	if tool.InputSchema != nil {
		if tool.InputSchema.Properties != nil {
			properties = tool.InputSchema.Properties
		}
		if tool.InputSchema.Required != nil {
			required = tool.InputSchema.Required
		}
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// descriptorFrom rebuilds a canonical descriptor from a native JSON-schema
// parameters object.
func descriptorFrom(name, description string, parameters map[string]any) model.ToolDescriptor {
	tool := model.ToolDescriptor{Name: name, Description: description}
	if parameters == nil {
		return tool
	}

	schema := &model.InputSchema{Type: "object"}
	if props, ok := parameters["properties"].(map[string]any); ok {
		schema.Properties = props
	}
	schema.Required = stringSlice(parameters["required"])
	tool.InputSchema = schema

	return tool
}

func stringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// toMap converts any JSON-serialisable value into a generic JSON object.
func toMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

// ToGeminiTools converts descriptors into a single Gemini tool holding one
// function declaration per descriptor.
func ToGeminiTools(tools []model.ToolDescriptor) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}

	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:                 tool.Name,
			Description:          tool.Description,
			ParametersJsonSchema: parametersOf(tool),
		})
	}

	return []*genai.Tool{{FunctionDeclarations: declarations}}
}

// DescriptorsFromGemini is the inverse of ToGeminiTools.
func DescriptorsFromGemini(tools []*genai.Tool) []model.ToolDescriptor {
	var result []model.ToolDescriptor
	for _, tool := range tools {
		if tool == nil {
			continue
		}
		for _, decl := range tool.FunctionDeclarations {
			result = append(result, descriptorFrom(decl.Name, decl.Description, toMap(decl.ParametersJsonSchema)))
		}
	}
	return result
}

// ToClaudeTools converts descriptors to Anthropic tool params.
func ToClaudeTools(tools []model.ToolDescriptor) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}

	result := make([]anthropic.ToolUnionParam, len(tools))
	for i, tool := range tools {
		params := parametersOf(tool)
		inputSchema := anthropic.ToolInputSchemaParam{
			// Type defaults to "object" when omitted
			Properties: params["properties"],
			Required:   params["required"].([]string),
		}

		result[i] = anthropic.ToolUnionParamOfTool(inputSchema, tool.Name)
		if tool.Description != "" {
			result[i].OfTool.Description = anthropic.String(tool.Description)
		}
	}

	return result
}

// DescriptorsFromClaude is the inverse of ToClaudeTools.
func DescriptorsFromClaude(tools []anthropic.ToolUnionParam) []model.ToolDescriptor {
	var result []model.ToolDescriptor
	for _, tool := range tools {
		if tool.OfTool == nil {
			continue
		}
		params := map[string]any{
			"properties": toMap(tool.OfTool.InputSchema.Properties),
			"required":   tool.OfTool.InputSchema.Required,
		}
		result = append(result, descriptorFrom(tool.OfTool.Name, tool.OfTool.Description.Value, params))
	}
	return result
}

// ToOpenAITools converts descriptors to OpenAI function tools. OpenRouter
// uses the same format.
func ToOpenAITools(tools []model.ToolDescriptor) []openai.ChatCompletionToolUnionParam {
	if len(tools) == 0 {
		return nil
	}

	result := make([]openai.ChatCompletionToolUnionParam, len(tools))
	for i, tool := range tools {
		result[i] = openai.ChatCompletionFunctionTool(
			openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  openai.FunctionParameters(parametersOf(tool)),
			},
		)
	}

	return result
}

// DescriptorsFromOpenAI is the inverse of ToOpenAITools.
func DescriptorsFromOpenAI(tools []openai.ChatCompletionToolUnionParam) []model.ToolDescriptor {
	var result []model.ToolDescriptor
	for _, tool := range tools {
		if tool.OfFunction == nil {
			continue
		}
		fn := tool.OfFunction.Function
		result = append(result, descriptorFrom(fn.Name, fn.Description.Value, map[string]any(fn.Parameters)))
	}
	return result
}

// ToOllamaTools converts descriptors to Ollama tool definitions.
func ToOllamaTools(tools []model.ToolDescriptor) []api.Tool {
	if len(tools) == 0 {
		return nil
	}

	result := make([]api.Tool, 0, len(tools))
	for _, tool := range tools {
		params := parametersOf(tool)
		properties := params["properties"].(map[string]any)

		fnParams := api.ToolFunctionParameters{
			Type:       "object",
			Required:   params["required"].([]string),
			Properties: make(map[string]api.ToolProperty, len(properties)),
		}
		for name, prop := range properties {
			fnParams.Properties[name] = convertProperty(prop)
		}

		result = append(result, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  fnParams,
			},
		})
	}

	return result
}

// DescriptorsFromOllama is the inverse of ToOllamaTools.
func DescriptorsFromOllama(tools []api.Tool) []model.ToolDescriptor {
	var result []model.ToolDescriptor
	for _, tool := range tools {
		fn := tool.Function
		properties := make(map[string]any, len(fn.Parameters.Properties))
		for name, prop := range fn.Parameters.Properties {
			properties[name] = toMap(prop)
		}
		params := map[string]any{
			"properties": properties,
			"required":   fn.Parameters.Required,
		}
		result = append(result, descriptorFrom(fn.Name, fn.Description, params))
	}
	return result
}

// convertProperty converts a JSON-schema property into Ollama's typed form.
func convertProperty(value any) api.ToolProperty {
	prop := api.ToolProperty{}

	propMap := toMap(value)
	if propMap == nil {
		return prop
	}

	// type can be a string or a list of strings
	switch t := propMap["type"].(type) {
	case string:
		prop.Type = api.PropertyType{t}
	case []string:
		prop.Type = api.PropertyType(t)
	case []any:
		prop.Type = api.PropertyType(stringSlice(t))
	}

	if desc, ok := propMap["description"].(string); ok {
		prop.Description = desc
	}

	switch enumVal := propMap["enum"].(type) {
	case []any:
		prop.Enum = enumVal
	case []string:
		for _, v := range enumVal {
			prop.Enum = append(prop.Enum, v)
		}
	}

	if items, ok := propMap["items"]; ok {
		prop.Items = items
	}

	if anyOf, ok := propMap["anyOf"].([]any); ok {
		prop.AnyOf = make([]api.ToolProperty, 0, len(anyOf))
		for _, item := range anyOf {
			prop.AnyOf = append(prop.AnyOf, convertProperty(item))
		}
	}

	return prop
}
