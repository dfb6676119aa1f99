package mcp

import (
	"encoding/json"
	"errors"
	"strings"

	"coursebot/model"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// ToolDescriptorFromMCP converts an MCP tool listing into a descriptor.
// $defs are not carried: the providers only accept flat schemas.
func ToolDescriptorFromMCP(tool mcptypes.Tool) model.ToolDescriptor {
	descriptor := model.ToolDescriptor{
		Name:        tool.Name,
		Description: tool.Description,
	}

	schema := tool.InputSchema
	if len(schema.Properties) == 0 && len(schema.Required) == 0 {
		return descriptor
	}

	properties := make(map[string]any, len(schema.Properties))
	for name, prop := range schema.Properties {
		properties[name] = normalizeProperty(prop)
	}

	// Drop required names the server forgot to declare
	var required []string
	for _, name := range schema.Required {
		if _, ok := properties[name]; ok {
			required = append(required, name)
		}
	}

	descriptor.InputSchema = &model.InputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
	return descriptor
}

// DescriptorsFromMCP converts a tool listing, preserving order.
func DescriptorsFromMCP(tools []mcptypes.Tool) []model.ToolDescriptor {
	result := make([]model.ToolDescriptor, 0, len(tools))
	for _, tool := range tools {
		result = append(result, ToolDescriptorFromMCP(tool))
	}
	return result
}

// normalizeProperty turns a property of any JSON-compatible shape into a
// generic JSON object.
func normalizeProperty(value any) any {
	if m, ok := value.(map[string]any); ok {
		return m
	}
	data, err := json.Marshal(value)
	if err != nil {
		return value
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return value
	}
	return m
}

// ResultText flattens a tool result into the text handed back to the
// model. A result flagged as an error becomes a Go error.
func ResultText(result *mcptypes.CallToolResult) (string, error) {
	if result == nil {
		return "", errors.New("empty tool result")
	}

	var parts []string
	for _, content := range result.Content {
		switch c := content.(type) {
		case mcptypes.TextContent:
			parts = append(parts, c.Text)
		case *mcptypes.TextContent:
			parts = append(parts, c.Text)
		case mcptypes.ImageContent:
			parts = append(parts, "[image: "+c.MIMEType+"]")
		case *mcptypes.ImageContent:
			parts = append(parts, "[image: "+c.MIMEType+"]")
		default:
			if data, err := json.Marshal(content); err == nil {
				parts = append(parts, string(data))
			}
		}
	}
	text := strings.Join(parts, "\n")

	if result.IsError {
		if text == "" {
			text = "tool reported an error"
		}
		return "", errors.New(text)
	}
	return text, nil
}
