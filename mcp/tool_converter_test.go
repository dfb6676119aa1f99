package mcp

import (
	"testing"

	"coursebot/model"

	"github.com/google/go-cmp/cmp"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

func TestToolDescriptorFromMCP(t *testing.T) {
	tests := []struct {
		name  string
		input mcptypes.Tool
		want  model.ToolDescriptor
	}{
		{
			name: "no parameters",
			input: mcptypes.Tool{
				Name:        "list_courses",
				Description: "List available courses",
				InputSchema: mcptypes.ToolInputSchema{Type: "object", Properties: map[string]any{}},
			},
			want: model.ToolDescriptor{Name: "list_courses", Description: "List available courses"},
		},
		{
			name: "properties and required",
			input: mcptypes.Tool{
				Name:        "search_course",
				Description: "Search course content",
				InputSchema: mcptypes.ToolInputSchema{
					Type: "object",
					Properties: map[string]any{
						"query": map[string]any{"type": "string", "description": "Search text"},
						"level": map[string]any{"type": "string", "enum": []any{"intro", "advanced"}},
					},
					Required: []string{"query"},
				},
			},
			want: model.ToolDescriptor{
				Name:        "search_course",
				Description: "Search course content",
				InputSchema: &model.InputSchema{
					Type: "object",
					Properties: map[string]any{
						"query": map[string]any{"type": "string", "description": "Search text"},
						"level": map[string]any{"type": "string", "enum": []any{"intro", "advanced"}},
					},
					Required: []string{"query"},
				},
			},
		},
		{
			name: "undeclared required names are dropped",
			input: mcptypes.Tool{
				Name: "get_lesson",
				InputSchema: mcptypes.ToolInputSchema{
					Type:       "object",
					Properties: map[string]any{"id": map[string]any{"type": "integer"}},
					Required:   []string{"id", "ghost"},
				},
			},
			want: model.ToolDescriptor{
				Name: "get_lesson",
				InputSchema: &model.InputSchema{
					Type:       "object",
					Properties: map[string]any{"id": map[string]any{"type": "integer"}},
					Required:   []string{"id"},
				},
			},
		},
		{
			name: "typed property values are normalised",
			input: mcptypes.Tool{
				Name: "count",
				InputSchema: mcptypes.ToolInputSchema{
					Type: "object",
					Properties: map[string]any{
						"n": struct {
							Type string `json:"type"`
						}{Type: "number"},
					},
				},
			},
			want: model.ToolDescriptor{
				Name: "count",
				InputSchema: &model.InputSchema{
					Type:       "object",
					Properties: map[string]any{"n": map[string]any{"type": "number"}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToolDescriptorFromMCP(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ToolDescriptorFromMCP() mismatch (-want +got):\n%s", diff)
			}
			if err := model.ValidateTools([]model.ToolDescriptor{got}); err != nil {
				t.Errorf("converted descriptor is invalid: %v", err)
			}
		})
	}
}

func TestDescriptorsFromMCPKeepsOrder(t *testing.T) {
	got := DescriptorsFromMCP([]mcptypes.Tool{{Name: "b"}, {Name: "a"}, {Name: "c"}})

	var names []string
	for _, d := range got {
		names = append(names, d.Name)
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestResultText(t *testing.T) {
	tests := []struct {
		name    string
		result  *mcptypes.CallToolResult
		want    string
		wantErr string
	}{
		{
			name: "joined text",
			result: &mcptypes.CallToolResult{Content: []mcptypes.Content{
				mcptypes.NewTextContent("Lesson 1: Variables"),
				mcptypes.NewTextContent("Lesson 2: Loops"),
			}},
			want: "Lesson 1: Variables\nLesson 2: Loops",
		},
		{
			name: "image placeholder",
			result: &mcptypes.CallToolResult{Content: []mcptypes.Content{
				mcptypes.NewImageContent("aGVsbG8=", "image/png"),
			}},
			want: "[image: image/png]",
		},
		{
			name:   "empty content",
			result: &mcptypes.CallToolResult{},
			want:   "",
		},
		{
			name: "error result",
			result: &mcptypes.CallToolResult{
				IsError: true,
				Content: []mcptypes.Content{mcptypes.NewTextContent("course not found")},
			},
			wantErr: "course not found",
		},
		{
			name:    "error without text",
			result:  &mcptypes.CallToolResult{IsError: true},
			wantErr: "tool reported an error",
		},
		{
			name:    "nil result",
			wantErr: "empty tool result",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResultText(tt.result)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("ResultText() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResultText() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResultText() = %q, want %q", got, tt.want)
			}
		})
	}
}
