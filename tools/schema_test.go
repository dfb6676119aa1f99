package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type lessonArgs struct {
	Course string   `json:"course" jsonschema:"description=Course identifier"`
	Lesson int      `json:"lesson"`
	Tags   []string `json:"tags,omitempty"`
}

func TestGenerateSchema(t *testing.T) {
	schema, err := GenerateSchema[lessonArgs]()
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	if schema.Type != "object" {
		t.Errorf("Type = %q, want object", schema.Type)
	}
	if diff := cmp.Diff([]string{"course", "lesson"}, schema.Required); diff != "" {
		t.Errorf("Required mismatch (-want +got):\n%s", diff)
	}

	course, ok := schema.Properties["course"].(map[string]any)
	if !ok {
		t.Fatalf("course property = %#v", schema.Properties["course"])
	}
	if course["type"] != "string" || course["description"] != "Course identifier" {
		t.Errorf("course property = %v", course)
	}

	lesson, _ := schema.Properties["lesson"].(map[string]any)
	if lesson["type"] != "integer" {
		t.Errorf("lesson type = %v, want integer", lesson["type"])
	}

	tags, _ := schema.Properties["tags"].(map[string]any)
	if tags["type"] != "array" {
		t.Errorf("tags type = %v, want array", tags["type"])
	}
}

func TestGenerateSchemaEmptyStruct(t *testing.T) {
	schema, err := GenerateSchema[struct{}]()
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}
	if len(schema.Properties) != 0 || len(schema.Required) != 0 {
		t.Errorf("schema = %+v, want no properties", schema)
	}
}

func TestNewTypedTool(t *testing.T) {
	var got lessonArgs
	tool, err := NewTypedTool("get_lesson", "Fetch a lesson", func(ctx context.Context, args lessonArgs) (any, error) {
		got = args
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("NewTypedTool() error = %v", err)
	}

	if tool.Definition.Name != "get_lesson" || tool.Definition.InputSchema == nil {
		t.Fatalf("Definition = %+v", tool.Definition)
	}

	// Arguments decoded from JSON carry numbers as float64.
	result, err := tool.Handler(context.Background(), map[string]any{
		"course": "go-101",
		"lesson": float64(3),
		"tags":   []any{"intro"},
	})
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	if result != "ok" {
		t.Errorf("Handler() = %v, want ok", result)
	}

	want := lessonArgs{Course: "go-101", Lesson: 3, Tags: []string{"intro"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded args mismatch (-want +got):\n%s", diff)
	}
}

func TestNewTypedToolRejectsBadArguments(t *testing.T) {
	tool, err := NewTypedTool("get_lesson", "Fetch a lesson", func(ctx context.Context, args lessonArgs) (any, error) {
		t.Fatal("handler should not run")
		return nil, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = tool.Handler(context.Background(), map[string]any{"lesson": "three"})
	if err == nil || !strings.Contains(err.Error(), "invalid arguments") {
		t.Errorf("Handler() error = %v, want invalid arguments", err)
	}
}
