package testutil

import (
	"coursebot/model"
)

// SearchCourseTool returns the course search tool used throughout the tests.
func SearchCourseTool() model.ToolDescriptor {
	return model.ToolDescriptor{
		Name:        "search_course",
		Description: "Search course materials with smart course name matching and lesson filtering",
		InputSchema: &model.InputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "What to search for in the course content",
				},
			},
			Required: []string{"query"},
		},
	}
}

// TestTools returns a small, ordered tool set covering a required
// parameter, an optional parameter and a tool without a schema.
func TestTools() []model.ToolDescriptor {
	return []model.ToolDescriptor{
		SearchCourseTool(),
		{
			Name:        "get_lesson",
			Description: "Fetch a single lesson by number",
			InputSchema: &model.InputSchema{
				Type: "object",
				Properties: map[string]any{
					"course": map[string]any{"type": "string"},
					"lesson": map[string]any{"type": "integer", "description": "Lesson number"},
				},
				Required: []string{"course", "lesson"},
			},
		},
		{
			Name:        "list_courses",
			Description: "List every available course",
		},
	}
}

// SampleHistory is a pre-rendered two-exchange conversation.
const SampleHistory = "User: What is this course about?\nAssistant: It is an introduction to programming."
