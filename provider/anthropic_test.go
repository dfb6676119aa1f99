package provider

import (
	"context"
	"errors"
	"testing"

	"coursebot/model"
	"coursebot/provider/testutil"

	"github.com/anthropics/anthropic-sdk-go"
)

func TestClaudeRequestParams(t *testing.T) {
	fake := &fakeClaude{t: t, script: []step{textStep("ok")}}
	p := &ClaudeProvider{messages: fake, model: DefaultClaudeModel}

	p.GenerateResponse(context.Background(), model.Request{Query: "hi", Tools: testutil.TestTools()})

	params := fake.params[0]
	if params.MaxTokens != 800 {
		t.Errorf("MaxTokens = %d, want 800", params.MaxTokens)
	}
	if !params.Temperature.Valid() || params.Temperature.Value != 0 {
		t.Errorf("Temperature = %+v, want 0", params.Temperature)
	}
	if len(params.System) != 1 || params.System[0].Text != SystemInstruction {
		t.Error("system instruction not attached")
	}
	if len(params.Tools) != 3 {
		t.Errorf("Tools = %d, want 3", len(params.Tools))
	}
}

func TestClaudeFollowUpCarriesToolResult(t *testing.T) {
	fake := &fakeClaude{t: t, script: []step{callStep(searchLesson3), textStep(synthesized)}}
	p := &ClaudeProvider{messages: fake, model: DefaultClaudeModel}
	exec := &testutil.RecordingExecutor{Result: "Lesson 3 covers recursion."}

	got := p.GenerateResponse(context.Background(), model.Request{
		Query:    "What does lesson 3 cover?",
		Tools:    []model.ToolDescriptor{testutil.SearchCourseTool()},
		Executor: exec,
	})
	if got != synthesized {
		t.Fatalf("GenerateResponse() = %q", got)
	}

	messages := fake.params[1].Messages
	if len(messages) != 3 {
		t.Fatalf("follow-up has %d messages, want 3", len(messages))
	}

	toolUse := messages[1].Content[0].OfToolUse
	if toolUse == nil || toolUse.ID != "call_01" || toolUse.Name != "search_course" {
		t.Errorf("assistant tool_use = %+v", toolUse)
	}

	result := messages[2].Content[0].OfToolResult
	if result == nil {
		t.Fatal("last message should carry a tool_result block")
	}
	if result.ToolUseID != "call_01" {
		t.Errorf("ToolUseID = %q, want call_01", result.ToolUseID)
	}
	if len(result.Content) != 1 || result.Content[0].OfText == nil || result.Content[0].OfText.Text != "Lesson 3 covers recursion." {
		t.Errorf("tool_result content = %+v", result.Content)
	}
	if len(fake.params[1].Tools) != 1 {
		t.Error("follow-up must reuse the translated tools")
	}
}

func TestClaudeStructuredResultIsJSON(t *testing.T) {
	fake := &fakeClaude{t: t, script: []step{callStep(searchLesson3), textStep("done")}}
	p := &ClaudeProvider{messages: fake, model: DefaultClaudeModel}
	exec := &testutil.RecordingExecutor{Result: map[string]any{"lesson": 3, "topic": "recursion"}}

	p.GenerateResponse(context.Background(), model.Request{
		Query:    "q",
		Tools:    []model.ToolDescriptor{testutil.SearchCourseTool()},
		Executor: exec,
	})

	result := fake.params[1].Messages[2].Content[0].OfToolResult
	if got := result.Content[0].OfText.Text; got != `{"lesson":3,"topic":"recursion"}` {
		t.Errorf("tool_result text = %q", got)
	}
}

func TestNewClaudeProvider(t *testing.T) {
	if _, err := NewClaudeProvider("", "", ""); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}

	p, err := NewClaudeProvider("", "test-key", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.GetModel() != DefaultClaudeModel {
		t.Errorf("GetModel() = %q, want %q", p.GetModel(), DefaultClaudeModel)
	}
}

func TestClaudeFollowUpReplaysOnlyExecutedCall(t *testing.T) {
	fake := &fakeClaude{t: t, script: []step{searchTwice, textStep(synthesized)}}
	askWithTwoCalls(t, &ClaudeProvider{messages: fake, model: DefaultClaudeModel})

	messages := fake.params[1].Messages
	if len(messages) != 3 {
		t.Fatalf("follow-up has %d messages, want 3", len(messages))
	}
	var uses []string
	for _, block := range messages[1].Content {
		if block.OfToolUse != nil {
			uses = append(uses, block.OfToolUse.ID)
		}
	}
	if len(uses) != 1 || uses[0] != "call_01" {
		t.Errorf("replayed tool_use ids = %v, want [call_01]", uses)
	}
	if len(messages[2].Content) != 1 || messages[2].Content[0].OfToolResult.ToolUseID != "call_01" {
		t.Errorf("tool_result blocks = %+v", messages[2].Content)
	}
}

func TestWithSingleToolUseKeepsText(t *testing.T) {
	fake := &fakeClaude{t: t, script: []step{searchTwice}}
	msg, err := fake.New(context.Background(), anthropic.MessageNewParams{})
	if err != nil {
		t.Fatal(err)
	}
	msg.Content = append([]anthropic.ContentBlockUnion{{Type: "text", Text: "Let me look."}}, msg.Content...)

	trimmed := withSingleToolUse(msg, "call_02")
	if len(trimmed.Content) != 2 || trimmed.Content[0].Text != "Let me look." || trimmed.Content[1].ID != "call_02" {
		t.Errorf("trimmed content = %+v", trimmed.Content)
	}
	if len(msg.Content) != 3 {
		t.Error("original message must not be modified")
	}
}
