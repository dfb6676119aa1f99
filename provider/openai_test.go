package provider

import (
	"context"
	"errors"
	"testing"

	"coursebot/model"
	"coursebot/provider/testutil"

	"github.com/openai/openai-go/v3"
)

func TestOpenAIRequestParams(t *testing.T) {
	fake := &fakeOpenAI{t: t, script: []step{textStep("ok")}}
	p := &OpenAIProvider{completions: fake, model: DefaultOpenAIModel, tag: "OpenAI"}

	p.GenerateResponse(context.Background(), model.Request{Query: "hi"})

	params := fake.params[0]
	if params.Temperature.Value != 0 || !params.Temperature.Valid() {
		t.Errorf("Temperature = %+v, want 0", params.Temperature)
	}
	if params.MaxCompletionTokens.Value != 800 {
		t.Errorf("MaxCompletionTokens = %d, want 800", params.MaxCompletionTokens.Value)
	}
	if len(params.Messages) != 2 || params.Messages[0].OfSystem == nil || params.Messages[1].OfUser == nil {
		t.Fatalf("messages should be [system, user], got %d", len(params.Messages))
	}
	if params.Tools != nil {
		t.Error("no tools should be sent when none are offered")
	}
}

func TestOpenAIFollowUpCarriesToolMessage(t *testing.T) {
	fake := &fakeOpenAI{t: t, script: []step{callStep(searchLesson3), textStep(synthesized)}}
	p := &OpenAIProvider{completions: fake, model: DefaultOpenAIModel, tag: "OpenAI"}
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
	if len(messages) != 4 {
		t.Fatalf("follow-up has %d messages, want 4", len(messages))
	}

	assistant := messages[2].OfAssistant
	if assistant == nil || len(assistant.ToolCalls) != 1 {
		t.Fatalf("third message should be the assistant tool call, got %+v", messages[2])
	}

	tool := messages[3].OfTool
	if tool == nil {
		t.Fatal("last message should be a tool message")
	}
	if tool.ToolCallID != "call_01" {
		t.Errorf("ToolCallID = %q, want call_01", tool.ToolCallID)
	}
	if !tool.Content.OfString.Valid() || tool.Content.OfString.Value != "Lesson 3 covers recursion." {
		t.Errorf("tool content = %+v", tool.Content)
	}
}

func TestDecodeOpenAI(t *testing.T) {
	if _, err := decodeOpenAI(nil); err == nil {
		t.Error("decodeOpenAI(nil): expected error")
	}

	var noChoices openai.ChatCompletion
	unmarshalFixture(t, map[string]any{"id": "c", "object": "chat.completion", "choices": []any{}}, &noChoices)
	if _, err := decodeOpenAI(&noChoices); err == nil {
		t.Error("expected error for a completion without choices")
	}

	var malformed openai.ChatCompletion
	unmarshalFixture(t, map[string]any{
		"id":     "c",
		"object": "chat.completion",
		"choices": []any{map[string]any{
			"index": 0,
			"message": map[string]any{
				"role": "assistant",
				"tool_calls": []any{map[string]any{
					"id":       "call_01",
					"type":     "function",
					"function": map[string]any{"name": "search_course", "arguments": "{not json"},
				}},
			},
		}},
	}, &malformed)
	if _, err := decodeOpenAI(&malformed); err == nil {
		t.Error("expected error for malformed tool arguments")
	}
}

func TestNewOpenRouterProvider(t *testing.T) {
	p, err := NewOpenRouterProvider("", "test-key", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.BaseURL() != OpenRouterBaseURL {
		t.Errorf("BaseURL() = %q, want %q", p.BaseURL(), OpenRouterBaseURL)
	}
	if p.GetModel() != DefaultOpenRouterModel {
		t.Errorf("GetModel() = %q", p.GetModel())
	}

	if _, err := NewOpenRouterProvider("", "", ""); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestOpenAIFollowUpReplaysOnlyExecutedCall(t *testing.T) {
	fake := &fakeOpenAI{t: t, script: []step{searchTwice, textStep(synthesized)}}
	askWithTwoCalls(t, &OpenAIProvider{completions: fake, model: DefaultOpenAIModel, tag: "OpenAI"})

	messages := fake.params[1].Messages
	if len(messages) != 4 {
		t.Fatalf("follow-up has %d messages, want 4", len(messages))
	}
	assistant := messages[2].OfAssistant
	if assistant == nil || len(assistant.ToolCalls) != 1 || assistant.ToolCalls[0].OfFunction.ID != "call_01" {
		t.Errorf("replayed tool calls = %+v, want call_01 alone", messages[2])
	}
	if messages[3].OfTool == nil || messages[3].OfTool.ToolCallID != "call_01" {
		t.Errorf("tool message = %+v", messages[3])
	}
}
