package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"coursebot/model"
	"coursebot/provider/testutil"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
	openaioption "github.com/openai/openai-go/v3/option"
	"google.golang.org/genai"
)

// step scripts one backend response: final text, function calls, or an error.
type step struct {
	text  string
	calls []model.ToolCall
	err   error
}

func textStep(text string) step              { return step{text: text} }
func callStep(call model.ToolCall) step      { return step{calls: []model.ToolCall{call}} }
func callsStep(calls ...model.ToolCall) step { return step{calls: calls} }
func errStep(err error) step                 { return step{err: err} }

// searchTwice asks for two searches in one reply; only the first may run.
var searchTwice = callsStep(
	searchLesson3,
	model.ToolCall{ID: "call_02", Name: "search_course", Arguments: map[string]any{"query": "lesson 4"}},
)

var errUnexpectedCall = errors.New("unexpected backend call")

// fakeGemini stands in for genai.Models.
type fakeGemini struct {
	script   []step
	contents [][]*genai.Content
	configs  []*genai.GenerateContentConfig
}

func (f *fakeGemini) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	n := len(f.contents)
	f.contents = append(f.contents, contents)
	f.configs = append(f.configs, config)
	if n >= len(f.script) {
		return nil, errUnexpectedCall
	}

	s := f.script[n]
	if s.err != nil {
		return nil, s.err
	}

	parts := []*genai.Part{{Text: s.text}}
	if len(s.calls) > 0 {
		parts = nil
		for _, call := range s.calls {
			parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{ID: call.ID, Name: call.Name, Args: call.Arguments}})
		}
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: parts},
		}},
	}, nil
}

// fakeClaude stands in for anthropic.MessageService.
type fakeClaude struct {
	t      *testing.T
	script []step
	params []anthropic.MessageNewParams
}

func (f *fakeClaude) New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
	n := len(f.params)
	f.params = append(f.params, body)
	if n >= len(f.script) {
		return nil, errUnexpectedCall
	}

	s := f.script[n]
	if s.err != nil {
		return nil, s.err
	}

	blocks := []any{map[string]any{"type": "text", "text": s.text}}
	stopReason := "end_turn"
	if len(s.calls) > 0 {
		blocks = nil
		for _, call := range s.calls {
			blocks = append(blocks, map[string]any{"type": "tool_use", "id": call.ID, "name": call.Name, "input": call.Arguments})
		}
		stopReason = "tool_use"
	}

	var msg anthropic.Message
	unmarshalFixture(f.t, map[string]any{
		"id":          fmt.Sprintf("msg_%02d", n+1),
		"type":        "message",
		"role":        "assistant",
		"model":       DefaultClaudeModel,
		"content":     blocks,
		"stop_reason": stopReason,
		"usage":       map[string]any{"input_tokens": 10, "output_tokens": 5},
	}, &msg)
	return &msg, nil
}

// fakeOpenAI stands in for openai.ChatCompletionService.
type fakeOpenAI struct {
	t      *testing.T
	script []step
	params []openai.ChatCompletionNewParams
}

func (f *fakeOpenAI) New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...openaioption.RequestOption) (*openai.ChatCompletion, error) {
	n := len(f.params)
	f.params = append(f.params, body)
	if n >= len(f.script) {
		return nil, errUnexpectedCall
	}

	s := f.script[n]
	if s.err != nil {
		return nil, s.err
	}

	message := map[string]any{"role": "assistant", "content": s.text}
	finish := "stop"
	if len(s.calls) > 0 {
		var toolCalls []any
		for _, call := range s.calls {
			args, err := json.Marshal(call.Arguments)
			if err != nil {
				f.t.Fatalf("marshal arguments: %v", err)
			}
			toolCalls = append(toolCalls, map[string]any{
				"id":       call.ID,
				"type":     "function",
				"function": map[string]any{"name": call.Name, "arguments": string(args)},
			})
		}
		message = map[string]any{"role": "assistant", "content": nil, "tool_calls": toolCalls}
		finish = "tool_calls"
	}

	var completion openai.ChatCompletion
	unmarshalFixture(f.t, map[string]any{
		"id":      fmt.Sprintf("chatcmpl-%d", n+1),
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   DefaultOpenAIModel,
		"choices": []any{map[string]any{"index": 0, "finish_reason": finish, "message": message}},
	}, &completion)
	return &completion, nil
}

// fakeOllama stands in for ollama.Client.
type fakeOllama struct {
	model    string
	script   []step
	messages [][]api.Message
	tools    [][]api.Tool
}

func (f *fakeOllama) Chat(ctx context.Context, messages []api.Message, tools []api.Tool) (api.Message, error) {
	n := len(f.messages)
	f.messages = append(f.messages, messages)
	f.tools = append(f.tools, tools)
	if n >= len(f.script) {
		return api.Message{}, errUnexpectedCall
	}

	s := f.script[n]
	if s.err != nil {
		return api.Message{}, s.err
	}
	if len(s.calls) > 0 {
		msg := api.Message{Role: "assistant"}
		for i, call := range s.calls {
			msg.ToolCalls = append(msg.ToolCalls, api.ToolCall{
				Function: api.ToolCallFunction{Index: i, Name: call.Name, Arguments: call.Arguments},
			})
		}
		return msg, nil
	}
	return api.Message{Role: "assistant", Content: s.text}, nil
}

func (f *fakeOllama) GetModel() string {
	return f.model
}

func unmarshalFixture(t *testing.T, v any, out any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
}

// backend builds a provider around a scripted fake and reports how many
// backend calls it received.
type backend struct {
	name  string
	build func(t *testing.T, script ...step) (model.Provider, func() int)
}

func toolCapableBackends() []backend {
	return []backend{
		{"gemini", func(t *testing.T, script ...step) (model.Provider, func() int) {
			fake := &fakeGemini{script: script}
			return &GeminiProvider{models: fake, model: DefaultGeminiModel}, func() int { return len(fake.contents) }
		}},
		{"claude", func(t *testing.T, script ...step) (model.Provider, func() int) {
			fake := &fakeClaude{t: t, script: script}
			return &ClaudeProvider{messages: fake, model: DefaultClaudeModel}, func() int { return len(fake.params) }
		}},
		{"openai", func(t *testing.T, script ...step) (model.Provider, func() int) {
			fake := &fakeOpenAI{t: t, script: script}
			return &OpenAIProvider{completions: fake, model: DefaultOpenAIModel, tag: "OpenAI"}, func() int { return len(fake.params) }
		}},
		{"openrouter", func(t *testing.T, script ...step) (model.Provider, func() int) {
			fake := &fakeOpenAI{t: t, script: script}
			return &OpenAIProvider{completions: fake, model: DefaultOpenRouterModel, baseURL: OpenRouterBaseURL, tag: "OpenRouter"}, func() int { return len(fake.params) }
		}},
		{"ollama", func(t *testing.T, script ...step) (model.Provider, func() int) {
			fake := &fakeOllama{model: "llama3.1:latest", script: script}
			return &OllamaProvider{client: fake}, func() int { return len(fake.messages) }
		}},
	}
}

// askWithTwoCalls runs p against a backend scripted with searchTwice and
// checks only the first call was executed.
func askWithTwoCalls(t *testing.T, p model.Provider) {
	t.Helper()
	exec := &testutil.RecordingExecutor{Result: "Lesson 3 covers recursion."}

	got := p.GenerateResponse(context.Background(), model.Request{
		Query:    "What do lessons 3 and 4 cover?",
		Tools:    []model.ToolDescriptor{testutil.SearchCourseTool()},
		Executor: exec,
	})
	if got != synthesized {
		t.Fatalf("GenerateResponse() = %q, want %q", got, synthesized)
	}

	calls := exec.Calls()
	if len(calls) != 1 || calls[0].Args["query"] != "lesson 3" {
		t.Errorf("executed calls = %+v, want only the lesson 3 search", calls)
	}
}
