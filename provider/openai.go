package provider

import (
	"context"
	"errors"
	"fmt"

	"coursebot/model"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultOpenAIBaseURL   = "https://api.openai.com/v1"
	DefaultOpenRouterModel = "anthropic/claude-sonnet-4"
	OpenRouterBaseURL      = "https://openrouter.ai/api/v1"
)

// openAICompletions is the part of openai.ChatCompletionService the provider
// uses.
type openAICompletions interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIProvider implements model.Provider using the Chat Completions API.
// It also serves any OpenAI-compatible endpoint, including OpenRouter.
type OpenAIProvider struct {
	completions openAICompletions
	model       string
	baseURL     string
	tag         string
}

// NewOpenAIProvider creates an OpenAI provider. The API key is required.
func NewOpenAIProvider(baseURL, apiKey, model string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return newOpenAICompatible("OpenAI", baseURL, apiKey, model)
}

// NewOpenRouterProvider creates an OpenAIProvider pointed at OpenRouter.
func NewOpenRouterProvider(baseURL, apiKey, model string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = OpenRouterBaseURL
	}
	if model == "" {
		model = DefaultOpenRouterModel
	}
	return newOpenAICompatible("OpenRouter", baseURL, apiKey, model)
}

func newOpenAICompatible(tag, baseURL, apiKey, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingAPIKey, tag)
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		completions: &client.Chat.Completions,
		model:       model,
		baseURL:     baseURL,
		tag:         tag,
	}, nil
}

func (p *OpenAIProvider) GenerateResponse(ctx context.Context, req model.Request) string {
	return respond(ctx, p.tag, p, p.SupportsTools(), req)
}

func (p *OpenAIProvider) SupportsTools() bool {
	return true
}

func (p *OpenAIProvider) GetModel() string {
	return p.model
}

// BaseURL returns the API endpoint the provider talks to.
func (p *OpenAIProvider) BaseURL() string {
	return p.baseURL
}

func (p *OpenAIProvider) params(messages []openai.ChatCompletionMessageParamUnion, tools []openai.ChatCompletionToolUnionParam) openai.ChatCompletionNewParams {
	all := append([]openai.ChatCompletionMessageParamUnion{openai.SystemMessage(SystemInstruction)}, messages...)
	return openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(p.model),
		Messages:            all,
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(maxOutputTokens),
		Tools:               tools,
	}
}

func (p *OpenAIProvider) translateTools(tools []model.ToolDescriptor) []openai.ChatCompletionToolUnionParam {
	return ToOpenAITools(tools)
}

func (p *OpenAIProvider) generate(ctx context.Context, prompt string, tools []openai.ChatCompletionToolUnionParam) (model.Reply, error) {
	messages := []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)}

	completion, err := p.completions.New(ctx, p.params(messages, tools))
	if err != nil {
		return model.Reply{}, err
	}

	return decodeOpenAI(completion)
}

func (p *OpenAIProvider) followUp(ctx context.Context, prompt string, reply model.Reply, result any, tools []openai.ChatCompletionToolUnionParam) (string, error) {
	msg, ok := reply.Native.(*openai.ChatCompletionMessage)
	if !ok || msg == nil {
		return "", fmt.Errorf("missing %s tool call message", p.tag)
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(prompt),
		msg.ToParam(),
		openai.ToolMessage(resultText(result), reply.Call.ID),
	}

	completion, err := p.completions.New(ctx, p.params(messages, tools))
	if err != nil {
		return "", err
	}

	decoded, err := decodeOpenAI(completion)
	if err != nil {
		return "", err
	}
	if decoded.IsFunctionCall() {
		return "", fmt.Errorf("model requested a second function call (%s)", decoded.Call.Name)
	}
	return decoded.Text, nil
}

// decodeOpenAI reduces a completion to the first tool call of its first
// choice, or to that choice's content.
func decodeOpenAI(completion *openai.ChatCompletion) (model.Reply, error) {
	if completion == nil || len(completion.Choices) == 0 {
		return model.Reply{}, errors.New("empty response: no choices returned")
	}

	msg := completion.Choices[0].Message
	for _, toolCall := range msg.ToolCalls {
		if toolCall.Function.Name == "" {
			continue
		}
		args, err := parseArguments(toolCall.Function.Arguments)
		if err != nil {
			return model.Reply{}, fmt.Errorf("tool call %s: %w", toolCall.Function.Name, err)
		}
		call := model.ToolCall{ID: toolCall.ID, Name: toolCall.Function.Name, Arguments: args}
		// every replayed tool call needs a tool message, so keep just this one
		directive := msg
		directive.ToolCalls = []openai.ChatCompletionMessageToolCallUnion{toolCall}
		return model.FunctionCallReply(call, &directive), nil
	}

	return model.TextReply(msg.Content), nil
}
