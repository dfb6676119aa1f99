package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"coursebot/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultClaudeModel = "claude-sonnet-4-20250514"

// claudeMessages is the part of anthropic.MessageService the provider uses.
type claudeMessages interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// ClaudeProvider implements model.Provider using Anthropic's Messages API.
type ClaudeProvider struct {
	messages claudeMessages
	model    anthropic.Model
}

// NewClaudeProvider creates a Claude provider. The API key is required;
// baseURL may be empty to use the public endpoint.
func NewClaudeProvider(baseURL, apiKey, model string) (*ClaudeProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: Claude", ErrMissingAPIKey)
	}
	if model == "" {
		model = DefaultClaudeModel
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(opts...)

	return &ClaudeProvider{
		messages: &client.Messages,
		model:    anthropic.Model(model),
	}, nil
}

func (p *ClaudeProvider) GenerateResponse(ctx context.Context, req model.Request) string {
	return respond(ctx, "Claude", p, p.SupportsTools(), req)
}

func (p *ClaudeProvider) SupportsTools() bool {
	return true
}

func (p *ClaudeProvider) GetModel() string {
	return string(p.model)
}

func (p *ClaudeProvider) params(messages []anthropic.MessageParam, tools []anthropic.ToolUnionParam) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   maxOutputTokens,
		Temperature: anthropic.Float(temperature),
		System:      []anthropic.TextBlockParam{{Text: SystemInstruction}},
		Tools:       tools,
	}
}

func (p *ClaudeProvider) translateTools(tools []model.ToolDescriptor) []anthropic.ToolUnionParam {
	return ToClaudeTools(tools)
}

func (p *ClaudeProvider) generate(ctx context.Context, prompt string, tools []anthropic.ToolUnionParam) (model.Reply, error) {
	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
	}

	msg, err := p.messages.New(ctx, p.params(messages, tools))
	if err != nil {
		return model.Reply{}, err
	}

	return decodeClaude(msg)
}

func (p *ClaudeProvider) followUp(ctx context.Context, prompt string, reply model.Reply, result any, tools []anthropic.ToolUnionParam) (string, error) {
	msg, ok := reply.Native.(*anthropic.Message)
	if !ok || msg == nil {
		return "", fmt.Errorf("missing Claude tool_use message")
	}

	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		msg.ToParam(),
		anthropic.NewUserMessage(anthropic.NewToolResultBlock(reply.Call.ID, resultText(result), false)),
	}

	final, err := p.messages.New(ctx, p.params(messages, tools))
	if err != nil {
		return "", err
	}

	decoded, err := decodeClaude(final)
	if err != nil {
		return "", err
	}
	if decoded.IsFunctionCall() {
		return "", fmt.Errorf("model requested a second function call (%s)", decoded.Call.Name)
	}
	return decoded.Text, nil
}

// withSingleToolUse copies msg without the tool_use blocks other than id.
// Claude requires a tool_result for every tool_use it is shown.
func withSingleToolUse(msg *anthropic.Message, id string) *anthropic.Message {
	trimmed := *msg
	trimmed.Content = make([]anthropic.ContentBlockUnion, 0, len(msg.Content))
	for _, block := range msg.Content {
		if use, ok := block.AsAny().(anthropic.ToolUseBlock); ok && use.ID != id {
			continue
		}
		trimmed.Content = append(trimmed.Content, block)
	}
	return &trimmed
}

// decodeClaude reduces a message to its first tool_use block, or to its
// concatenated text blocks.
func decodeClaude(msg *anthropic.Message) (model.Reply, error) {
	if msg == nil {
		return model.Reply{}, errors.New("empty response from Claude")
	}

	var text strings.Builder
	for _, block := range msg.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.ToolUseBlock:
			var args map[string]any
			if len(variant.Input) > 0 {
				if err := json.Unmarshal(variant.Input, &args); err != nil {
					return model.Reply{}, fmt.Errorf("invalid tool_use input for %s: %w", variant.Name, err)
				}
			}
			call := model.ToolCall{ID: variant.ID, Name: variant.Name, Arguments: args}
			return model.FunctionCallReply(call, withSingleToolUse(msg, variant.ID)), nil
		case anthropic.TextBlock:
			text.WriteString(variant.Text)
		}
	}

	return model.TextReply(text.String()), nil
}
