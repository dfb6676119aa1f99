package provider

import (
	"context"
	"fmt"
	"strings"

	"coursebot/model"
	"coursebot/ollama"

	"github.com/ollama/ollama/api"
)

// ollamaChat is the part of ollama.Client the provider uses.
type ollamaChat interface {
	Chat(ctx context.Context, messages []api.Message, tools []api.Tool) (api.Message, error)
	GetModel() string
}

// OllamaProvider implements model.Provider against a local Ollama server.
// Tool support depends on the model family; see
// ollama.ModelSupportsToolCalling.
type OllamaProvider struct {
	client ollamaChat
}

// NewOllamaProvider creates an Ollama provider. No API key is needed; an
// empty baseURL or model falls back to the Ollama defaults.
func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, model, map[string]any{
		"temperature": float64(temperature),
		"num_predict": maxOutputTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaProvider{client: client}, nil
}

func (p *OllamaProvider) GenerateResponse(ctx context.Context, req model.Request) string {
	return respond(ctx, "Ollama", p, p.SupportsTools(), req)
}

func (p *OllamaProvider) SupportsTools() bool {
	return ollama.ModelSupportsToolCalling(p.client.GetModel())
}

func (p *OllamaProvider) GetModel() string {
	return p.client.GetModel()
}

func (p *OllamaProvider) translateTools(tools []model.ToolDescriptor) []api.Tool {
	return ToOllamaTools(tools)
}

func (p *OllamaProvider) baseMessages(prompt string) []api.Message {
	return []api.Message{
		{Role: "system", Content: SystemInstruction},
		{Role: "user", Content: prompt},
	}
}

func (p *OllamaProvider) generate(ctx context.Context, prompt string, tools []api.Tool) (model.Reply, error) {
	msg, err := p.client.Chat(ctx, p.baseMessages(prompt), tools)
	if err != nil {
		return model.Reply{}, err
	}

	return decodeOllama(msg), nil
}

func (p *OllamaProvider) followUp(ctx context.Context, prompt string, reply model.Reply, result any, tools []api.Tool) (string, error) {
	msg, ok := reply.Native.(api.Message)
	if !ok {
		return "", fmt.Errorf("missing Ollama tool call message")
	}
	if msg.Role == "" {
		msg.Role = "assistant"
	}

	messages := append(p.baseMessages(prompt), msg, api.Message{
		Role:     "tool",
		Content:  resultText(result),
		ToolName: reply.Call.Name,
	})

	final, err := p.client.Chat(ctx, messages, tools)
	if err != nil {
		return "", err
	}

	decoded := decodeOllama(final)
	if decoded.IsFunctionCall() {
		return "", fmt.Errorf("model requested a second function call (%s)", decoded.Call.Name)
	}
	return decoded.Text, nil
}

// decodeOllama reduces an assistant message to its first tool call or its
// content.
func decodeOllama(msg api.Message) model.Reply {
	for _, toolCall := range msg.ToolCalls {
		name := strings.TrimSpace(toolCall.Function.Name)
		if name == "" {
			continue
		}
		call := model.ToolCall{Name: name, Arguments: toolCall.Function.Arguments}
		directive := msg
		directive.ToolCalls = []api.ToolCall{toolCall}
		return model.FunctionCallReply(call, directive)
	}

	return model.TextReply(msg.Content)
}
