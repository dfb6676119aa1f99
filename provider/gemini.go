package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coursebot/model"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-1.5-flash"

// geminiModels is the part of genai.Models the provider uses.
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider implements model.Provider using the Google Gemini API.
type GeminiProvider struct {
	models geminiModels
	model  string
}

// NewGeminiProvider creates a Gemini provider. The API key is required.
func NewGeminiProvider(apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: Gemini", ErrMissingAPIKey)
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{models: client.Models, model: model}, nil
}

func (p *GeminiProvider) GenerateResponse(ctx context.Context, req model.Request) string {
	return respond(ctx, "Gemini", p, p.SupportsTools(), req)
}

func (p *GeminiProvider) SupportsTools() bool {
	return true
}

func (p *GeminiProvider) GetModel() string {
	return p.model
}

func (p *GeminiProvider) config(tools []*genai.Tool) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](temperature),
		MaxOutputTokens:   maxOutputTokens,
		Tools:             tools,
	}
}

func (p *GeminiProvider) translateTools(tools []model.ToolDescriptor) []*genai.Tool {
	return ToGeminiTools(tools)
}

func (p *GeminiProvider) generate(ctx context.Context, prompt string, tools []*genai.Tool) (model.Reply, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := p.models.GenerateContent(ctx, p.model, contents, p.config(tools))
	if err != nil {
		return model.Reply{}, err
	}

	return decodeGemini(resp)
}

func (p *GeminiProvider) followUp(ctx context.Context, prompt string, reply model.Reply, result any, tools []*genai.Tool) (string, error) {
	callContent, ok := reply.Native.(*genai.Content)
	if !ok || callContent == nil {
		return "", fmt.Errorf("missing Gemini function call content")
	}

	responsePart := genai.NewPartFromFunctionResponse(reply.Call.Name, map[string]any{"result": result})
	responsePart.FunctionResponse.ID = reply.Call.ID

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
		callContent,
		genai.NewContentFromParts([]*genai.Part{responsePart}, genai.RoleUser),
	}

	resp, err := p.models.GenerateContent(ctx, p.model, contents, p.config(tools))
	if err != nil {
		return "", err
	}

	final, err := decodeGemini(resp)
	if err != nil {
		return "", err
	}
	if final.IsFunctionCall() {
		return "", fmt.Errorf("model requested a second function call (%s)", final.Call.Name)
	}
	return final.Text, nil
}

// decodeGemini reduces a response to its first function call, or to the
// concatenated text of the first candidate. The directive kept for the
// follow-up holds that one call part.
func decodeGemini(resp *genai.GenerateContentResponse) (model.Reply, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return model.Reply{}, errors.New("empty response from Gemini")
	}

	content := resp.Candidates[0].Content
	if content == nil {
		reason := resp.Candidates[0].FinishReason
		return model.Reply{}, fmt.Errorf("no content in Gemini response (finish reason %s)", reason)
	}

	var text strings.Builder
	for _, part := range content.Parts {
		if part == nil {
			continue
		}
		if part.FunctionCall != nil {
			call := model.ToolCall{
				ID:        part.FunctionCall.ID,
				Name:      part.FunctionCall.Name,
				Arguments: part.FunctionCall.Args,
			}
			// only the executed call is replayed, so calls and responses pair up
			directive := genai.NewContentFromParts([]*genai.Part{part}, genai.RoleModel)
			return model.FunctionCallReply(call, directive), nil
		}
		if !part.Thought {
			text.WriteString(part.Text)
		}
	}

	return model.TextReply(text.String()), nil
}
