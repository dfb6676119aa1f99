package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const (
	DefaultHost  = "http://localhost:11434"
	DefaultModel = "llama3.1:latest"
)

// Client is a non-streaming chat client for a single Ollama model.
type Client struct {
	client  *api.Client
	model   string
	baseURL string
	options map[string]any
}

// NewClient creates a client for model on the server at baseURL. Options are
// passed through unchanged on every request (e.g. "temperature", "num_predict").
func NewClient(baseURL, model string, options map[string]any) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultHost
	}
	if model == "" {
		model = DefaultModel
	}

	host, err := url.Parse(baseURL)
	if err != nil || host.Scheme == "" || host.Host == "" {
		return nil, fmt.Errorf("invalid Ollama URL %q", baseURL)
	}

	return &Client{
		client:  api.NewClient(host, http.DefaultClient),
		model:   model,
		baseURL: baseURL,
		options: options,
	}, nil
}

// Chat sends messages (and tools, if any) and returns the assistant message.
func (c *Client) Chat(ctx context.Context, messages []api.Message, tools []api.Tool) (api.Message, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Tools:    tools,
		Stream:   &stream,
		Options:  c.options,
	}

	var reply api.Message
	chunks := 0
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		// a non-streaming reply arrives as one chunk; joining keeps a
		// chunked one whole
		chunks++
		reply.Role = resp.Message.Role
		reply.Content += resp.Message.Content
		reply.ToolCalls = append(reply.ToolCalls, resp.Message.ToolCalls...)
		return nil
	})
	if err != nil {
		return api.Message{}, fmt.Errorf("ollama chat: %w", err)
	}
	if chunks == 0 {
		return api.Message{}, fmt.Errorf("ollama chat: empty response")
	}
	return reply, nil
}

func (c *Client) GetModel() string {
	return c.model
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// toolFamilies lists model families by name prefix, most specific first so
// "llama3.2" is not matched as plain "llama3".
var toolFamilies = []struct {
	prefix string
	tools  bool
}{
	{"llama3.3", true},
	{"llama3.2", true},
	{"llama3.1", true},
	{"llama3-gradient", false},
	{"command-r", true},
	{"qwen", true},
	{"mistral", true},
	{"nemotron", true},
	{"granite3", true},
	{"codellama", false},
	{"llama3", false},
	{"deepseek", false},
	{"phi", false},
	{"gemma", false},
}

// ModelSupportsToolCalling reports whether a model family is known to handle
// Ollama's tool calling API. Unknown models are assumed not to.
func ModelSupportsToolCalling(modelName string) bool {
	name := strings.ToLower(modelName)
	for _, family := range toolFamilies {
		if strings.HasPrefix(name, family.prefix) {
			return family.tools
		}
	}
	return false
}
