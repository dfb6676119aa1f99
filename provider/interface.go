// Package provider implements model.Provider for each supported LLM backend.
//
// Every backend answers a model.Request the same way: the query (and any
// prior conversation) is sent once with the tools the caller offered; if the
// model asks for a function call, the call is run through the request's
// ToolExecutor and the result is sent back for a final answer. Only the first
// function call of a response is acted on.
//
// # Backends
//
//   - claude: Anthropic Messages API (anthropic-sdk-go)
//   - gemini: Google Gemini API (google.golang.org/genai)
//   - openai: OpenAI Chat Completions (openai-go)
//   - openrouter: OpenAI-compatible endpoint at openrouter.ai
//   - ollama: local Ollama server; tool support depends on the model family
//
// # Errors
//
// GenerateResponse never returns an error. A failed first call yields text
// starting with model.GenerationErrorPrefix; anything that goes wrong once a
// function call was requested yields model.ToolExecutionErrorPrefix. Only
// construction errors (unknown provider, missing API key) are returned.
//
// # Usage
//
//	p, err := provider.CreateProvider("gemini", os.Getenv("GEMINI_API_KEY"), "gemini-1.5-flash")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	answer := p.GenerateResponse(ctx, model.Request{
//	    Query:    "What does lesson 3 cover?",
//	    Tools:    registry.Definitions(),
//	    Executor: registry,
//	})
package provider

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeClaude     ProviderType = "claude"
	ProviderTypeGemini     ProviderType = "gemini"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOllama     ProviderType = "ollama"
)

// Config holds provider-specific configuration. It is read once by the
// constructor and never mutated.
type Config struct {
	Type    ProviderType
	APIKey  string // unused for Ollama
	Model   string
	BaseURL string // optional; OpenAI-compatible and Ollama endpoints
}
