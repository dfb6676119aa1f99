package config

import (
	"fmt"
	"sort"
)

// LLMConfig is everything needed to build the selected provider.
type LLMConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

type envNames struct {
	Key     string
	Model   string
	BaseURL string
}

var providerEnv = map[string]envNames{
	"claude":     {Key: "ANTHROPIC_API_KEY", Model: "ANTHROPIC_MODEL", BaseURL: "ANTHROPIC_BASE_URL"},
	"gemini":     {Key: "GEMINI_API_KEY", Model: "GEMINI_MODEL"},
	"openai":     {Key: "OPENAI_API_KEY", Model: "OPENAI_MODEL", BaseURL: "OPENAI_BASE_URL"},
	"openrouter": {Key: "OPENROUTER_API_KEY", Model: "OPENROUTER_MODEL"},
	"ollama":     {Model: "OLLAMA_MODEL", BaseURL: "OLLAMA_HOST"},
}

var providerDisplayNames = map[string]string{
	"claude":     "Claude",
	"gemini":     "Gemini",
	"openai":     "OpenAI",
	"openrouter": "OpenRouter",
	"ollama":     "Ollama",
}

// ProviderIDs returns the provider ids this configuration knows about, sorted.
func ProviderIDs() []string {
	ids := make([]string, 0, len(providerEnv))
	for id := range providerEnv {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// APIKeyEnv returns the environment variable holding a provider's key, or ""
// for providers that need none.
func APIKeyEnv(provider string) string {
	return providerEnv[normalizeProvider(provider)].Key
}

// ProviderDisplayName returns a human readable provider name.
func ProviderDisplayName(provider string) string {
	id := normalizeProvider(provider)
	if name, ok := providerDisplayNames[id]; ok {
		return name
	}
	return provider
}

// LLM returns the settings of the selected provider.
func (c *Config) LLM() (LLMConfig, error) {
	id := normalizeProvider(c.Provider)
	if _, ok := providerEnv[id]; !ok {
		return LLMConfig{}, fmt.Errorf("unsupported LLM provider: %s", c.Provider)
	}

	settings := c.Providers[id]
	return LLMConfig{
		Provider: id,
		APIKey:   c.APIKey(id),
		Model:    settings.Model,
		BaseURL:  settings.BaseURL,
	}, nil
}

// ValidateLLM checks that the selected provider is known and, when it needs
// one, that its API key is present.
func (c *Config) ValidateLLM() error {
	llm, err := c.LLM()
	if err != nil {
		return err
	}

	env := APIKeyEnv(llm.Provider)
	if env != "" && llm.APIKey == "" {
		return fmt.Errorf("%s is required when using %s provider", env, ProviderDisplayName(llm.Provider))
	}
	return nil
}
