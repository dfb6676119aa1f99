package provider

import (
	"errors"
	"fmt"
	"strings"

	"coursebot/config"
	"coursebot/model"
)

var (
	// ErrUnsupportedProvider matches any *UnsupportedProviderError.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrMissingAPIKey is returned by constructors of providers that need a key.
	ErrMissingAPIKey = errors.New("API key is required")
)

// UnsupportedProviderError reports a provider name outside the registry.
type UnsupportedProviderError struct {
	Name      string
	Supported []string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider: %s. Supported providers: %s",
		e.Name, strings.Join(e.Supported, ", "))
}

func (e *UnsupportedProviderError) Is(target error) bool {
	return target == ErrUnsupportedProvider
}

type constructor func(cfg Config) (model.Provider, error)

// supported is the registry's listing order.
var supported = []ProviderType{
	ProviderTypeClaude,
	ProviderTypeGemini,
	ProviderTypeOpenAI,
	ProviderTypeOpenRouter,
	ProviderTypeOllama,
}

var registry = map[ProviderType]constructor{
	ProviderTypeClaude: func(cfg Config) (model.Provider, error) {
		return NewClaudeProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	},
	ProviderTypeGemini: func(cfg Config) (model.Provider, error) {
		return NewGeminiProvider(cfg.APIKey, cfg.Model)
	},
	ProviderTypeOpenAI: func(cfg Config) (model.Provider, error) {
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	},
	ProviderTypeOpenRouter: func(cfg Config) (model.Provider, error) {
		return NewOpenRouterProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	},
	ProviderTypeOllama: func(cfg Config) (model.Provider, error) {
		return NewOllamaProvider(cfg.BaseURL, cfg.Model)
	},
}

func init() {
	if err := checkRegistry(); err != nil {
		panic(err)
	}
}

// checkRegistry verifies that every listed type has exactly one constructor
// and that nothing unlisted is registered.
func checkRegistry() error {
	seen := make(map[ProviderType]bool, len(supported))
	for _, t := range supported {
		if seen[t] {
			return fmt.Errorf("provider %s listed twice", t)
		}
		seen[t] = true
		if registry[t] == nil {
			return fmt.Errorf("provider %s has no constructor", t)
		}
	}
	if len(registry) != len(supported) {
		return fmt.Errorf("registry has %d constructors for %d providers", len(registry), len(supported))
	}
	return nil
}

// ListSupported returns the supported provider names in registry order.
func ListSupported() []string {
	names := make([]string, len(supported))
	for i, t := range supported {
		names[i] = string(t)
	}
	return names
}

// MapProviderIDToType converts a user-facing provider id to a ProviderType.
// Matching is case-insensitive and accepts the vendor aliases "anthropic"
// and "google". Unknown ids are returned as-is (the factory rejects them).
func MapProviderIDToType(id string) ProviderType {
	id = strings.ToLower(strings.TrimSpace(id))
	switch id {
	case "anthropic":
		return ProviderTypeClaude
	case "google":
		return ProviderTypeGemini
	default:
		return ProviderType(id)
	}
}

// CreateProvider builds the provider registered under name.
func CreateProvider(name, apiKey, modelName string) (model.Provider, error) {
	t := MapProviderIDToType(name)
	if _, ok := registry[t]; !ok {
		return nil, &UnsupportedProviderError{Name: name, Supported: ListSupported()}
	}
	return NewProvider(Config{Type: t, APIKey: apiKey, Model: modelName})
}

// NewProvider builds a provider from a full Config.
func NewProvider(cfg Config) (model.Provider, error) {
	build, ok := registry[MapProviderIDToType(string(cfg.Type))]
	if !ok {
		return nil, &UnsupportedProviderError{Name: string(cfg.Type), Supported: ListSupported()}
	}

	p, err := build(cfg)
	if err != nil {
		return nil, err
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Provider] Created %s provider (model=%s, tools=%v)", cfg.Type, p.GetModel(), p.SupportsTools())
	}
	return p, nil
}

// FromConfig builds the provider selected by the application configuration.
func FromConfig(cfg *config.Config) (model.Provider, error) {
	if err := cfg.ValidateLLM(); err != nil {
		return nil, err
	}

	llm, err := cfg.LLM()
	if err != nil {
		return nil, err
	}

	return NewProvider(Config{
		Type:    MapProviderIDToType(llm.Provider),
		APIKey:  llm.APIKey,
		Model:   llm.Model,
		BaseURL: llm.BaseURL,
	})
}
