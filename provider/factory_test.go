package provider

import (
	"errors"
	"strings"
	"testing"

	"coursebot/config"
	"coursebot/model"

	"github.com/google/go-cmp/cmp"
)

func TestRegistryIsComplete(t *testing.T) {
	if err := checkRegistry(); err != nil {
		t.Fatal(err)
	}
	for _, name := range ListSupported() {
		if registry[ProviderType(name)] == nil {
			t.Errorf("no constructor for %s", name)
		}
	}
}

func TestListSupported(t *testing.T) {
	want := []string{"claude", "gemini", "openai", "openrouter", "ollama"}
	if diff := cmp.Diff(want, ListSupported()); diff != "" {
		t.Errorf("ListSupported() mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateProvider(t *testing.T) {
	tests := []struct {
		name      string
		provider  string
		apiKey    string
		model     string
		wantType  any
		wantTools bool
		wantErr   error
	}{
		{name: "gemini", provider: "gemini", apiKey: "k", model: "gemini-1.5-flash", wantType: &GeminiProvider{}, wantTools: true},
		{name: "gemini upper case", provider: "GEMINI", apiKey: "k", model: "gemini-1.5-flash", wantType: &GeminiProvider{}, wantTools: true},
		{name: "google alias", provider: "google", apiKey: "k", wantType: &GeminiProvider{}, wantTools: true},
		{name: "claude", provider: "Claude", apiKey: "k", wantType: &ClaudeProvider{}, wantTools: true},
		{name: "anthropic alias", provider: "anthropic", apiKey: "k", wantType: &ClaudeProvider{}, wantTools: true},
		{name: "openai", provider: "openai", apiKey: "k", wantType: &OpenAIProvider{}, wantTools: true},
		{name: "openrouter", provider: "OpenRouter", apiKey: "k", wantType: &OpenAIProvider{}, wantTools: true},
		{name: "ollama tool capable", provider: "ollama", model: "llama3.1:8b", wantType: &OllamaProvider{}, wantTools: true},
		{name: "ollama tool incapable", provider: "ollama", model: "llama3", wantType: &OllamaProvider{}, wantTools: false},
		{name: "missing key", provider: "claude", wantErr: ErrMissingAPIKey},
		{name: "unknown", provider: "mistral", apiKey: "k", wantErr: ErrUnsupportedProvider},
		{name: "empty name", provider: "", apiKey: "k", wantErr: ErrUnsupportedProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := CreateProvider(tt.provider, tt.apiKey, tt.model)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateProvider() error = %v, want %v", err, tt.wantErr)
				}
				if p != nil {
					t.Error("expected nil provider on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var _ model.Provider = p
			if got, want := typeName(p), typeName(tt.wantType); got != want {
				t.Errorf("CreateProvider() type = %s, want %s", got, want)
			}
			if p.SupportsTools() != tt.wantTools {
				t.Errorf("SupportsTools() = %v, want %v", p.SupportsTools(), tt.wantTools)
			}
			if tt.model != "" && p.GetModel() != tt.model {
				t.Errorf("GetModel() = %q, want %q", p.GetModel(), tt.model)
			}
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *GeminiProvider:
		return "gemini"
	case *ClaudeProvider:
		return "claude"
	case *OpenAIProvider:
		return "openai"
	case *OllamaProvider:
		return "ollama"
	default:
		return "unknown"
	}
}

func TestUnsupportedProviderErrorListsNames(t *testing.T) {
	_, err := CreateProvider("mistral", "k", "")

	var unsupported *UnsupportedProviderError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected *UnsupportedProviderError, got %T", err)
	}
	if unsupported.Name != "mistral" {
		t.Errorf("Name = %q", unsupported.Name)
	}
	for _, name := range ListSupported() {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not list %s", err, name)
		}
	}
}

func TestMapProviderIDToType(t *testing.T) {
	tests := map[string]ProviderType{
		"claude":     ProviderTypeClaude,
		" Claude ":   ProviderTypeClaude,
		"anthropic":  ProviderTypeClaude,
		"google":     ProviderTypeGemini,
		"OPENROUTER": ProviderTypeOpenRouter,
		"unknown":    ProviderType("unknown"),
	}
	for in, want := range tests {
		if got := MapProviderIDToType(in); got != want {
			t.Errorf("MapProviderIDToType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEverySupportedProviderHasConfigDefaults(t *testing.T) {
	defaults := config.DefaultSettings()
	for _, name := range ListSupported() {
		if _, ok := defaults.Providers[name]; !ok {
			t.Errorf("config has no defaults for provider %s", name)
		}
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.FromSettings(config.DefaultSettings())
	cfg.Provider = "gemini"

	if _, err := FromConfig(cfg); err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("FromConfig() without key error = %v", err)
	}

	cfg.SetAPIKey("gemini", "k")
	p, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	if p.GetModel() != "gemini-1.5-flash" {
		t.Errorf("GetModel() = %q", p.GetModel())
	}
}
