package config

const (
	DefaultProvider   = "claude"
	DefaultMaxHistory = 2
	DefaultOllamaHost = "http://localhost:11434"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

func DefaultSettings() *Settings {
	return &Settings{
		DataDirectory: "~/.local/share/coursebot",
		LLM: LLMSettings{
			Provider:   DefaultProvider,
			MaxHistory: DefaultMaxHistory,
		},
		Providers: map[string]ProviderSettings{
			"claude":     {Model: "claude-sonnet-4-20250514"},
			"gemini":     {Model: "gemini-1.5-flash"},
			"openai":     {Model: "gpt-4o-mini"},
			"openrouter": {Model: "anthropic/claude-sonnet-4", BaseURL: OpenRouterBaseURL},
			"ollama":     {Model: "llama3.1:latest", BaseURL: DefaultOllamaHost},
		},
	}
}

func GenerateSettingsTemplate() string {
	return `# Course assistant configuration
# Location: ~/.config/coursebot/settings.toml
# This file uses TOML format: https://toml.io

# Directory where conversation history is stored
data_directory = "~/.local/share/coursebot"

[llm]
# One of: claude, gemini, openai, openrouter, ollama
# Overridden by LLM_PROVIDER
provider = "claude"

# Number of previous exchanges included in the prompt
max_history = 2

# API keys are read from the environment only:
#   ANTHROPIC_API_KEY, GEMINI_API_KEY, OPENAI_API_KEY, OPENROUTER_API_KEY

[providers.claude]
model = "claude-sonnet-4-20250514"

[providers.gemini]
model = "gemini-1.5-flash"

[providers.openai]
model = "gpt-4o-mini"

[providers.openrouter]
model = "anthropic/claude-sonnet-4"
base_url = "https://openrouter.ai/api/v1"

[providers.ollama]
model = "llama3.1:latest"
base_url = "http://localhost:11434"

# MCP servers whose tools are offered to the model
# [[mcp_servers]]
# id = "filesystem"
# command = "npx"
# args = ["-y", "@modelcontextprotocol/server-filesystem", "/path/to/course"]
`
}
