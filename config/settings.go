package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings mirrors settings.toml.
type Settings struct {
	DataDirectory string                      `toml:"data_directory"`
	LLM           LLMSettings                 `toml:"llm"`
	Providers     map[string]ProviderSettings `toml:"providers"`
	MCPServers    []MCPServerConfig           `toml:"mcp_servers"`
}

type LLMSettings struct {
	Provider   string `toml:"provider"`
	MaxHistory int    `toml:"max_history"`
}

// ProviderSettings holds the per-provider model and endpoint. API keys are
// deliberately absent; they come from the environment.
type ProviderSettings struct {
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url,omitempty"`
}

// MCPServerConfig describes a stdio MCP server whose tools are offered to
// the model.
type MCPServerConfig struct {
	ID      string            `toml:"id"`
	Command string            `toml:"command"`
	Args    []string          `toml:"args,omitempty"`
	Env     map[string]string `toml:"env,omitempty"`
}

func LoadSettings() (*Settings, error) {
	settingsPath := GetSettingsFilePath()

	if !FileExists(settingsPath) {
		if err := CreateDefaultSettings(settingsPath); err != nil {
			return nil, fmt.Errorf("failed to create settings: %w", err)
		}
		return DefaultSettings(), nil
	}

	return LoadSettingsFromPath(settingsPath)
}

func LoadSettingsFromPath(path string) (*Settings, error) {
	cfg := DefaultSettings()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	for i, server := range cfg.MCPServers {
		if server.ID == "" || server.Command == "" {
			return nil, fmt.Errorf("mcp_servers[%d]: id and command are required", i)
		}
	}

	return cfg, nil
}

func SaveSettings(cfg *Settings, path string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	return nil
}

func CreateDefaultSettings(path string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if FileExists(path) {
		return nil
	}

	if err := os.WriteFile(path, []byte(GenerateSettingsTemplate()), 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}
