package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is the resolved runtime configuration: defaults, then
// settings.toml, then environment overrides.
type Config struct {
	DataDirectory string
	Provider      string
	MaxHistory    int
	Providers     map[string]ProviderSettings
	MCPServers    []MCPServerConfig

	// apiKeys are read from the environment only and never written to disk.
	apiKeys map[string]string
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// APIKey returns the API key for a provider, or "" when none is set.
func (c *Config) APIKey(provider string) string {
	return c.apiKeys[normalizeProvider(provider)]
}

// SetAPIKey overrides the API key for a provider for this process only.
func (c *Config) SetAPIKey(provider, key string) {
	if c.apiKeys == nil {
		c.apiKeys = make(map[string]string)
	}
	c.apiKeys[normalizeProvider(provider)] = key
}

func (c *Config) applyEnvOverrides() {
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.Provider = provider
	}
	if dataDir := os.Getenv("COURSEBOT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if maxHistory := os.Getenv("COURSEBOT_MAX_HISTORY"); maxHistory != "" {
		if n, err := strconv.Atoi(maxHistory); err == nil && n >= 0 {
			c.MaxHistory = n
		}
	}

	for _, id := range ProviderIDs() {
		env := providerEnv[id]
		settings := c.Providers[id]
		if env.Key != "" {
			if key := os.Getenv(env.Key); key != "" {
				c.SetAPIKey(id, key)
			}
		}
		if env.Model != "" {
			if model := os.Getenv(env.Model); model != "" {
				settings.Model = model
			}
		}
		if env.BaseURL != "" {
			if baseURL := os.Getenv(env.BaseURL); baseURL != "" {
				settings.BaseURL = baseURL
			}
		}
		c.Providers[id] = settings
	}
}

func CheckDebug() bool {
	debug := os.Getenv("COURSEBOT_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: prompts and tool results end up in here
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (COURSEBOT_DEBUG=%s) ===", os.Getenv("COURSEBOT_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Load resolves the configuration. A missing settings file is created with
// defaults; a malformed one is an error.
func Load() (*Config, error) {
	settings, err := LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	cfg := FromSettings(settings)
	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	return cfg, nil
}

// FromSettings builds a Config from decoded settings, filling any provider
// the file leaves out with its defaults.
func FromSettings(settings *Settings) *Config {
	defaults := DefaultSettings()

	cfg := &Config{
		DataDirectory: settings.DataDirectory,
		Provider:      settings.LLM.Provider,
		MaxHistory:    settings.LLM.MaxHistory,
		Providers:     make(map[string]ProviderSettings, len(defaults.Providers)),
		MCPServers:    settings.MCPServers,
		apiKeys:       make(map[string]string),
	}

	if cfg.DataDirectory == "" {
		cfg.DataDirectory = defaults.DataDirectory
	}
	if cfg.Provider == "" {
		cfg.Provider = defaults.LLM.Provider
	}
	if cfg.MaxHistory < 0 {
		cfg.MaxHistory = defaults.LLM.MaxHistory
	}

	for id, def := range defaults.Providers {
		p := settings.Providers[id]
		if p.Model == "" {
			p.Model = def.Model
		}
		if p.BaseURL == "" {
			p.BaseURL = def.BaseURL
		}
		cfg.Providers[id] = p
	}

	return cfg
}

// normalizeProvider lower-cases a provider id and resolves vendor aliases.
func normalizeProvider(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	switch id {
	case "anthropic":
		return "claude"
	case "google":
		return "gemini"
	}
	return id
}
