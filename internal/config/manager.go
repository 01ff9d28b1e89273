package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the user's persistent configuration preferences. Flags and
// environment variables override anything stored here.
type Config struct {
	LLMProvider string `json:"llm_provider,omitempty"` // openai, anthropic, kimi, etc.
	APIKey      string `json:"api_key,omitempty"`      // The API key for the selected provider
	Model       string `json:"model,omitempty"`        // Default model name
	BaseURL     string `json:"base_url,omitempty"`     // Optional override for API base URL

	MaxSteps       int    `json:"max_steps,omitempty"`       // Session step ceiling
	MaxReflections int    `json:"max_reflections,omitempty"` // Session reflection ceiling
	ScenarioFile   string `json:"scenario_file,omitempty"`   // Default scenario CSV path
	MetricsDB      string `json:"metrics_db,omitempty"`      // Metrics SQLite path
}

// Manager handles loading and saving the configuration.
type Manager struct {
	configDir string
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}

	return &Manager{
		configDir: filepath.Join(configDir, "synapse"),
	}, nil
}

// GetConfigPath returns the absolute path to the config.json file.
func (m *Manager) GetConfigPath() string {
	return filepath.Join(m.configDir, "config.json")
}

// Load reads the configuration from disk.
// If the file does not exist, it returns an empty Config and no error.
func (m *Manager) Load() (*Config, error) {
	path := m.GetConfigPath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config json: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to disk with restricted permissions (0600).
func (m *Manager) Save(cfg *Config) error {
	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := m.GetConfigPath()
	// The file may carry an API key; owner read/write only.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Exists checks if the configuration file has been created.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.GetConfigPath())
	return !os.IsNotExist(err)
}

// ApplyEnv exports the stored provider settings into the process
// environment when the variables are not already set, so the provider
// factory sees one consistent view.
func (cfg *Config) ApplyEnv() {
	setIfEmpty := func(key, value string) {
		if value != "" && os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
	setIfEmpty("LLM_PROVIDER", cfg.LLMProvider)

	prefix := "OPENAI"
	switch cfg.LLMProvider {
	case "anthropic":
		prefix = "ANTHROPIC"
	case "kimi":
		prefix = "KIMI"
	case "gemini":
		prefix = "GEMINI"
	case "ollama":
		prefix = "OLLAMA"
	case "deepseek":
		prefix = "DEEPSEEK"
	case "groq":
		prefix = "GROQ"
	}
	setIfEmpty(prefix+"_API_KEY", cfg.APIKey)
	setIfEmpty(prefix+"_MODEL", cfg.Model)
	setIfEmpty(prefix+"_BASE_URL", cfg.BaseURL)
}
