package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds credential identifiers and environment-level options. Scan
// parameters (model, batch size, query) live in the settings document and are
// edited at runtime; this file only carries what a scan cannot change.
type Config struct {
	Gmail   GmailConfig   `toml:"gmail"`
	OpenAI  OpenAIConfig  `toml:"openai"`
	Account AccountConfig `toml:"account"`
	Logging LoggingConfig `toml:"logging"`
}

// GmailConfig holds Gmail OAuth client credentials.
// Users can override via config file or env vars.
type GmailConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// OpenAIConfig holds the classification endpoint credentials. BaseURL is
// optional and defaults to the public OpenAI endpoint.
type OpenAIConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// AccountConfig selects which keyring entry holds the mailbox token.
type AccountConfig struct {
	ID string `toml:"id"`
}

// LoggingConfig holds log verbosity settings.
type LoggingConfig struct {
	Verbose bool `toml:"verbose"`
}

func defaults() Config {
	return Config{
		Account: AccountConfig{ID: "default"},
	}
}

// Load reads config from path, merging over defaults. A missing file is not
// an error; credentials can still come from the environment.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Account.ID == "" {
		cfg.Account.ID = "default"
	}
	return &cfg, nil
}

// OpenAIKey returns the configured API key, falling back to the environment.
func (c *Config) OpenAIKey() string {
	if c.OpenAI.APIKey != "" {
		return c.OpenAI.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

// ConfigDir returns the unspamer config directory path.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "unspamer")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "unspamer")
}

// DataDir returns the unspamer data directory path.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "unspamer")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "unspamer")
}
