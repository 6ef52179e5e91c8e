package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Account.ID != "default" {
		t.Errorf("default account id = %q, want %q", cfg.Account.ID, "default")
	}
	if cfg.Gmail.ClientID != "" {
		t.Errorf("ClientID = %q, want empty by default", cfg.Gmail.ClientID)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := `
[gmail]
client_id = "id123"
client_secret = "secret456"

[openai]
api_key = "sk-test"
base_url = "http://localhost:11434/v1"

[account]
id = "work"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Gmail.ClientID != "id123" || cfg.Gmail.ClientSecret != "secret456" {
		t.Errorf("gmail credentials = %+v, want values from file", cfg.Gmail)
	}
	if cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("api_key = %q, want %q", cfg.OpenAI.APIKey, "sk-test")
	}
	if cfg.OpenAI.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("base_url = %q, want value from file", cfg.OpenAI.BaseURL)
	}
	if cfg.Account.ID != "work" {
		t.Errorf("account id = %q, want %q", cfg.Account.ID, "work")
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("Load() should return defaults for missing file, got error: %v", err)
	}
	if cfg.Account.ID != "default" {
		t.Errorf("account id = %q, want default", cfg.Account.ID)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("not valid [[ toml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Fatal("Load() should return error for invalid TOML")
	}
}

func TestOpenAIKey_EnvFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg := &Config{}
	if got := cfg.OpenAIKey(); got != "sk-env" {
		t.Errorf("OpenAIKey() = %q, want env fallback", got)
	}

	cfg.OpenAI.APIKey = "sk-file"
	if got := cfg.OpenAIKey(); got != "sk-file" {
		t.Errorf("OpenAIKey() = %q, want config value to win", got)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if dir := ConfigDir(); dir != "/custom/config/unspamer" {
			t.Errorf("ConfigDir() = %q, want %q", dir, "/custom/config/unspamer")
		}
	})
	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		if dir := ConfigDir(); !strings.HasSuffix(dir, filepath.Join(".config", "unspamer")) {
			t.Errorf("ConfigDir() = %q, want suffix %q", dir, filepath.Join(".config", "unspamer"))
		}
	})
}

func TestDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	if dir := DataDir(); dir != "/custom/data/unspamer" {
		t.Errorf("DataDir() = %q, want %q", dir, "/custom/data/unspamer")
	}
}
