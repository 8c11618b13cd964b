// Package config loads Helios settings from an optional YAML file, a
// .env file, and the process environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/helios/internal/llm"
	"github.com/rcliao/helios/internal/store"
)

// JiraConfig holds tracker credentials.
type JiraConfig struct {
	BaseURL    string `yaml:"base_url"`
	Email      string `yaml:"email"`
	APIToken   string `yaml:"api_token"`
	MaxResults int    `yaml:"max_results"`
}

// DriveConfig points at the Google OAuth client secret and cached token.
type DriveConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
}

// LLMConfig selects the language model.
type LLMConfig struct {
	Provider     string `yaml:"provider"`
	GeminiAPIKey string `yaml:"gemini_api_key"`
	OpenAIAPIKey string `yaml:"openai_api_key"`
	Model        string `yaml:"model"`
	BaseURL      string `yaml:"base_url"`
}

// HTTPConfig describes the HTTP server.
type HTTPConfig struct {
	Port string `yaml:"port"`
}

// Addr returns the listen address, accepting both ":8080" and "8080".
func (h HTTPConfig) Addr() string {
	if h.Port == "" {
		return ":8080"
	}
	if h.Port[0] == ':' {
		return h.Port
	}
	return ":" + h.Port
}

// Config aggregates all settings.
type Config struct {
	Env          string      `yaml:"env"`
	Jira         JiraConfig  `yaml:"jira"`
	Drive        DriveConfig `yaml:"drive"`
	LLM          LLMConfig   `yaml:"llm"`
	HTTP         HTTPConfig  `yaml:"http"`
	HistoryLimit int         `yaml:"history_limit"`
}

// Default returns a Config populated with defaults only.
func Default() *Config {
	return &Config{
		Env:          "dev",
		Jira:         JiraConfig{MaxResults: 500},
		Drive:        DriveConfig{CredentialsFile: "credentials.json", TokenFile: "token.json"},
		LLM:          LLMConfig{Provider: "auto"},
		HTTP:         HTTPConfig{Port: "8080"},
		HistoryLimit: store.DefaultLimit,
	}
}

// LoadEnvFile loads KEY=VALUE pairs from path into the environment
// without overriding variables that are already set. A missing file is
// not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load builds a Config from defaults, the YAML file at path (if non-empty)
// and environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Env, "HELIOS_ENV")
	setString(&c.Jira.BaseURL, "JIRA_BASE_URL")
	setString(&c.Jira.Email, "JIRA_EMAIL")
	setString(&c.Jira.APIToken, "JIRA_API_TOKEN")
	setString(&c.Drive.CredentialsFile, "GOOGLE_DRIVE_CREDENTIALS_FILE")
	setString(&c.Drive.TokenFile, "GOOGLE_DRIVE_TOKEN_FILE")
	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.BaseURL, "LLM_BASE_URL")
	setString(&c.HTTP.Port, "HELIOS_HTTP_PORT")
	if err := setInt(&c.Jira.MaxResults, "JIRA_MAX_RESULTS"); err != nil {
		return err
	}
	return setInt(&c.HistoryLimit, "HELIOS_HISTORY_LIMIT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: invalid integer %q", key, v)
	}
	*dst = n
	return nil
}

var placeholderMarkers = []string{"your-", "your_", "<", "changeme"}

func isPlaceholder(v string) bool {
	lower := strings.ToLower(v)
	for _, m := range placeholderMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Validate reports missing or placeholder tracker credentials.
func (c *Config) Validate() error {
	var missing []string
	check := func(name, v string) {
		if v == "" || isPlaceholder(v) {
			missing = append(missing, name)
		}
	}
	check("JIRA_BASE_URL", c.Jira.BaseURL)
	check("JIRA_EMAIL", c.Jira.Email)
	check("JIRA_API_TOKEN", c.Jira.APIToken)
	if len(missing) > 0 {
		return fmt.Errorf("missing or placeholder configuration: %s", strings.Join(missing, ", "))
	}
	if c.Jira.MaxResults <= 0 {
		return fmt.Errorf("JIRA_MAX_RESULTS must be positive, got %d", c.Jira.MaxResults)
	}
	return nil
}

// LLMSettings resolves the provider and API key. "auto" prefers Gemini
// when its key is set and falls back to OpenAI.
func (c *Config) LLMSettings() llm.Config {
	provider := strings.ToLower(c.LLM.Provider)
	var key string
	switch provider {
	case llm.ProviderGemini:
		key = c.LLM.GeminiAPIKey
	case llm.ProviderOpenAI:
		key = c.LLM.OpenAIAPIKey
	default:
		switch {
		case c.LLM.GeminiAPIKey != "":
			provider, key = llm.ProviderGemini, c.LLM.GeminiAPIKey
		case c.LLM.OpenAIAPIKey != "":
			provider, key = llm.ProviderOpenAI, c.LLM.OpenAIAPIKey
		}
	}
	if isPlaceholder(key) {
		key = ""
	}
	return llm.Config{
		Provider: provider,
		APIKey:   key,
		Model:    c.LLM.Model,
		BaseURL:  c.LLM.BaseURL,
	}
}
