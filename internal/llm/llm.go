// Package llm provides a pluggable interface for the language-model
// providers used to summarize meeting notes and phrase answers.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDisabled is returned by the Null provider.
var ErrDisabled = errors.New("llm: no provider configured")

// Provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNull   = "dummy"
)

// Default models per provider.
const (
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// systemPrompt frames every answer request.
const systemPrompt = "You are Helios, a helpful project management assistant. Always be accurate and reference the data provided."

// Provider generates text from prompts.
type Provider interface {
	// Name identifies the provider ("gemini", "openai", "dummy").
	Name() string

	// Summarize condenses text to roughly maxWords words.
	Summarize(ctx context.Context, text string, maxWords int) (string, error)

	// Answer responds to a free-form prompt.
	Answer(ctx context.Context, prompt string) (string, error)
}

// Null is the provider used when no model is configured. Every call
// fails with ErrDisabled.
type Null struct{}

func (Null) Name() string { return ProviderNull }

func (Null) Summarize(context.Context, string, int) (string, error) { return "", ErrDisabled }

func (Null) Answer(context.Context, string) (string, error) { return "", ErrDisabled }

// Available reports whether p is a real model provider.
func Available(p Provider) bool {
	switch p.(type) {
	case nil, Null, *Null:
		return false
	default:
		return true
	}
}

// Config selects and configures a provider.
type Config struct {
	Provider string // gemini | openai | auto
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// New builds the configured provider. A missing API key yields Null.
func New(cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return Null{}, nil
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	switch strings.ToLower(cfg.Provider) {
	case ProviderGemini, "", "auto":
		return NewGemini(cfg.BaseURL, cfg.APIKey, cfg.Model, timeout), nil
	case ProviderOpenAI:
		return NewOpenAI(cfg.BaseURL, cfg.APIKey, cfg.Model, timeout), nil
	default:
		return nil, fmt.Errorf("llm: provider %q not supported, use gemini or openai", cfg.Provider)
	}
}

func summaryPrompt(text string, maxWords int) string {
	return fmt.Sprintf(`Please provide a concise summary of the following text in approximately %d words or less.
Focus on the key points, current status, and any important details.

Text:
%s

Summary:`, maxWords, text)
}
