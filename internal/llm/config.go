// Package llm provides the text-understanding service used by model-backed extraction.
// It hides provider SDKs behind a single Client interface.
package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI chat completions API
	ProviderOpenAI Provider = "openai"
	// ProviderDeepSeek is DeepSeek through its OpenAI-compatible endpoint
	ProviderDeepSeek Provider = "deepseek"
)

// DeepSeekBaseURL is the OpenAI-compatible DeepSeek endpoint.
const DeepSeekBaseURL = "https://api.deepseek.com"

// Config holds the model configuration for one provider.
type Config struct {
	Provider    Provider
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
	// MaxRetries is the number of extra attempts after a transient failure.
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns the default configuration for provider.
func DefaultConfig(provider Provider) *Config {
	cfg := &Config{
		Provider:    provider,
		Temperature: 0,
		MaxRetries:  2,
		RetryDelay:  500 * time.Millisecond,
	}
	switch provider {
	case ProviderOpenAI:
		cfg.Model = "gpt-4o"
	case ProviderDeepSeek:
		cfg.Model = "deepseek-chat"
		cfg.BaseURL = DeepSeekBaseURL
	default:
		cfg.Provider = ProviderGemini
		cfg.Model = "gemini-2.5-flash"
	}
	return cfg
}

// APIKeyEnv returns the conventional environment variable holding the provider's key.
func APIKeyEnv(provider Provider) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderDeepSeek:
		return "DEEPSEEK_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// ResolveAPIKey returns c.APIKey, falling back to the provider's environment variable.
func (c *Config) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv(APIKeyEnv(c.Provider))
}

// Validate checks that the provider is known and a model is set.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderDeepSeek:
	default:
		return fmt.Errorf("unsupported llm provider: %s", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("no model configured for provider %s", c.Provider)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must be non-negative, got %d", c.MaxRetries)
	}
	return nil
}

// WithModel returns a copy of c using model.
func (c *Config) WithModel(model string) *Config {
	out := *c
	out.Model = model
	return &out
}
