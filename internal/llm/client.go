package llm

import (
	"context"
	"fmt"
)

// Request is one extraction call: system instructions plus the raw user text.
type Request struct {
	System string
	User   string
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete sends the request and returns the model's reply text verbatim.
	Complete(ctx context.Context, req Request) (string, error)
	// Name identifies the provider and model, e.g. "openai/gpt-4o".
	Name() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig(ProviderGemini)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	apiKey := config.ResolveAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required (set %s or llm.api_key)", APIKeyEnv(config.Provider))
	}

	var (
		client Client
		err    error
	)
	switch config.Provider {
	case ProviderOpenAI, ProviderDeepSeek:
		client, err = NewOpenAIClient(config, apiKey)
	default:
		client, err = NewGeminiClient(ctx, config, apiKey)
	}
	if err != nil {
		return nil, err
	}

	return WithRetry(client, config.MaxRetries, config.RetryDelay), nil
}
