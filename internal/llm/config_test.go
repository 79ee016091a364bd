package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	tests := []struct {
		provider Provider
		model    string
		baseURL  string
	}{
		{ProviderGemini, "gemini-2.5-flash", ""},
		{ProviderOpenAI, "gpt-4o", ""},
		{ProviderDeepSeek, "deepseek-chat", DeepSeekBaseURL},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			config := DefaultConfig(tt.provider)
			assert.Equal(t, tt.provider, config.Provider)
			assert.Equal(t, tt.model, config.Model)
			assert.Equal(t, tt.baseURL, config.BaseURL)
			assert.Zero(t, config.Temperature)
			assert.Equal(t, 2, config.MaxRetries)
			require.NoError(t, config.Validate())
		})
	}
}

func TestDefaultConfig_UnknownProviderFallsBackToGemini(t *testing.T) {
	config := DefaultConfig("mystery")
	assert.Equal(t, ProviderGemini, config.Provider)
}

func TestValidate(t *testing.T) {
	config := &Config{Provider: "anthropic", Model: "x"}
	assert.ErrorContains(t, config.Validate(), "unsupported llm provider")

	config = &Config{Provider: ProviderOpenAI}
	assert.ErrorContains(t, config.Validate(), "no model configured")

	config = &Config{Provider: ProviderOpenAI, Model: "gpt-4o", MaxRetries: -1}
	assert.ErrorContains(t, config.Validate(), "max retries")
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig(ProviderOpenAI)
	newConfig := config.WithModel("gpt-4o-mini")

	// Original should be unchanged
	assert.Equal(t, "gpt-4o", config.Model)
	assert.Equal(t, "gpt-4o-mini", newConfig.Model)
	assert.Equal(t, config.Provider, newConfig.Provider)
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "from-env")

	config := DefaultConfig(ProviderDeepSeek)
	assert.Equal(t, "from-env", config.ResolveAPIKey())

	config.APIKey = "explicit"
	assert.Equal(t, "explicit", config.ResolveAPIKey())
}

func TestAPIKeyEnv(t *testing.T) {
	assert.Equal(t, "GEMINI_API_KEY", APIKeyEnv(ProviderGemini))
	assert.Equal(t, "OPENAI_API_KEY", APIKeyEnv(ProviderOpenAI))
	assert.Equal(t, "DEEPSEEK_API_KEY", APIKeyEnv(ProviderDeepSeek))
}

func TestNewClient_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewClient(t.Context(), DefaultConfig(ProviderOpenAI))
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}
