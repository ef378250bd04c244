package config

import (
	"fmt"
	"os"
)

// Supported classifier providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Default models per provider.
const (
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.0-flash"
)

// LLMConfig configures the classification model used by the router and
// the entity extractor. Both classifiers share one client.
type LLMConfig struct {
	// Provider selects the backend: "openai" or "gemini".
	Provider string `yaml:"provider,omitempty"`

	// Model is the provider-specific model identifier.
	Model string `yaml:"model,omitempty"`

	// APIKey authenticates against the provider. Falls back to the
	// provider's conventional environment variable.
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible gateways,
	// test servers).
	BaseURL string `yaml:"base_url,omitempty"`

	// Temperature for generation. Classifiers want 0.
	Temperature *float64 `yaml:"temperature,omitempty"`

	// Timeout is the per-call timeout in seconds.
	Timeout int `yaml:"timeout,omitempty"`

	// MaxRetries bounds transparent retries on transient failures.
	MaxRetries *int `yaml:"max_retries,omitempty"`
}

func (c *LLMConfig) SetDefaults() {
	if c.Provider == "" {
		c.Provider = detectProviderFromEnv()
	}
	if c.Model == "" {
		switch c.Provider {
		case ProviderGemini:
			c.Model = DefaultGeminiModel
		default:
			c.Model = DefaultOpenAIModel
		}
	}
	if c.APIKey == "" {
		c.APIKey = ClassifierAPIKey(c.Provider)
	}
	if c.Timeout == 0 {
		c.Timeout = 60
	}
	if c.Temperature == nil {
		temp := 0.0
		c.Temperature = &temp
	}
	if c.MaxRetries == nil {
		retries := 3
		c.MaxRetries = &retries
	}
}

func (c *LLMConfig) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unsupported llm provider: %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("llm model is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("llm timeout must be non-negative, got %d", c.Timeout)
	}
	return nil
}

// detectProviderFromEnv picks a provider based on which API key is set,
// preferring OpenAI.
func detectProviderFromEnv() string {
	if os.Getenv("OPENAI_API_KEY") != "" {
		return ProviderOpenAI
	}
	if os.Getenv("GEMINI_API_KEY") != "" {
		return ProviderGemini
	}
	return ProviderOpenAI
}
