package llm

import (
	"fmt"
	"time"

	"github.com/nutnell/marketminds/pkg/config"
)

// NewFromConfig builds the classification client selected by the
// configuration.
func NewFromConfig(cfg *config.LLMConfig) (Client, error) {
	maxRetries := 3
	if cfg.MaxRetries != nil {
		maxRetries = *cfg.MaxRetries
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
			Timeout:     time.Duration(cfg.Timeout) * time.Second,
			MaxRetries:  maxRetries,
		})
	case config.ProviderGemini:
		return NewGemini(GeminiConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		})
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
}
