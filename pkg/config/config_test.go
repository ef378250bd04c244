package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 60, cfg.LLM.Timeout)
	require.NotNil(t, cfg.LLM.Temperature)
	assert.Equal(t, 0.0, *cfg.LLM.Temperature)

	assert.Equal(t, DefaultNewsAPIBaseURL, cfg.Providers.News.BaseURL)
	assert.Equal(t, DefaultCoinGeckoBaseURL, cfg.Providers.CoinGecko.BaseURL)
	assert.Equal(t, 20, cfg.Providers.Timeout)

	assert.Equal(t, KnowledgeBackendChromem, cfg.Knowledge.Backend)
	assert.Equal(t, "financial_docs", cfg.Knowledge.Collection)
	assert.Equal(t, 3, cfg.Knowledge.TopK)
	assert.Equal(t, 6334, cfg.Knowledge.Qdrant.Port)

	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Address())
	assert.Equal(t, 30, cfg.Auth.TokenTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad llm provider",
			mutate:  func(c *Config) { c.LLM.Provider = "mystery" },
			wantErr: "unsupported llm provider",
		},
		{
			name:    "bad knowledge backend",
			mutate:  func(c *Config) { c.Knowledge.Backend = "pinecone" },
			wantErr: "unsupported knowledge backend",
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server port",
		},
		{
			name:    "auth enabled without secret",
			mutate:  func(c *Config) { c.Auth.Enabled = true; c.Auth.Secret = "" },
			wantErr: "auth secret is required",
		},
		{
			name: "auth secret too short",
			mutate: func(c *Config) {
				c.Auth.Enabled = true
				c.Auth.Secret = "short"
			},
			wantErr: "at least 32 bytes",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: "unsupported log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.SetDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("MM_TEST_KEY", "secret-value")
	os.Unsetenv("MM_TEST_MISSING")

	tests := []struct {
		in   string
		want string
	}{
		{"no vars here", "no vars here"},
		{"${MM_TEST_KEY}", "secret-value"},
		{"$MM_TEST_KEY", "secret-value"},
		{"${MM_TEST_MISSING:-fallback}", "fallback"},
		{"${MM_TEST_KEY:-fallback}", "secret-value"},
		{"prefix-${MM_TEST_KEY}-suffix", "prefix-secret-value-suffix"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, expandEnvVars(tt.in), "input %q", tt.in)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("MM_TEST_AV_KEY", "av-key-from-env")

	yamlContent := `
llm:
  provider: openai
  model: gpt-4o
providers:
  alpha_vantage:
    api_key: ${MM_TEST_AV_KEY}
  timeout: 5
server:
  port: 9001
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "av-key-from-env", cfg.Providers.AlphaVantage.APIKey)
	assert.Equal(t, 5, cfg.Providers.Timeout)
	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset fields still get defaults.
	assert.Equal(t, DefaultFREDBaseURL, cfg.Providers.FRED.BaseURL)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [not a map"), 0o600))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}
