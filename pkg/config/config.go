// Package config defines the application configuration and its loading
// rules: a single yaml file with ${VAR} expansion, .env files, and
// defaults derived from the process environment.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level,omitempty"`

	// Format is "simple" (human readable) or "json".
	Format string `yaml:"format,omitempty"`
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "simple"
	}
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level: %q", c.Level)
	}
	switch c.Format {
	case "simple", "json":
	default:
		return fmt.Errorf("unsupported log format: %q", c.Format)
	}
	return nil
}

// Config is the root application configuration.
type Config struct {
	LLM       LLMConfig       `yaml:"llm,omitempty"`
	Providers ProvidersConfig `yaml:"providers,omitempty"`
	Knowledge KnowledgeConfig `yaml:"knowledge,omitempty"`
	Server    ServerConfig    `yaml:"server,omitempty"`
	Auth      AuthConfig      `yaml:"auth,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
}

func (c *Config) SetDefaults() {
	c.LLM.SetDefaults()
	c.Providers.SetDefaults()
	c.Knowledge.SetDefaults()
	c.Server.SetDefaults()
	c.Auth.SetDefaults()
	c.Logging.SetDefaults()
}

func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.Providers.Validate(); err != nil {
		return err
	}
	if err := c.Knowledge.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}

// Default returns a configuration built entirely from defaults and the
// process environment. Used when no config file is given.
func Default() (*Config, error) {
	cfg := &Config{}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads and validates a yaml configuration file.
// Environment references in string values are expanded before decoding.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	expanded, err := yaml.Marshal(expandEnvVarsInData(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode expanded config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
