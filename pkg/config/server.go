package config

import "fmt"

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`

	// ShutdownTimeout is the graceful shutdown window in seconds.
	ShutdownTimeout int `yaml:"shutdown_timeout,omitempty"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8000
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10
	}
}

func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// Address returns the host:port listen address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
