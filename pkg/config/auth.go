package config

import (
	"fmt"
	"os"
)

// AuthConfig configures token issuing and the user store.
type AuthConfig struct {
	// Enabled guards the query endpoint with bearer tokens.
	Enabled bool `yaml:"enabled,omitempty"`

	// Secret signs access tokens (HS256). Falls back to AUTH_SECRET_KEY.
	Secret string `yaml:"secret,omitempty"`

	// Issuer is embedded in issued tokens and checked on validation.
	Issuer string `yaml:"issuer,omitempty"`

	// TokenTTL is the access token lifetime in minutes.
	TokenTTL int `yaml:"token_ttl,omitempty"`

	// UsersDB is the sqlite file holding user credentials.
	UsersDB string `yaml:"users_db,omitempty"`
}

func (c *AuthConfig) SetDefaults() {
	if c.Secret == "" {
		c.Secret = os.Getenv("AUTH_SECRET_KEY")
	}
	if c.Issuer == "" {
		c.Issuer = "marketminds"
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 30
	}
	if c.UsersDB == "" {
		c.UsersDB = "./users.db"
	}
}

func (c *AuthConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Secret == "" {
		return fmt.Errorf("auth secret is required when auth is enabled (set auth.secret or AUTH_SECRET_KEY)")
	}
	if len(c.Secret) < 32 {
		return fmt.Errorf("auth secret must be at least 32 bytes, got %d", len(c.Secret))
	}
	if c.TokenTTL < 1 {
		return fmt.Errorf("token ttl must be positive, got %d", c.TokenTTL)
	}
	return nil
}
