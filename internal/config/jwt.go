package config

import "fmt"

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// AuthEnabled reports whether the HTTP endpoint requires bearer tokens.
func (c *Config) AuthEnabled() bool {
	return c.Server.JWTSecret != ""
}

// JWT returns the token configuration. It fails when no secret is configured.
func (c *Config) JWT() (*JWTConfig, error) {
	cfg := &JWTConfig{
		Secret:          c.Server.JWTSecret,
		ExpirationHours: c.Server.JWTExpirationHours,
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT secret is required (set server.jwt_secret or JWT_SECRET)")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT expiration must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
