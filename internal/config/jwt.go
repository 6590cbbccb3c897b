package config

import (
	"fmt"
	"time"
)

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// NewJWTConfig builds a JWT configuration from settings.
// The secret is required; expiration defaults to 24 hours.
func NewJWTConfig(s JWTSettings) (*JWTConfig, error) {
	cfg := &JWTConfig{
		Secret:     s.Secret,
		Expiration: s.Expiration,
	}
	if cfg.Expiration == 0 {
		cfg.Expiration = 24 * time.Hour
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT secret is required but not set (SITEGEN_JWT_SECRET or JWT_SECRET)")
	}
	if len(c.Secret) < 16 {
		return fmt.Errorf("JWT secret must be at least 16 characters, got %d", len(c.Secret))
	}
	if c.Expiration < time.Minute {
		return fmt.Errorf("JWT expiration must be at least 1 minute, got: %s", c.Expiration)
	}
	return nil
}
