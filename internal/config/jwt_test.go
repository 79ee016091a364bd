package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT(t *testing.T) {
	cfg := &Config{Server: ServerConfig{JWTSecret: "test-secret-key", JWTExpirationHours: 24}}
	assert.True(t, cfg.AuthEnabled())

	jwtCfg, err := cfg.JWT()
	require.NoError(t, err)
	assert.Equal(t, "test-secret-key", jwtCfg.Secret)
	assert.Equal(t, 24, jwtCfg.ExpirationHours)
}

func TestJWT_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		server ServerConfig
		want   string
	}{
		{"no secret", ServerConfig{JWTExpirationHours: 24}, "JWT secret is required"},
		{"zero expiration", ServerConfig{JWTSecret: "s"}, "at least 1 hour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Server: tt.server}
			_, err := cfg.JWT()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestJWT_FromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("JWT_EXPIRATION_HOURS", "48")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	jwtCfg, err := cfg.JWT()
	require.NoError(t, err)
	assert.Equal(t, "from-env", jwtCfg.Secret)
	assert.Equal(t, 48, jwtCfg.ExpirationHours)
}
