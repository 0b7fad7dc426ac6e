package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:       "5000",
		Env:        "development",
		DBDriver:   "postgres",
		DBPassword: "secure-password",
		DBSSLMode:  "require",
		AuthMode:   AuthModeTrust,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"sqlite driver", func(c *Config) { c.DBDriver = "sqlite" }, false},
		{"unknown auth mode", func(c *Config) { c.AuthMode = "oauth" }, true},
		{"jwt without secret", func(c *Config) { c.AuthMode = AuthModeJWT }, true},
		{"jwt with secret", func(c *Config) {
			c.AuthMode = AuthModeJWT
			c.JWTSecret = "dev-secret"
		}, false},
		{"production short jwt secret", func(c *Config) {
			c.Env = "production"
			c.AuthMode = AuthModeJWT
			c.JWTSecret = "short"
		}, true},
		{"production default db password", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "password"
		}, true},
		{"production sqlite ignores db password", func(c *Config) {
			c.Env = "prod"
			c.DBDriver = "sqlite"
			c.DBPassword = ""
		}, false},
		{"negative forward days", func(c *Config) { c.ShiftsForwardDays = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvOverridesAndNormalization(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "  SQLite ")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("AUTH_MODE", "Trust")
	t.Setenv("SHIFTS_FORWARD_DAYS", "14")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, AuthModeTrust, c.AuthMode)
	assert.Equal(t, 14, c.ShiftsForwardDays)
	assert.Equal(t, "5000", c.Port)
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Env: "production"}).IsProduction())
	assert.True(t, (&Config{Env: " PROD "}).IsProduction())
	assert.False(t, (&Config{Env: "staging"}).IsProduction())
}
