package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	base := Config{
		Port:       "8340",
		JWTSecret:  "a-long-enough-secret-for-dev-use-only!!",
		DBPassword: "password",
		Env:        "development",
	}

	t.Run("valid development config", func(t *testing.T) {
		c := base
		assert.NoError(t, c.Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		c := base
		c.Port = ""
		assert.ErrorContains(t, c.Validate(), "PORT is required")
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		c := base
		c.JWTSecret = ""
		assert.ErrorContains(t, c.Validate(), "JWT_SECRET is required")
	})

	t.Run("production rejects default jwt secret", func(t *testing.T) {
		c := base
		c.Env = "production"
		c.JWTSecret = "your-secret-key-change-in-production"
		assert.ErrorContains(t, c.Validate(), "changed from the default")
	})

	t.Run("production rejects short jwt secret", func(t *testing.T) {
		c := base
		c.Env = "production"
		c.JWTSecret = "short"
		assert.ErrorContains(t, c.Validate(), "at least 32 characters")
	})

	t.Run("production rejects weak db password", func(t *testing.T) {
		c := base
		c.Env = "production"
		c.DBPassword = "password"
		assert.ErrorContains(t, c.Validate(), "DB_PASSWORD")
	})

	t.Run("production accepts strong values", func(t *testing.T) {
		c := base
		c.Env = "production"
		c.DBPassword = "dRm2sVq8LbT4xWn6"
		c.DBSSLMode = "require"
		assert.NoError(t, c.Validate())
	})
}
