package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setFullEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "nourish")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "nourish_box")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_abc")
}

func TestLoadConfig(t *testing.T) {
	setFullEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "nourish_box", cfg.DBName)
	assert.Equal(t, "sk_test_abc", cfg.PaystackSecretKey)
}

func TestLoadConfigFailsFastOnMissingKeys(t *testing.T) {
	setFullEnv(t)
	t.Setenv("PAYSTACK_SECRET_KEY", "")
	t.Setenv("DB_PASSWORD", "")

	cfg, err := LoadConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "PAYSTACK_SECRET_KEY")
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}
