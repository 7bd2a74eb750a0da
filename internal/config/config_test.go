package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_ISSUER", "rookiebulls-test")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SIGNUP_GRANT", "")
	t.Setenv("PRICE_TIMEOUT", "")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, 24*time.Hour, c.JWTTTL)
	assert.Equal(t, "info", c.LogLevel)
	assert.EqualValues(t, 100000, c.SignupGrant)
	assert.Equal(t, 2*time.Second, c.PriceTimeout)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_ISSUER")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadInvalidValues(t *testing.T) {
	setRequired(t)

	t.Setenv("JWT_TTL", "soon")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_TTL", "1h")
	t.Setenv("SIGNUP_GRANT", "-5")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("SIGNUP_GRANT", "50000")
	t.Setenv("PRICE_TIMEOUT", "500ms")
	c, err := Load()
	require.NoError(t, err)
	assert.EqualValues(t, 50000, c.SignupGrant)
	assert.Equal(t, 500*time.Millisecond, c.PriceTimeout)
}
