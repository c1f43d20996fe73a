package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connectify/config"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	config.AppConfig.AdminJWTSecret = "test-secret"
	t.Cleanup(func() { config.AppConfig.AdminJWTSecret = "" })

	token, err := GenerateAdminToken("ops@example.com", time.Hour)
	require.NoError(t, err)

	assert.NoError(t, ValidateAdminToken(token))
}

func TestAdminTokenExpired(t *testing.T) {
	config.AppConfig.AdminJWTSecret = "test-secret"
	t.Cleanup(func() { config.AppConfig.AdminJWTSecret = "" })

	token, err := GenerateAdminToken("ops@example.com", -time.Minute)
	require.NoError(t, err)

	assert.Error(t, ValidateAdminToken(token))
}

func TestAdminTokenWrongSecret(t *testing.T) {
	config.AppConfig.AdminJWTSecret = "test-secret"
	token, err := GenerateAdminToken("ops@example.com", time.Hour)
	require.NoError(t, err)

	config.AppConfig.AdminJWTSecret = "different-secret"
	t.Cleanup(func() { config.AppConfig.AdminJWTSecret = "" })

	assert.Error(t, ValidateAdminToken(token))
}

func TestAdminTokenGarbage(t *testing.T) {
	config.AppConfig.AdminJWTSecret = "test-secret"
	t.Cleanup(func() { config.AppConfig.AdminJWTSecret = "" })

	assert.Error(t, ValidateAdminToken("not.a.token"))
}

func TestAdminTokenFailsClosedWithoutSecret(t *testing.T) {
	config.AppConfig.AdminJWTSecret = "test-secret"
	token, err := GenerateAdminToken("ops@example.com", time.Hour)
	require.NoError(t, err)

	config.AppConfig.AdminJWTSecret = ""
	t.Cleanup(func() { config.AppConfig.AdminJWTSecret = "" })

	assert.ErrorIs(t, ValidateAdminToken(token), ErrAdminSecretUnset)

	_, err = GenerateAdminToken("ops@example.com", time.Hour)
	assert.ErrorIs(t, err, ErrAdminSecretUnset)
}
