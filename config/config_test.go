package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_USER", "mealmuse")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("GEMINI_API_KEY", "test-gemini-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "mealmuse", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, time.Hour, cfg.TokenExpiry)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "DB_USER")
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestLoadTokenExpiryOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_EXPIRY", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.TokenExpiry)
}

func TestLoadInvalidTokenExpiry(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_EXPIRY", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_EXPIRY")
}

func TestLoadSecretFromFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GEMINI_API_KEY", "")

	secretFile := filepath.Join(t.TempDir(), "gemini_key")
	require.NoError(t, os.WriteFile(secretFile, []byte("file-key\n"), 0o600))
	t.Setenv("GEMINI_API_KEY_FILE", secretFile)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.GeminiAPIKey)
}

func TestLoadSecretMissingFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY_FILE", filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := Load()
	require.Error(t, err)
}
