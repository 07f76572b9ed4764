package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 8000, cfg.MaxTextChars)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxFileBytes)
	assert.Equal(t, 6000, cfg.MaxExtractedTextChars)
	assert.True(t, cfg.FailClosed)
	assert.Equal(t, 30*time.Second, cfg.ClassifierTimeout)
	assert.Empty(t, cfg.NATSURL)
	assert.Empty(t, cfg.TLSHosts)
	assert.Contains(t, cfg.AllowedOrigins, "http://localhost:3000")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("MAX_TEXT_CHARS", "500")
	t.Setenv("CONSERVATIVE_IF_UNCERTAIN", "false")
	t.Setenv("CLASSIFIER_TIMEOUT_SECONDS", "5")
	t.Setenv("TLS_HOSTS", "api.example.com, check.example.com")
	t.Setenv("FRONTEND_URL", "https://app.example.com")

	cfg := Load()

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 500, cfg.MaxTextChars)
	assert.False(t, cfg.FailClosed)
	assert.Equal(t, 5*time.Second, cfg.ClassifierTimeout)
	assert.Equal(t, []string{"api.example.com", "check.example.com"}, cfg.TLSHosts)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("MAX_TEXT_CHARS", "not-a-number")
	cfg := Load()
	assert.Equal(t, 8000, cfg.MaxTextChars)
}
