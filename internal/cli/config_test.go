package cli

import (
	"testing"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenya-legal-ai/lexclient/internal/core"
)

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("LEGAL_API_URL", "https://legal.example.org/api/v1")
	t.Setenv("LEGAL_API_TIMEOUT", "45s")
	t.Setenv("SESSION_MODE", "plain_language")
	t.Setenv("SESSION_COURT", "Court of Appeal")
	t.Setenv("SEARCH_TOP_K", "7")
	t.Setenv("HEALTH_INTERVAL", "1m")
	t.Setenv("REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("ENVIRONMENT", "production")

	cfg := Defaults()
	require.NoError(t, envconfig.Process("", &cfg))

	assert.Equal(t, "https://legal.example.org/api/v1", cfg.API.URL)
	assert.Equal(t, 45*time.Second, cfg.API.Timeout)
	assert.Equal(t, "plain_language", cfg.Session.Mode)
	assert.Equal(t, "Court of Appeal", cfg.Session.Court)
	assert.Equal(t, 7, cfg.Search.TopK)
	assert.Equal(t, 5, cfg.Search.ConstitutionTopK)
	assert.Equal(t, time.Minute, cfg.Health.Interval)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, core.Production, cfg.Environment())
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 20, cfg.Session.MemoryLimit)
	assert.Equal(t, 30*time.Second, cfg.Health.Interval)

	ttl, err := cfg.TranscriptTTL()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)

	cfg.Session.TranscriptTTL = ""
	ttl, err = cfg.TranscriptTTL()
	require.NoError(t, err)
	assert.Zero(t, ttl)

	cfg.Session.TranscriptTTL = "soon"
	_, err = cfg.TranscriptTTL()
	assert.Error(t, err)
}
