package cli

import (
	"time"

	"github.com/kenya-legal-ai/lexclient/internal/core"
	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
	pkgredis "github.com/kenya-legal-ai/lexclient/pkg/redis"
)

// Config defines every configurable parameter, sourced from environment
// variables (loaded from .env for local runs) and overridden by flags.
type Config struct {
	// Infrastructure
	Redis pkgredis.Config

	// Ambient
	Log model.LogConfig

	// Legal service
	API     model.APIConfig
	Session model.SessionConfig
	Search  model.SearchConfig
	Health  model.HealthConfig
}

// Environment returns the parsed deployment environment.
func (c *Config) Environment() core.Environment {
	return core.ParseEnvironment(c.Log.Environment)
}

// TranscriptTTL parses the transcript expiry; zero disables expiry.
func (c *Config) TranscriptTTL() (time.Duration, error) {
	if c.Session.TranscriptTTL == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Session.TranscriptTTL)
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Redis: pkgredis.Config{ReadTimeout: 3, WriteTimeout: 3, DialTimeout: 5},
		Log:   model.LogConfig{Environment: string(core.Development), File: "lexclient.log"},
		API:   model.APIConfig{URL: "http://localhost:8000/api/v1", Timeout: 120 * time.Second},
		Session: model.SessionConfig{
			MemoryLimit:   20,
			Mode:          string(model.ModeResearch),
			TranscriptTTL: "24h",
		},
		Search: model.SearchConfig{TopK: 10, ConstitutionTopK: 5},
		Health: model.HealthConfig{Interval: 30 * time.Second},
	}
}
