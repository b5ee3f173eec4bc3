package model

import "time"

// ================ Config ================
type APIConfig struct {
	URL     string        `envconfig:"LEGAL_API_URL" default:"http://localhost:8000/api/v1"`
	Timeout time.Duration `envconfig:"LEGAL_API_TIMEOUT" default:"120s"`
}

type SessionConfig struct {
	MemoryLimit   int    `envconfig:"SESSION_MEMORY_LIMIT" default:"20"`
	Mode          string `envconfig:"SESSION_MODE" default:"research"`
	DocumentType  string `envconfig:"SESSION_DOCUMENT_TYPE"`
	Court         string `envconfig:"SESSION_COURT"`
	TranscriptTTL string `envconfig:"TRANSCRIPT_TTL" default:"24h"`
}

type SearchConfig struct {
	TopK             int `envconfig:"SEARCH_TOP_K" default:"10"`
	ConstitutionTopK int `envconfig:"CONSTITUTION_TOP_K" default:"5"`
}

type HealthConfig struct {
	Interval time.Duration `envconfig:"HEALTH_INTERVAL" default:"30s"`
}

type LogConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Level       string `envconfig:"LOG_LEVEL"`
	File        string `envconfig:"LOG_FILE" default:"lexclient.log"`
}
