package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string
	JWTSecret    string

	// IPQSBaseURL overrides the reputation provider endpoint, used by
	// integration setups pointing at a stub provider.
	IPQSBaseURL string
	// IPQSTimeoutSeconds bounds every outbound provider call.
	IPQSTimeoutSeconds int

	// DecisionRetentionDays controls how long fraud decision rows are kept
	// before the cron sweep removes them.
	DecisionRetentionDays int
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:           getEnv("CARTSHIELD_ENV", "development"),
		HTTPPort:              getEnv("CARTSHIELD_HTTP_PORT", "8080"),
		DatabasePath:          getEnv("CARTSHIELD_DB_PATH", filepath.Join("data", "cartshield.db")),
		JWTSecret:             getEnv("CARTSHIELD_JWT_SECRET", ""),
		IPQSBaseURL:           getEnv("CARTSHIELD_IPQS_BASE_URL", "https://ipqualityscore.com"),
		IPQSTimeoutSeconds:    getEnvInt("CARTSHIELD_IPQS_TIMEOUT", 20),
		DecisionRetentionDays: getEnvInt("CARTSHIELD_DECISION_RETENTION_DAYS", 90),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return fallback
}
