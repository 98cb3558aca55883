package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Backend API
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Web front-end
	Port        string
	Environment string
	CSRFKey     string

	// Local credential storage (CLI)
	StoragePath string

	// Dashboard cache
	DashboardCacheTTL time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		APIBaseURL:        getEnv("API_BASE_URL", ""),
		HTTPTimeout:       time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		Port:              getEnv("PORT", "3000"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		CSRFKey:           getEnv("CSRF_KEY", ""),
		StoragePath:       getEnv("STORAGE_PATH", defaultStoragePath()),
		DashboardCacheTTL: time.Duration(getEnvInt("DASHBOARD_CACHE_TTL_SECONDS", 60)) * time.Second,
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL environment variable is required")
	}

	return cfg, nil
}

// IsDevelopment reports whether the process runs outside production. The web
// front-end relaxes cookie security in this mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment != "production"
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.motoclub/auth.db"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
