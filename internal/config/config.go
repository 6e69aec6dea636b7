package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	DataDir     string // root directory of the blob store
	CORSOrigins string
	TablePrefix string
	AuthJWKSURL string // empty disables bearer-token auth (dev mode)
	LogDir      string // empty logs to stdout only
	MaxLogFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DataDir:     getEnv("DATA_DIR", "uploads"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),
		AuthJWKSURL: getEnv("AUTH_JWKS_URL", ""),
		LogDir:      getEnv("LOG_DIR", ""),
		MaxLogFiles: 10,
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	// Auto-generate based on environment
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
