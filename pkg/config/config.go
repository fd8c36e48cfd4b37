package config

import (
	"os"
)

// Config holds application configuration
type Config struct {
	DatabaseURL      string
	Port             string
	Environment      string
	ModelPath        string
	ModelName        string
	UseModelRegistry bool
}

// New creates a new configuration instance from environment variables
func New() *Config {
	return &Config{
		DatabaseURL:      getEnv("DATABASE_URL", "postgres://postgres:paSSw0rd@db:5432/postgres?sslmode=disable"),
		Port:             getEnv("PORT", "8000"),
		Environment:      getEnv("ENV", "development"),
		ModelPath:        getEnv("MODEL_PATH", "model.gob"),
		ModelName:        getEnv("MODEL_NAME", "moderation-model"),
		UseModelRegistry: getEnvAsBool("USE_MODEL_REGISTRY", getEnvAsBool("USE_MLFLOW", false)),
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool accepts "true"/"false" in any case, matching how the legacy
// deployment read USE_MLFLOW.
func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch value {
	case "true", "True", "TRUE", "1":
		return true
	case "false", "False", "FALSE", "0":
		return false
	}
	return defaultValue
}
