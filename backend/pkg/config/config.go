package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	apperrors "socialgraph/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port            string
	Env             string
	ShutdownTimeout int // Seconds to wait for in-flight requests on shutdown

	// Seed data
	SeedFile string // YAML fixture applied at startup, embedded default tiers when empty

	// Resolver
	AggregateConcurrency int // Max accounts resolved in parallel for list views

	// Events
	EventBuffer       int
	NATSURL           string // Empty disables the NATS sink
	NATSSubjectPrefix string

	// Neo4j follow-graph projection, disabled when URI is empty
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  getEnv("ENV", "development"),
		ShutdownTimeout:      getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 5),
		SeedFile:             getEnv("SEED_FILE", ""),
		AggregateConcurrency: getEnvInt("AGGREGATE_CONCURRENCY", 8),
		EventBuffer:          getEnvInt("EVENT_BUFFER", 1000),
		NATSURL:              getEnv("NATS_URL", ""),
		NATSSubjectPrefix:    getEnv("NATS_SUBJECT_PREFIX", "social"),
		Neo4jURI:             getEnv("NEO4J_URI", ""),
		Neo4jUser:            getEnv("NEO4J_USER", ""),
		Neo4jPassword:        getEnv("NEO4J_PASSWORD", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return apperrors.NewConfigValidationFailed("PORT", "must be numeric")
	}
	if c.AggregateConcurrency <= 0 {
		return apperrors.NewConfigValidationFailed("AGGREGATE_CONCURRENCY", "must be positive")
	}
	if c.EventBuffer <= 0 {
		return apperrors.NewConfigValidationFailed("EVENT_BUFFER", "must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return apperrors.NewConfigValidationFailed("SHUTDOWN_TIMEOUT_SECONDS", "must be positive")
	}
	// Neo4j credentials only matter once the projection is switched on
	if c.Neo4jURI != "" {
		if c.Neo4jUser == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_USER")
		}
		if c.Neo4jPassword == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
		}
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// NATSEnabled reports whether mutation events are published to NATS
func (c *Config) NATSEnabled() bool {
	return c.NATSURL != ""
}

// ProjectionEnabled reports whether the Neo4j follow-graph projection runs
func (c *Config) ProjectionEnabled() bool {
	return c.Neo4jURI != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
