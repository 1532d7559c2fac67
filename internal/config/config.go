package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the whole application configuration,
// populated from environment variables.
type Config struct {
	App         AppConfig
	Redis       RedisConfig
	JWT         JWTConfig
	OpenLibrary OpenLibraryConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// OpenLibraryConfig configures the external catalog mirror.
type OpenLibraryConfig struct {
	BaseURL        string
	CoversURL      string
	TimeoutSeconds int
	SearchLimit    int
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Bookworm API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "3000"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			ExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 168), // 7 days
		},
		OpenLibrary: OpenLibraryConfig{
			BaseURL:        getEnv("OPENLIBRARY_BASE_URL", "https://openlibrary.org"),
			CoversURL:      getEnv("OPENLIBRARY_COVERS_URL", "https://covers.openlibrary.org"),
			TimeoutSeconds: getEnvInt("OPENLIBRARY_TIMEOUT_SECONDS", 30),
			SearchLimit:    getEnvInt("OPENLIBRARY_SEARCH_LIMIT", 20),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that the loaded config is usable
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	if c.OpenLibrary.SearchLimit < 1 || c.OpenLibrary.SearchLimit > 100 {
		return fmt.Errorf("OPENLIBRARY_SEARCH_LIMIT must be between 1 and 100")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
