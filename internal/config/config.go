package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// HTTP server
	ServerAddr string

	// Storage: "memory", "sqlite", or "elasticsearch" (sqlite base with
	// an Elasticsearch leaderboard mirror)
	StorageType string
	DataDir     string

	// Elasticsearch
	ElasticsearchURL      string
	ElasticsearchUsername string
	ElasticsearchPassword string

	// Redis leaderboard cache, optional
	RedisAddr     string
	RedisPassword string

	// NFT oracle
	OracleURL         string
	CollectionAddress string

	// Environment
	Environment string // "development" or "production"
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	// Get working directory for resource paths
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg := &Config{
		ServerAddr:            getEnvWithDefault("SERVER_ADDR", ":8080"),
		StorageType:           getEnvWithDefault("STORAGE_TYPE", "memory"),
		DataDir:               getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data")),
		ElasticsearchURL:      getEnvWithDefault("ELASTICSEARCH_URL", "http://localhost:9200"),
		ElasticsearchUsername: os.Getenv("ELASTICSEARCH_USERNAME"),
		ElasticsearchPassword: os.Getenv("ELASTICSEARCH_PASSWORD"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		OracleURL:             os.Getenv("ORACLE_URL"),
		CollectionAddress:     os.Getenv("COLLECTION_ADDRESS"),
		Environment:           getEnvWithDefault("ENVIRONMENT", "development"),
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
