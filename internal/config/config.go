package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// YouTube
	YouTubeAPIKey     string
	EnrichConcurrency int // Max concurrent lookup batches (default: 4)

	// Session store
	RedisAddr     string // Empty selects the embedded bolthold store
	SessionDBFile string // $CONFIG_DIR/sessions.db
	SessionTTL    time.Duration

	// Server
	ServerPort string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SESSION_TTL_MINUTES", 60)
	viper.SetDefault("ENRICH_CONCURRENCY", 4)

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "watchtally")
	} else {
		// Convert relative path to absolute path
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		// YouTube
		YouTubeAPIKey:     viper.GetString("YOUTUBE_API_KEY"),
		EnrichConcurrency: viper.GetInt("ENRICH_CONCURRENCY"),

		// Session store
		RedisAddr:     viper.GetString("REDIS_ADDR"),
		SessionDBFile: filepath.Join(configDir, "sessions.db"),
		SessionTTL:    time.Duration(viper.GetInt("SESSION_TTL_MINUTES")) * time.Minute,

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Logging
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Validate required fields
	if config.YouTubeAPIKey == "" {
		return nil, fmt.Errorf("YOUTUBE_API_KEY is required")
	}
	if config.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}
	if config.EnrichConcurrency <= 0 {
		return nil, fmt.Errorf("ENRICH_CONCURRENCY must be positive")
	}

	return config, nil
}
