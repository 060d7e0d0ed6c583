package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// TMDB
	TMDBAPIKey  string
	TMDBBaseURL string // Override for tests; empty means the public API

	// Catalog
	Language     string // BCP 47 tag sent to the catalog API (default: en-US)
	Region       string // Optional ISO 3166-1 region for release-date filtering
	IncludeAdult bool

	// Server
	ServerPort string

	// Scheduler
	RefreshCron string // Cron expression for the stale-feed sweep (default: hourly)

	// Paths
	DatabaseFile string // $CONFIG_DIR/mediabolt.db

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
	viper.SetDefault("LANGUAGE", "en-US")
	viper.SetDefault("INCLUDE_ADULT", false)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REFRESH_CRON", "0 * * * *")
	viper.SetDefault("LOG_LEVEL", "info")

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "mediabolt")
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
		// TMDB
		TMDBAPIKey:  viper.GetString("TMDB_API_KEY"),
		TMDBBaseURL: viper.GetString("TMDB_BASE_URL"),

		// Catalog
		Language:     viper.GetString("LANGUAGE"),
		Region:       viper.GetString("REGION"),
		IncludeAdult: viper.GetBool("INCLUDE_ADULT"),

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Scheduler
		RefreshCron: viper.GetString("REFRESH_CRON"),

		// Paths
		DatabaseFile: filepath.Join(configDir, "mediabolt.db"),

		// Logging
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Validate required fields
	if config.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}

	return config, nil
}
