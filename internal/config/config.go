package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"samplewms/domain/sample"
	"samplewms/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Log    LogConfig
	Export ExportConfig
	Import ImportConfig
	Seed   SeedConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// LogConfig holds logger settings
type LogConfig struct {
	Mode  string
	Level string
	File  string
}

// ExportConfig holds workbook export settings
type ExportConfig struct {
	BaseName         string
	FetchTimeout     time.Duration // per image
	FetchBudget      time.Duration // all images of one export
	FetchConcurrency int
	MaxImageBytes    int64
}

// ImportConfig holds upload and import settings
type ImportConfig struct {
	MaxBytes         int64
	PlaceholderImage string
	DefaultPlatform  sample.Platform
}

// SeedConfig controls generated demo data
type SeedConfig struct {
	Samples int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: *loadServerConfig(),
		Log:    *loadLogConfig(),
		Export: *loadExportConfig(),
		Seed:   SeedConfig{Samples: getEnvIntOrDefault("SEED_SAMPLES", 0)},
	}

	importConfig, err := loadImportConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load import configuration")
	}
	config.Import = *importConfig

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadLogConfig() *LogConfig {
	return &LogConfig{
		Mode:  getEnvOrDefault("LOG_MODE", "development"),
		Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		File:  getEnvOrDefault("LOG_FILE", ""),
	}
}

func loadExportConfig() *ExportConfig {
	return &ExportConfig{
		BaseName:         getEnvOrDefault("EXPORT_BASENAME", "LiveWMS_Export"),
		FetchTimeout:     getEnvDurationOrDefault("IMAGE_FETCH_TIMEOUT", 10*time.Second),
		FetchBudget:      getEnvDurationOrDefault("EXPORT_FETCH_BUDGET", 60*time.Second),
		FetchConcurrency: getEnvIntOrDefault("IMAGE_FETCH_CONCURRENCY", 8),
		MaxImageBytes:    getEnvInt64OrDefault("IMAGE_MAX_BYTES", 10<<20),
	}
}

func loadImportConfig() (*ImportConfig, error) {
	platform := sample.PlatformDouyin
	if value := strings.TrimSpace(os.Getenv("IMPORT_DEFAULT_PLATFORM")); value != "" {
		p, ok := sample.ParsePlatform(value)
		if !ok {
			return nil, errors.ConfigInvalid("IMPORT_DEFAULT_PLATFORM is not a known platform: " + value)
		}
		platform = p
	}

	return &ImportConfig{
		MaxBytes:         getEnvInt64OrDefault("IMPORT_MAX_BYTES", 20<<20),
		PlaceholderImage: getEnvOrDefault("IMPORT_PLACEHOLDER_IMAGE", "https://picsum.photos/200/200"),
		DefaultPlatform:  platform,
	}, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Export.FetchConcurrency <= 0 {
		return errors.ConfigInvalid("IMAGE_FETCH_CONCURRENCY must be positive")
	}
	if config.Export.FetchTimeout <= 0 {
		return errors.ConfigInvalid("IMAGE_FETCH_TIMEOUT must be positive")
	}
	if config.Export.FetchBudget < config.Export.FetchTimeout {
		return errors.ConfigInvalid("EXPORT_FETCH_BUDGET cannot be shorter than IMAGE_FETCH_TIMEOUT")
	}
	if config.Export.MaxImageBytes <= 0 || config.Import.MaxBytes <= 0 {
		return errors.ConfigInvalid("byte limits must be positive")
	}
	if config.Seed.Samples < 0 {
		return errors.ConfigInvalid("SEED_SAMPLES cannot be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
