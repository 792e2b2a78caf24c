package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Storage    StorageConfig    `mapstructure:"storage"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	Normalizer NormalizerConfig `mapstructure:"normalizer"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// StorageConfig holds ledger persistence configuration
type StorageConfig struct {
	FilePath        string `mapstructure:"file_path"`
	RetentionDays   int    `mapstructure:"retention_days"`
	FilePermissions uint32 `mapstructure:"file_permissions"`
	DirPermissions  uint32 `mapstructure:"dir_permissions"`
}

// SettlementConfig holds settlement behavior configuration
type SettlementConfig struct {
	ExposureThreshold float64 `mapstructure:"exposure_threshold"`
}

// NormalizerConfig holds text normalization configuration
type NormalizerConfig struct {
	MaxIterations int `mapstructure:"max_iterations"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables. An empty
// path skips the file and builds the configuration from defaults and
// BOLITA_* environment overrides alone.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("BOLITA")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Storage defaults; an empty file_path resolves to a per-user temp
	// location at store construction time.
	v.SetDefault("storage.file_path", "")
	v.SetDefault("storage.retention_days", 15)
	v.SetDefault("storage.file_permissions", 0o600)
	v.SetDefault("storage.dir_permissions", 0o700)

	// Settlement defaults
	v.SetDefault("settlement.exposure_threshold", 5000.0)

	// Normalizer defaults
	v.SetDefault("normalizer.max_iterations", 15)

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "2s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Storage.RetentionDays < 1 {
		return fmt.Errorf("storage.retention_days must be at least 1")
	}

	if c.Settlement.ExposureThreshold <= 0 {
		return fmt.Errorf("settlement.exposure_threshold must be positive")
	}

	if c.Normalizer.MaxIterations < 1 {
		return fmt.Errorf("normalizer.max_iterations must be at least 1")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
		if c.Telegram.MaxRetries < 1 {
			return fmt.Errorf("telegram.max_retries must be at least 1")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
