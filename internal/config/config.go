package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Wiki     WikiConfig     `mapstructure:"wiki"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Report   ReportConfig   `mapstructure:"report"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// WikiConfig holds OSRS Wiki prices API configuration
type WikiConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RetryBaseDelay    time.Duration `mapstructure:"retry_base_delay"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	MappingTTL        time.Duration `mapstructure:"mapping_ttl"`
}

// ScanConfig holds the trading strategy parameters
type ScanConfig struct {
	ReagentItemID  int `mapstructure:"reagent_item_id"`
	LimitCeiling   int `mapstructure:"limit_ceiling"`
	HighCandidates int `mapstructure:"high_candidates"`
	LowCandidates  int `mapstructure:"low_candidates"`
	HighMinVolume  int `mapstructure:"high_min_volume"`
	LowMinVolume   int `mapstructure:"low_min_volume"`
	HighRows       int `mapstructure:"high_rows"`
	LowRows        int `mapstructure:"low_rows"`
}

// CacheConfig holds in-process cache configuration
type CacheConfig struct {
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// ReportConfig holds report output configuration
type ReportConfig struct {
	XLSXPath string `mapstructure:"xlsx_path"`
}

// TelegramConfig holds Telegram delivery configuration
type TelegramConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from defaults, an optional file, a .env file and
// environment variables. An empty path runs on defaults alone.
func Load(path string) (*Config, error) {
	// A missing .env is the normal case
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	// ALCHSCAN_WIKI_USER_AGENT overrides wiki.user_agent
	v.SetEnvPrefix("ALCHSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
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
	// Wiki defaults
	v.SetDefault("wiki.base_url", "https://prices.runescape.wiki/api/v1/osrs")
	v.SetDefault("wiki.user_agent", "alchscan/1.0 (high alchemy profit scanner)")
	v.SetDefault("wiki.timeout", "30s")
	v.SetDefault("wiki.max_retries", 3)
	v.SetDefault("wiki.retry_base_delay", "1s")
	v.SetDefault("wiki.requests_per_second", 5.0)
	v.SetDefault("wiki.mapping_ttl", "1h")

	// Scan defaults
	v.SetDefault("scan.reagent_item_id", 561) // Nature rune
	v.SetDefault("scan.limit_ceiling", 1200)
	v.SetDefault("scan.high_candidates", 30)
	v.SetDefault("scan.low_candidates", 100)
	v.SetDefault("scan.high_min_volume", 100)
	v.SetDefault("scan.low_min_volume", 6)
	v.SetDefault("scan.high_rows", 10)
	v.SetDefault("scan.low_rows", 20)

	// Cache defaults
	v.SetDefault("cache.cleanup_interval", "0s")

	// Report defaults
	v.SetDefault("report.xlsx_path", "")

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Wiki config
	if c.Wiki.BaseURL == "" {
		return fmt.Errorf("wiki.base_url is required")
	}
	if c.Wiki.UserAgent == "" {
		return fmt.Errorf("wiki.user_agent is required")
	}
	if c.Wiki.Timeout <= 0 {
		return fmt.Errorf("wiki.timeout must be positive")
	}
	if c.Wiki.MaxRetries < 0 {
		return fmt.Errorf("wiki.max_retries must not be negative")
	}
	if c.Wiki.RetryBaseDelay < 0 {
		return fmt.Errorf("wiki.retry_base_delay must not be negative")
	}
	if c.Wiki.RequestsPerSecond < 0 {
		return fmt.Errorf("wiki.requests_per_second must not be negative")
	}
	if c.Wiki.MappingTTL <= 0 {
		return fmt.Errorf("wiki.mapping_ttl must be positive")
	}

	// Validate Scan config
	if c.Scan.ReagentItemID <= 0 {
		return fmt.Errorf("scan.reagent_item_id must be positive")
	}
	if c.Scan.LimitCeiling < 1 {
		return fmt.Errorf("scan.limit_ceiling must be at least 1")
	}
	if c.Scan.HighCandidates < 1 || c.Scan.LowCandidates < 1 {
		return fmt.Errorf("scan.high_candidates and scan.low_candidates must be at least 1")
	}
	if c.Scan.HighMinVolume < 0 || c.Scan.LowMinVolume < 0 {
		return fmt.Errorf("scan volume thresholds must not be negative")
	}
	if c.Scan.HighRows < 1 || c.Scan.LowRows < 1 {
		return fmt.Errorf("scan.high_rows and scan.low_rows must be at least 1")
	}

	if c.Cache.CleanupInterval < 0 {
		return fmt.Errorf("cache.cleanup_interval must not be negative")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	// Validate Logging config
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
