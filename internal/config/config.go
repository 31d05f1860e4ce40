// Package config loads and validates application configuration.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// AmazonConfig holds the optional Amazon sign-in credentials.
type AmazonConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// SummarizerConfig selects and configures the summarization backend.
type SummarizerConfig struct {
	Provider  string        `mapstructure:"provider" validate:"required,oneof=cli anthropic openai ollama"`
	Command   string        `mapstructure:"command"`
	Model     string        `mapstructure:"model"`
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	MaxTokens int           `mapstructure:"max_tokens" validate:"gte=0"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// BrowserConfig tunes the Chrome session.
type BrowserConfig struct {
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Settle    time.Duration `mapstructure:"settle" validate:"gte=0"`
	Stealth   bool          `mapstructure:"stealth"`
	Headless  bool          `mapstructure:"headless"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Config is the application configuration.
type Config struct {
	CSVFile      string           `mapstructure:"csv_file" validate:"required"`
	MaxPages     int              `mapstructure:"max_pages" validate:"required,gt=0"`
	ReviewColumn string           `mapstructure:"review_column" validate:"required"`
	Amazon       AmazonConfig     `mapstructure:"amazon"`
	Summarizer   SummarizerConfig `mapstructure:"summarizer"`
	Browser      BrowserConfig    `mapstructure:"browser"`
}

// SetDefaults registers the default values on a viper instance. Call before
// reading config files so file values win.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("csv_file", "reviews.csv")
	v.SetDefault("max_pages", 5)
	v.SetDefault("review_column", "review_body")
	v.SetDefault("summarizer.provider", "cli")
	v.SetDefault("summarizer.command", "gemini")
	v.SetDefault("summarizer.timeout", 0)
	v.SetDefault("browser.timeout", 10*time.Second)
	v.SetDefault("browser.settle", 2*time.Second)
	v.SetDefault("browser.stealth", true)
	v.SetDefault("browser.headless", true)
}

// Load unmarshals and validates the configuration held by a viper instance.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Summarizer.Provider == "cli" && c.Summarizer.Command == "" {
		return fmt.Errorf("invalid config: summarizer.command is required when summarizer.provider is cli")
	}
	return nil
}
