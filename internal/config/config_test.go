package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func loadFromYAML(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviewlens.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}
	return Load(v)
}

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load with defaults failed: %v", err)
	}
	if cfg.CSVFile != "reviews.csv" {
		t.Errorf("unexpected csv_file: %q", cfg.CSVFile)
	}
	if cfg.MaxPages != 5 {
		t.Errorf("unexpected max_pages: %d", cfg.MaxPages)
	}
	if cfg.ReviewColumn != "review_body" {
		t.Errorf("unexpected review_column: %q", cfg.ReviewColumn)
	}
	if cfg.Summarizer.Provider != "cli" || cfg.Summarizer.Command != "gemini" {
		t.Errorf("unexpected summarizer defaults: %+v", cfg.Summarizer)
	}
	if cfg.Browser.Timeout != 10*time.Second || !cfg.Browser.Headless {
		t.Errorf("unexpected browser defaults: %+v", cfg.Browser)
	}
}

func TestLoadFromFile(t *testing.T) {
	cfg, err := loadFromYAML(t, `
csv_file: out/reviews.csv
max_pages: 3
amazon:
  email: user@example.com
  password: hunter2
summarizer:
  provider: anthropic
  model: claude-sonnet-4-20250514
  timeout: 90s
browser:
  stealth: false
  timeout: 20s
`)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CSVFile != "out/reviews.csv" {
		t.Errorf("unexpected csv_file: %q", cfg.CSVFile)
	}
	if cfg.MaxPages != 3 {
		t.Errorf("unexpected max_pages: %d", cfg.MaxPages)
	}
	if cfg.Amazon.Email != "user@example.com" {
		t.Errorf("unexpected amazon email: %q", cfg.Amazon.Email)
	}
	if cfg.Summarizer.Provider != "anthropic" {
		t.Errorf("unexpected provider: %q", cfg.Summarizer.Provider)
	}
	if cfg.Summarizer.Timeout != 90*time.Second {
		t.Errorf("unexpected summarizer timeout: %v", cfg.Summarizer.Timeout)
	}
	if cfg.Browser.Stealth {
		t.Error("expected stealth disabled")
	}
	if cfg.Browser.Timeout != 20*time.Second {
		t.Errorf("unexpected browser timeout: %v", cfg.Browser.Timeout)
	}
}

func TestLoadRejectsNonPositiveMaxPages(t *testing.T) {
	if _, err := loadFromYAML(t, "max_pages: 0\n"); err == nil {
		t.Error("expected error for max_pages: 0")
	}
	if _, err := loadFromYAML(t, "max_pages: -2\n"); err == nil {
		t.Error("expected error for negative max_pages")
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	if _, err := loadFromYAML(t, "summarizer:\n  provider: bard\n"); err == nil {
		t.Error("expected error for unknown summarizer provider")
	}
}

func TestLoadRejectsCLIWithoutCommand(t *testing.T) {
	_, err := loadFromYAML(t, "summarizer:\n  provider: cli\n  command: \"\"\n")
	if err == nil {
		t.Error("expected error for cli provider without command")
	}
}
