package infra

import (
	"errors"
	"fmt"
	"os"

	"limitup_go/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds every application setting.
// After LoadConfig reads the file, environment variables override it.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Calculator struct {
		DefaultSegment string          `yaml:"default_segment"`
		MaxDays        int             `yaml:"max_days"`
		MinClose       decimal.Decimal `yaml:"min_close"`
		MaxTarget      decimal.Decimal `yaml:"max_target"`
	} `yaml:"calculator"`

	Logging struct {
		Level      string `yaml:"level"`
		Dir        string `yaml:"dir"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logging"`
}

// DefaultConfig returns the built-in settings used when no file is present.
func DefaultConfig() *Config {
	var cfg Config
	cfg.App.Name = "limitup"
	cfg.App.Version = "0.1.0"
	cfg.Calculator.DefaultSegment = domain.DefaultSegmentKey
	cfg.Calculator.MaxDays = 250
	cfg.Calculator.MinClose = decimal.New(1, -2) // one A-share price tick
	cfg.Calculator.MaxTarget = decimal.NewFromInt(1_000_000)
	cfg.Logging.Level = "info"
	cfg.Logging.Dir = "logs"
	cfg.Logging.File = "app.log"
	cfg.Logging.MaxSizeMB = 10
	cfg.Logging.MaxBackups = 3
	cfg.Logging.MaxAgeDays = 28
	cfg.Logging.Compress = true
	return &cfg
}

// LoadConfig reads and parses the YAML file at path on top of DefaultConfig.
// A missing file returns domain.ErrConfigNotFound wrapped.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrConfigNotFound)
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadConfigOrDefault behaves like LoadConfig but falls back to
// DefaultConfig (with env overrides) when the file does not exist.
func LoadConfigOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, domain.ErrConfigNotFound) {
		cfg = DefaultConfig()
		overrideWithEnv(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return cfg, nil
	}
	return cfg, err
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if !domain.IsKnownSegment(c.Calculator.DefaultSegment) {
		return &domain.ConfigError{
			Field: "calculator.default_segment",
			Err:   fmt.Errorf("%w: %q", domain.ErrInvalidSegment, c.Calculator.DefaultSegment),
		}
	}
	if c.Calculator.MaxDays <= 0 {
		return &domain.ConfigError{Field: "calculator.max_days", Err: errors.New("must be positive")}
	}
	if !c.Calculator.MinClose.IsPositive() {
		return &domain.ConfigError{Field: "calculator.min_close", Err: errors.New("must be positive")}
	}
	if !c.Calculator.MaxTarget.IsPositive() {
		return &domain.ConfigError{Field: "calculator.max_target", Err: errors.New("must be positive")}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &domain.ConfigError{Field: "logging.level", Err: fmt.Errorf("unknown level %q", c.Logging.Level)}
	}

	return nil
}

// overrideWithEnv replaces settings with environment variables when set.
func overrideWithEnv(cfg *Config) {
	if level := os.Getenv("LIMITUP_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if dir := os.Getenv("LIMITUP_LOG_DIR"); dir != "" {
		cfg.Logging.Dir = dir
	}
	if seg := os.Getenv("LIMITUP_DEFAULT_SEGMENT"); seg != "" {
		cfg.Calculator.DefaultSegment = seg
	}
}
