package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/fgrfn/unraid-templates/internal/shell/updater"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all tool configuration.
type Config struct {
	Fetch    FetchConfig       `mapstructure:"fetch"`
	Docs     DocsConfig        `mapstructure:"docs"`
	Publish  PublishConfig     `mapstructure:"publish"`
	Log      LogConfig         `mapstructure:"log"`
	Projects []updater.Project `mapstructure:"projects"`
}

// FetchConfig holds upstream fetch configuration.
type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// DocsConfig holds index generation output configuration.
type DocsConfig struct {
	Dir string `mapstructure:"dir"`
}

// PublishConfig holds the published URL layout used by the index page.
type PublishConfig struct {
	Title        string `mapstructure:"title"`
	RepoURL      string `mapstructure:"repo_url"`
	PagesBaseURL string `mapstructure:"pages_base_url"`
	RawBaseURL   string `mapstructure:"raw_base_url"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from file and environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("fetch.timeout", "10s")
	v.SetDefault("docs.dir", "docs")
	v.SetDefault("publish.title", "fgrfn Unraid Templates")
	v.SetDefault("publish.repo_url", "https://github.com/fgrfn/unraid-templates")
	v.SetDefault("publish.pages_base_url", "https://fgrfn.github.io/unraid-templates")
	v.SetDefault("publish.raw_base_url", "https://raw.githubusercontent.com/fgrfn/unraid-templates/main")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Load from file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// Only return error if file was explicitly specified and is invalid
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// File not found is OK, we'll use defaults
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("TEMPLATECTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format.
// Logs go to stderr; stdout carries the command's report.
func SetupLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
