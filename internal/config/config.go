package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete Showcase configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Cache   CacheConfig   `mapstructure:"cache"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Paths   PathsConfig   `mapstructure:"paths"`
}

// APIConfig controls how the client talks to the showcase backend
type APIConfig struct {
	// BaseURL is the root of the REST API, including the /api prefix
	BaseURL string `mapstructure:"base_url"`
	// TimeoutSeconds is the per-request HTTP timeout
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// Retry controls recovery from 401s on the project list fetch
	Retry RetryConfig `mapstructure:"retry"`
}

// RetryConfig controls the bounded retry on authentication failures during
// the list fetch. The retry exists to ride out the window between a credential
// being issued and it being attached to requests.
type RetryConfig struct {
	// MaxAttempts is the number of additional attempts after the first failure
	MaxAttempts int `mapstructure:"max_attempts"`
	// DelayMs is the fixed delay between attempts in milliseconds
	DelayMs int `mapstructure:"delay_ms"`
}

// CacheConfig controls the client-side project cache
type CacheConfig struct {
	// ProjectTTLSeconds is the freshness window for per-record cache entries.
	// A single-project fetch within this window is served from memory.
	ProjectTTLSeconds int `mapstructure:"project_ttl_seconds"`
	// PersistList controls whether the last full project list is written to
	// durable storage as an offline fallback
	PersistList bool `mapstructure:"persist_list"`
}

// TUIConfig controls the dashboard behavior
type TUIConfig struct {
	// Theme is the color theme for the dashboard (default: "default")
	// Options: "default", "light"
	Theme string `mapstructure:"theme"`
	// PageSize is the number of projects shown per page in the list view
	PageSize int `mapstructure:"page_size"`
	// ShowSpinner toggles the loading spinner during fetches
	ShowSpinner bool `mapstructure:"show_spinner"`
}

// LoggingConfig controls diagnostic logging behavior
type LoggingConfig struct {
	// Enabled controls whether file logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// PathsConfig controls where Showcase stores local state
type PathsConfig struct {
	// StateDir is the directory for durable client-side state (session,
	// cached project list, logs). If empty, defaults to the platform state
	// directory. Supports ~ for home directory expansion.
	StateDir string `mapstructure:"state_dir"`
}

// ResolveStateDir returns the resolved state directory path.
// If StateDir is empty, it returns the default under the user's home.
// If StateDir starts with ~, it expands to the user's home directory.
func (p *PathsConfig) ResolveStateDir() string {
	if p.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ".showcase"
		}
		return filepath.Join(home, ".local", "state", "showcase")
	}

	path := p.StateDir

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return path
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://innovaiteprojectsbackend.onrender.com/api",
			TimeoutSeconds: 30,
			Retry: RetryConfig{
				MaxAttempts: 2,
				DelayMs:     1000,
			},
		},
		Cache: CacheConfig{
			ProjectTTLSeconds: 60,
			PersistList:       true,
		},
		TUI: TUIConfig{
			Theme:       "default",
			PageSize:    10,
			ShowSpinner: true,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Paths: PathsConfig{
			StateDir: "", // Empty means use the platform default
		},
	}
}

// Timeout returns the HTTP request timeout as a time.Duration
func (a *APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Delay returns the retry delay as a time.Duration
func (r *RetryConfig) Delay() time.Duration {
	return time.Duration(r.DelayMs) * time.Millisecond
}

// ProjectTTL returns the per-record cache freshness window as a time.Duration
func (c *CacheConfig) ProjectTTL() time.Duration {
	return time.Duration(c.ProjectTTLSeconds) * time.Second
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// API defaults
	viper.SetDefault("api.base_url", defaults.API.BaseURL)
	viper.SetDefault("api.timeout_seconds", defaults.API.TimeoutSeconds)
	viper.SetDefault("api.retry.max_attempts", defaults.API.Retry.MaxAttempts)
	viper.SetDefault("api.retry.delay_ms", defaults.API.Retry.DelayMs)

	// Cache defaults
	viper.SetDefault("cache.project_ttl_seconds", defaults.Cache.ProjectTTLSeconds)
	viper.SetDefault("cache.persist_list", defaults.Cache.PersistList)

	// TUI defaults
	viper.SetDefault("tui.theme", defaults.TUI.Theme)
	viper.SetDefault("tui.page_size", defaults.TUI.PageSize)
	viper.SetDefault("tui.show_spinner", defaults.TUI.ShowSpinner)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	// Paths defaults
	viper.SetDefault("paths.state_dir", defaults.Paths.StateDir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "showcase")
	}
	// Fall back to ~/.config/showcase
	home, err := os.UserHomeDir()
	if err != nil {
		return ".showcase"
	}
	return filepath.Join(home, ".config", "showcase")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidThemes returns the list of valid TUI theme values
func ValidThemes() []string {
	return []string{"default", "light"}
}

// IsValidTheme checks if the given theme is valid
func IsValidTheme(theme string) bool {
	for _, valid := range ValidThemes() {
		if theme == valid {
			return true
		}
	}
	return false
}
