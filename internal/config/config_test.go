package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL == "" {
		t.Error("default API base URL should not be empty")
	}
	if cfg.API.Retry.MaxAttempts != 2 {
		t.Errorf("default retry max attempts = %d, want 2", cfg.API.Retry.MaxAttempts)
	}
	if cfg.API.Retry.DelayMs != 1000 {
		t.Errorf("default retry delay = %d, want 1000", cfg.API.Retry.DelayMs)
	}
	if cfg.Cache.ProjectTTLSeconds != 60 {
		t.Errorf("default project TTL = %d, want 60", cfg.Cache.ProjectTTLSeconds)
	}
	if !cfg.Cache.PersistList {
		t.Error("list persistence should be on by default")
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("default config should validate cleanly, got: %v", ValidationErrors(errs))
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Default()

	if got := cfg.API.Timeout(); got != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", got)
	}
	if got := cfg.API.Retry.Delay(); got != time.Second {
		t.Errorf("Delay() = %v, want 1s", got)
	}
	if got := cfg.Cache.ProjectTTL(); got != time.Minute {
		t.Errorf("ProjectTTL() = %v, want 1m", got)
	}
}

func TestLoad_FromViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()
	viper.Set("api.base_url", "https://example.com/api")
	viper.Set("cache.project_ttl_seconds", 120)
	viper.Set("tui.page_size", 25)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://example.com/api" {
		t.Errorf("BaseURL = %q, want override", cfg.API.BaseURL)
	}
	if cfg.Cache.ProjectTTLSeconds != 120 {
		t.Errorf("ProjectTTLSeconds = %d, want 120", cfg.Cache.ProjectTTLSeconds)
	}
	if cfg.TUI.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", cfg.TUI.PageSize)
	}
	// Untouched keys keep defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Level = %q, want default %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()
	viper.Set("api.base_url", "not a url")
	viper.Set("tui.page_size", -1)

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail for invalid config")
	}
}

func TestGet_FallsBackToDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	// Nothing registered: Load fails validation (empty base URL), Get should
	// still produce a usable config.
	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.API.BaseURL == "" {
		t.Error("Get() fallback should carry the default base URL")
	}
}

func TestResolveStateDir(t *testing.T) {
	tests := []struct {
		name     string
		stateDir string
		contains string
	}{
		{"empty uses platform default", "", "showcase"},
		{"absolute path kept", "/var/lib/showcase", "/var/lib/showcase"},
		{"tilde expands", "~/state/showcase", "state/showcase"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PathsConfig{StateDir: tt.stateDir}
			got := p.ResolveStateDir()
			if !strings.Contains(got, tt.contains) {
				t.Errorf("ResolveStateDir() = %q, want to contain %q", got, tt.contains)
			}
			if strings.HasPrefix(got, "~") {
				t.Errorf("ResolveStateDir() = %q, tilde not expanded", got)
			}
		})
	}
}

func TestIsValidTheme(t *testing.T) {
	for _, theme := range ValidThemes() {
		if !IsValidTheme(theme) {
			t.Errorf("IsValidTheme(%q) = false, want true", theme)
		}
	}
	if IsValidTheme("neon") {
		t.Error("IsValidTheme(\"neon\") = true, want false")
	}
}
