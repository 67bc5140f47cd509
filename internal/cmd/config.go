package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TriAzz/showcase/internal/config"
	"github.com/TriAzz/showcase/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify Showcase configuration",
	Long: `View or modify Showcase configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  showcase config set api.base_url https://backend.example.com/api
  showcase config set cache.project_ttl_seconds 120
  showcase config set tui.theme light

Valid keys:
  api.base_url              - Root of the REST API, including /api
  api.timeout_seconds       - Per-request HTTP timeout
  api.retry.max_attempts    - Extra attempts after a rejected list fetch
  api.retry.delay_ms        - Delay between those attempts
  cache.project_ttl_seconds - Freshness window for single-project fetches
  cache.persist_list        - Keep a durable copy of the listing (true/false)
  tui.theme                 - Dashboard theme (default, light)
  tui.page_size             - Projects per page in the list view
  tui.show_spinner          - Show the loading spinner (true/false)
  logging.enabled           - Write a log file (true/false)
  logging.level             - debug, info, warn, error
  paths.state_dir           - Directory for session and cache state`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/showcase/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	fmt.Println("Current configuration:")
	fmt.Println()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Config file: (none - using defaults)\n")
	}
	fmt.Println()

	fmt.Println("api:")
	fmt.Printf("  base_url: %s\n", cfg.API.BaseURL)
	fmt.Printf("  timeout_seconds: %d\n", cfg.API.TimeoutSeconds)
	fmt.Printf("  retry.max_attempts: %d\n", cfg.API.Retry.MaxAttempts)
	fmt.Printf("  retry.delay_ms: %d\n", cfg.API.Retry.DelayMs)

	fmt.Println("cache:")
	fmt.Printf("  project_ttl_seconds: %d\n", cfg.Cache.ProjectTTLSeconds)
	fmt.Printf("  persist_list: %v\n", cfg.Cache.PersistList)

	fmt.Println("tui:")
	fmt.Printf("  theme: %s\n", cfg.TUI.Theme)
	fmt.Printf("  page_size: %d\n", cfg.TUI.PageSize)
	fmt.Printf("  show_spinner: %v\n", cfg.TUI.ShowSpinner)

	fmt.Println("logging:")
	fmt.Printf("  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Printf("  level: %s\n", cfg.Logging.Level)

	fmt.Println("paths:")
	fmt.Printf("  state_dir: %s\n", cfg.Paths.ResolveStateDir())

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	// Validate the key exists
	validKeys := map[string]string{
		"api.base_url":              "string",
		"api.timeout_seconds":       "int",
		"api.retry.max_attempts":    "int",
		"api.retry.delay_ms":        "int",
		"cache.project_ttl_seconds": "int",
		"cache.persist_list":        "bool",
		"tui.theme":                 "string",
		"tui.page_size":             "int",
		"tui.show_spinner":          "bool",
		"logging.enabled":           "bool",
		"logging.level":             "string",
		"paths.state_dir":           "string",
	}

	keyType, ok := validKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'showcase config set --help' to see valid keys", key)
	}

	// Validate the value based on type
	var typedValue interface{}
	switch keyType {
	case "string":
		if key == "tui.theme" && !config.IsValidTheme(value) {
			return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(config.ValidThemes(), ", "))
		}
		if key == "logging.level" && !validLogLevel(value) {
			return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(logging.ValidLevels(), ", "))
		}
		typedValue = value
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = value == "true"
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		typedValue = intVal
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set the value in viper
	viper.Set(key, typedValue)

	// Write to config file
	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Set %s = %v\n", key, typedValue)
	fmt.Printf("Config saved to %s\n", configFile)

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'showcase config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Generate a commented config file
	configContent := `# Showcase Configuration

# Backend connection
api:
  # Root of the REST API, including the /api prefix
  base_url: https://innovaiteprojectsbackend.onrender.com/api
  # Per-request HTTP timeout in seconds
  timeout_seconds: 30
  # Recovery from rejected list fetches
  retry:
    max_attempts: 2
    delay_ms: 1000

# Client-side project cache
cache:
  # Freshness window for single-project fetches, in seconds
  project_ttl_seconds: 60
  # Keep a durable copy of the last full listing
  persist_list: true

# Dashboard settings
tui:
  # Color theme: default, light
  theme: default
  # Projects shown per page in the list view
  page_size: 10
  # Show the loading spinner during fetches
  show_spinner: true

# Diagnostic logging
logging:
  enabled: true
  # debug, info, warn, error
  level: info
  max_size_mb: 10
  max_backups: 3

# Local state (session, cache, logs). Empty means the platform default.
paths:
  state_dir: ""
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	fmt.Println(config.ConfigFile())
	return nil
}

func validLogLevel(level string) bool {
	for _, valid := range logging.ValidLevels() {
		if strings.EqualFold(level, valid) {
			return true
		}
	}
	return false
}
