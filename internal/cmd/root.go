// Package cmd wires the Showcase command-line surface: authentication,
// project and comment management, and the interactive dashboard.
package cmd

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TriAzz/showcase/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "showcase",
	Short: "Terminal client for the InnovAIte project showcase",
	Long: `Showcase is a terminal client for the InnovAIte project showcase.
It signs in against the showcase backend, keeps a local cache of the
project listing, and offers both one-shot commands and an interactive
dashboard for browsing and managing projects.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/showcase/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// A .env in the working directory can override the backend URL during
	// development; absence is not an error
	_ = godotenv.Load()

	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/showcase")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SHOWCASE")
	// Replace dots with underscores for nested keys in env vars
	// e.g., SHOWCASE_API_BASE_URL for api.base_url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
