package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"jokesdk/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (JOKESDK_*)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd creates a starter configuration file
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as '.jokesdk.yaml' in the current directory unless a
different path is given with the --config flag.`,
	RunE: runConfigInit,
}

// configShowCmd prints the effective configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Show the configuration after merging all sources.`,
	RunE:  runConfigShow,
}

// configValidateCmd checks a configuration file
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Validate the configuration for syntax errors and invalid values.

This checks YAML syntax, value ranges, and the retry strategy.`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

const exampleConfig = `# jokes client configuration
#
# Every option can also be set through JOKESDK_* environment variables,
# e.g. JOKESDK_BASE_URL, JOKESDK_MAX_ATTEMPTS, JOKESDK_LOG_LEVEL.

client:
  base_url: "https://api.sampleapis.com"
  timeout: 30s
  user_agent: "jokesdk/` + config.Version + `"
  verify_ssl: true

retry:
  # Attempts including the first try. Range: 1-10.
  max_attempts: 3
  base_delay: 1s
  max_delay: 60s
  # fixed, linear, or exponential
  strategy: exponential
  backoff_multiplier: 2.0
  jitter: true

rate_limit:
  enabled: false
  requests_per_minute: 60
  # token_bucket or sliding_window
  algorithm: token_bucket

logging:
  # debug, info, warn, error, fatal, disabled
  level: warn
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = ".jokesdk.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	if err := os.WriteFile(path, []byte(exampleConfig), 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Printf("Configuration file created: %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}

	fmt.Print(string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	fmt.Println("Configuration is valid.")
	return nil
}
