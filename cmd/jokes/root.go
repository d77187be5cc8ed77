package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"jokesdk/pkg/auth"
	"jokesdk/pkg/config"
	"jokesdk/pkg/httpclient"
	"jokesdk/pkg/jokes"
	"jokesdk/pkg/logger"
)

var (
	// Version information
	version   = config.Version
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	profile    string
	timeout    string
	retries    int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jokes",
	Short: "A resilient client for the Sample APIs jokes service",
	Long: `jokes is a command-line client for the Sample APIs jokes service.

Features:
  - Automatic retry with exponential backoff and jitter
  - Typed error reporting (rate limits, outages, missing resources)
  - Secure credential storage using the system keychain
  - Configuration via YAML file, .env, and environment variables`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .jokesdk.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "credential profile to authenticate with")
	rootCmd.PersistentFlags().StringVar(&timeout, "timeout", "", "request timeout (e.g. 10s)")
	rootCmd.PersistentFlags().IntVar(&retries, "retries", 0, "maximum request attempts (1-10)")

	rootCmd.SetVersionTemplate(`jokes {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig assembles configuration from all sources plus command-line
// overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid --timeout: %w", err)
		}
		cfg.Client.Timeout = d
	}
	if retries > 0 {
		cfg.Retry.MaxAttempts = retries
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newJokesClient wires config, credentials, and logging into a jokes client
func newJokesClient() (*jokes.Client, logger.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.NewConsole(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}

	authenticator := auth.Authenticator(auth.NewNoAuth())
	if profile != "" {
		manager, err := auth.NewManager()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize credential manager: %w", err)
		}
		cred, err := manager.Retrieve(profile)
		if err != nil {
			return nil, nil, err
		}
		authenticator = cred.Authenticator()
	}

	httpClient, err := httpclient.New(cfg, authenticator, log)
	if err != nil {
		return nil, nil, err
	}

	return jokes.New(httpClient, log), log, nil
}
