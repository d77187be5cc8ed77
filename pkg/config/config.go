package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Version is the SDK version advertised in the default User-Agent
const Version = "1.0.0"

// maxRetryAttempts bounds the retry count accepted from configuration
const maxRetryAttempts = 10

// Config holds all tuning for an SDK client. It is assembled once at
// construction time and treated as immutable afterwards.
type Config struct {
	// Client holds HTTP client settings
	Client ClientConfig `yaml:"client" json:"client"`

	// Retry holds retry/backoff settings
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// RateLimit holds client-side request throttling settings
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Logging holds logging settings
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ClientConfig holds HTTP-level settings
type ClientConfig struct {
	BaseURL       string            `yaml:"base_url" json:"base_url"`
	Timeout       time.Duration     `yaml:"timeout" json:"timeout"`
	UserAgent     string            `yaml:"user_agent" json:"user_agent"`
	CustomHeaders map[string]string `yaml:"custom_headers" json:"custom_headers"`
	VerifySSL     bool              `yaml:"verify_ssl" json:"verify_ssl"`
}

// RetryConfig holds retry/backoff settings
type RetryConfig struct {
	MaxAttempts       int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay         time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay          time.Duration `yaml:"max_delay" json:"max_delay"`
	Strategy          string        `yaml:"strategy" json:"strategy"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier" json:"backoff_multiplier"`
	Jitter            bool          `yaml:"jitter" json:"jitter"`
}

// RateLimitConfig holds client-side throttling settings
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" json:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute" json:"requests_per_minute"`
	// Algorithm selects the limiter: token_bucket (refill per window) or
	// sliding_window (per-request timestamps)
	Algorithm string `yaml:"algorithm" json:"algorithm"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			BaseURL:       "https://api.sampleapis.com",
			Timeout:       30 * time.Second,
			UserAgent:     "jokesdk/" + Version,
			CustomHeaders: map[string]string{},
			VerifySSL:     true,
		},
		Retry: RetryConfig{
			MaxAttempts:       3,
			BaseDelay:         1 * time.Second,
			MaxDelay:          60 * time.Second,
			Strategy:          "exponential",
			BackoffMultiplier: 2.0,
			Jitter:            true,
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerMinute: 60,
			Algorithm:         "token_bucket",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LoadFromEnv overrides configuration from JOKESDK_* environment variables
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("JOKESDK_BASE_URL"); baseURL != "" {
		c.Client.BaseURL = baseURL
	}
	if userAgent := os.Getenv("JOKESDK_USER_AGENT"); userAgent != "" {
		c.Client.UserAgent = userAgent
	}
	if timeout := os.Getenv("JOKESDK_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid JOKESDK_TIMEOUT: %w", err)
		}
		c.Client.Timeout = d
	}
	if verify := os.Getenv("JOKESDK_VERIFY_SSL"); verify != "" {
		c.Client.VerifySSL = strings.ToLower(verify) != "false"
	}
	if attempts := os.Getenv("JOKESDK_MAX_ATTEMPTS"); attempts != "" {
		val, err := strconv.Atoi(attempts)
		if err != nil {
			return fmt.Errorf("invalid JOKESDK_MAX_ATTEMPTS: %w", err)
		}
		c.Retry.MaxAttempts = val
	}
	if delay := os.Getenv("JOKESDK_BASE_DELAY"); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("invalid JOKESDK_BASE_DELAY: %w", err)
		}
		c.Retry.BaseDelay = d
	}
	if strategy := os.Getenv("JOKESDK_RETRY_STRATEGY"); strategy != "" {
		c.Retry.Strategy = strategy
	}
	if jitter := os.Getenv("JOKESDK_JITTER"); jitter != "" {
		c.Retry.Jitter = strings.ToLower(jitter) != "false"
	}
	if logLevel := os.Getenv("JOKESDK_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".jokesdk.yaml",
		".jokesdk.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "jokesdk", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "jokesdk", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Client.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required"))
	}
	if c.Client.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}

	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, errors.New("max attempts must be at least 1"))
	}
	if c.Retry.MaxAttempts > maxRetryAttempts {
		errs = append(errs, fmt.Errorf("max attempts must not exceed %d", maxRetryAttempts))
	}
	if c.Retry.BaseDelay < 0 {
		errs = append(errs, errors.New("base delay cannot be negative"))
	}
	if c.Retry.MaxDelay < c.Retry.BaseDelay {
		errs = append(errs, errors.New("max delay cannot be below base delay"))
	}
	switch strings.ToLower(c.Retry.Strategy) {
	case "fixed", "linear":
	case "exponential":
		if c.Retry.BackoffMultiplier <= 1 {
			errs = append(errs, errors.New("backoff multiplier must be above 1"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid retry strategy: %q", c.Retry.Strategy))
	}

	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	switch strings.ToLower(c.RateLimit.Algorithm) {
	case "", "token_bucket", "sliding_window":
	default:
		errs = append(errs, fmt.Errorf("invalid rate limit algorithm: %q", c.RateLimit.Algorithm))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "warning": true,
		"error": true, "fatal": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: environment variables > .env file > config file > defaults.
func Load(configPath string) (*Config, error) {
	// Load .env files if present; missing files are fine
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".jokesdk.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
