package retry

import (
	"fmt"
	"time"

	errs "jokesdk/pkg/errors"
)

// Strategy selects how the delay between attempts grows
type Strategy string

const (
	// StrategyFixed waits the base delay between every attempt
	StrategyFixed Strategy = "fixed"
	// StrategyLinear waits base delay multiplied by the attempt number
	StrategyLinear Strategy = "linear"
	// StrategyExponential waits base delay multiplied by multiplier^(attempt-1)
	StrategyExponential Strategy = "exponential"
)

// maxAttemptsCap bounds runaway retry configurations
const maxAttemptsCap = 10

// Config holds retry tuning. It is immutable once handed to a Handler.
type Config struct {
	// MaxAttempts is the total number of tries including the first one
	MaxAttempts int
	// BaseDelay is the starting delay; zero means retry immediately
	BaseDelay time.Duration
	// MaxDelay caps the computed delay
	MaxDelay time.Duration
	// Strategy picks the delay growth curve
	Strategy Strategy
	// BackoffMultiplier is the growth factor for StrategyExponential
	BackoffMultiplier float64
	// Jitter randomizes computed delays to avoid synchronized retries
	Jitter bool
	// RetryableStatusCodes are HTTP statuses worth retrying
	RetryableStatusCodes map[int]struct{}
	// RetryableKinds are error kinds worth retrying
	RetryableKinds map[errs.Kind]struct{}
}

// DefaultConfig returns a retry configuration with sensible defaults.
// The retryable sets come from the error taxonomy so the engine and the
// package-level IsRetryable helpers always agree.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:          3,
		BaseDelay:            1 * time.Second,
		MaxDelay:             60 * time.Second,
		Strategy:             StrategyExponential,
		BackoffMultiplier:    2.0,
		Jitter:               true,
		RetryableStatusCodes: errs.RetryableStatusCodes(),
		RetryableKinds:       errs.RetryableKinds(),
	}
}

// Validate rejects configurations that would misbehave at runtime.
// MaxAttempts below 1 is an error rather than a silent no-retry mode.
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.MaxAttempts > maxAttemptsCap {
		return fmt.Errorf("max attempts must be at most %d, got %d", maxAttemptsCap, c.MaxAttempts)
	}
	if c.BaseDelay < 0 {
		return fmt.Errorf("base delay must not be negative, got %v", c.BaseDelay)
	}
	if c.MaxDelay < c.BaseDelay {
		return fmt.Errorf("max delay %v must not be below base delay %v", c.MaxDelay, c.BaseDelay)
	}
	switch c.Strategy {
	case StrategyFixed, StrategyLinear:
	case StrategyExponential:
		if c.BackoffMultiplier <= 1 {
			return fmt.Errorf("backoff multiplier must be above 1, got %g", c.BackoffMultiplier)
		}
	default:
		return fmt.Errorf("unknown retry strategy: %q", c.Strategy)
	}
	return nil
}
