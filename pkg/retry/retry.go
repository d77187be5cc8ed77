package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	errs "jokesdk/pkg/errors"
	"jokesdk/pkg/logger"
)

// Operation is a function that performs an operation that might need retrying
type Operation func() error

// OperationWithResult is a function that returns a result and might need retrying
type OperationWithResult[T any] func() (T, error)

// Handler decides whether a failed attempt is retried and how long to wait
// before the next one. A Handler is immutable and safe for concurrent use.
type Handler struct {
	config *Config
	log    logger.Logger
	// rng yields values in [0,1); injectable so jitter is testable
	rng func() float64
}

// NewHandler validates cfg and builds a Handler around it
func NewHandler(cfg *Config, log logger.Logger) (*Handler, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retry config: %w", err)
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Handler{config: cfg, log: log, rng: rand.Float64}, nil
}

// WithRand returns a Handler using rng as its randomness source
func (h *Handler) WithRand(rng func() float64) *Handler {
	return &Handler{config: h.config, log: h.log, rng: rng}
}

// ShouldRetry reports whether another attempt should be made. attempt counts
// from 1 for the first try. Exactly one of statusCode (0 meaning absent) and
// err (nil meaning absent) is expected; with both absent there is nothing to
// base a retry on and the answer is no.
func (h *Handler) ShouldRetry(attempt int, statusCode int, err error) bool {
	if attempt >= h.config.MaxAttempts {
		return false
	}
	if statusCode > 0 {
		if _, ok := h.config.RetryableStatusCodes[statusCode]; ok {
			return true
		}
	}
	if err != nil {
		if _, ok := h.config.RetryableKinds[errs.KindOf(err)]; ok {
			return true
		}
	}
	return false
}

// RetryDelay computes how long to wait after the given attempt failed.
// A Retry-After hint carried by err overrides the computed delay entirely
// and is not clamped; the server knows better than the backoff curve.
func (h *Handler) RetryDelay(attempt int, err error) time.Duration {
	if hint := errs.RetryAfterOf(err); hint > 0 {
		return hint
	}

	var delay time.Duration
	switch h.config.Strategy {
	case StrategyFixed:
		delay = h.config.BaseDelay
	case StrategyLinear:
		delay = h.config.BaseDelay * time.Duration(attempt)
	case StrategyExponential:
		d := float64(h.config.BaseDelay) * math.Pow(h.config.BackoffMultiplier, float64(attempt-1))
		if d > float64(math.MaxInt64) {
			d = float64(h.config.MaxDelay)
		}
		delay = time.Duration(d)
	}

	if delay > h.config.MaxDelay {
		delay = h.config.MaxDelay
	}

	if h.config.Jitter && delay > 0 {
		// Uniform in [delay/2, delay): keeps retries spread out without
		// collapsing the wait to zero.
		half := float64(delay) / 2
		delay = time.Duration(half + h.rng()*half)
	}

	return delay
}

// Do runs op until it succeeds, the failure is not retryable, or attempts
// are exhausted. The last failure is returned unchanged so callers can
// inspect its status or Retry-After hint. name labels log entries only.
func (h *Handler) Do(ctx context.Context, name string, op Operation) error {
	var lastErr error

	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil {
			if attempt > 1 {
				h.log.DebugWithFields("operation succeeded after retry", map[string]interface{}{
					"operation": name,
					"attempt":   attempt,
				})
			}
			return nil
		}
		lastErr = err

		statusCode := 0
		var classified *errs.Error
		if errors.As(err, &classified) {
			statusCode = classified.StatusCode
		}

		if !h.ShouldRetry(attempt, statusCode, err) {
			if attempt >= h.config.MaxAttempts {
				h.log.WarnWithFields("retry attempts exhausted", map[string]interface{}{
					"operation":  name,
					"attempts":   attempt,
					"last_error": lastErr.Error(),
				})
			} else {
				h.log.DebugWithFields("error is not retryable", map[string]interface{}{
					"operation": name,
					"error":     lastErr.Error(),
				})
			}
			return lastErr
		}

		delay := h.RetryDelay(attempt, err)
		h.log.WarnWithFields("retrying operation", map[string]interface{}{
			"operation":    name,
			"attempt":      attempt,
			"max_attempts": h.config.MaxAttempts,
			"delay":        delay,
			"error":        err.Error(),
		})

		if err := Wait(ctx, delay); err != nil {
			return fmt.Errorf("retry of %s cancelled: %w", name, err)
		}
	}
}

// DoWithResult runs op with retry logic and returns its result
func DoWithResult[T any](ctx context.Context, h *Handler, name string, op OperationWithResult[T]) (T, error) {
	var result T
	err := h.Do(ctx, name, func() error {
		var opErr error
		result, opErr = op()
		return opErr
	})
	return result, err
}

// Wait blocks for delay or until ctx is done, whichever comes first
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
