package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "jokesdk/pkg/errors"
	"jokesdk/pkg/logger"
)

func newTestHandler(t *testing.T, cfg *Config) *Handler {
	t.Helper()
	h, err := NewHandler(cfg, logger.NewTestLogger())
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return h
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"zero max attempts", func(c *Config) { c.MaxAttempts = 0 }, true},
		{"negative max attempts", func(c *Config) { c.MaxAttempts = -1 }, true},
		{"max attempts above cap", func(c *Config) { c.MaxAttempts = 20 }, true},
		{"single attempt allowed", func(c *Config) { c.MaxAttempts = 1 }, false},
		{"negative base delay", func(c *Config) { c.BaseDelay = -time.Second }, true},
		{"zero base delay allowed", func(c *Config) { c.BaseDelay = 0 }, false},
		{"max delay below base delay", func(c *Config) { c.MaxDelay = 500 * time.Millisecond }, true},
		{"multiplier of 1", func(c *Config) { c.BackoffMultiplier = 1.0 }, true},
		{"multiplier ignored for fixed", func(c *Config) { c.Strategy = StrategyFixed; c.BackoffMultiplier = 0 }, false},
		{"unknown strategy", func(c *Config) { c.Strategy = "quadratic" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfigMatchesErrorTaxonomy(t *testing.T) {
	cfg := DefaultConfig()

	for code := range cfg.RetryableStatusCodes {
		if !errs.IsRetryableStatusCode(code) {
			t.Errorf("default config retries status %d but the taxonomy does not", code)
		}
	}
	for code := range errs.RetryableStatusCodes() {
		if _, ok := cfg.RetryableStatusCodes[code]; !ok {
			t.Errorf("taxonomy retries status %d but the default config does not", code)
		}
	}

	for kind := range cfg.RetryableKinds {
		if !errs.IsRetryable(kind) {
			t.Errorf("default config retries kind %q but the taxonomy does not", kind)
		}
	}
	for kind := range errs.RetryableKinds() {
		if _, ok := cfg.RetryableKinds[kind]; !ok {
			t.Errorf("taxonomy retries kind %q but the default config does not", kind)
		}
	}
}

func TestShouldRetryStatusCodes(t *testing.T) {
	h := newTestHandler(t, nil)

	tests := []struct {
		statusCode int
		want       bool
	}{
		{429, true},
		{500, true},
		{502, true},
		{503, true},
		{504, true},
		{400, false},
		{404, false},
		{200, false},
	}

	for _, tt := range tests {
		if got := h.ShouldRetry(1, tt.statusCode, nil); got != tt.want {
			t.Errorf("ShouldRetry(1, %d, nil) = %v, want %v", tt.statusCode, got, tt.want)
		}
	}
}

func TestShouldRetryErrorKinds(t *testing.T) {
	h := newTestHandler(t, nil)

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limit", errs.NewRateLimit("slow down", 0), true},
		{"unavailable", errs.NewUnavailable(503, "maintenance", 0), true},
		{"transport", errs.NewTransport("connection refused", nil), true},
		{"validation", errs.NewValidation("empty setup"), false},
		{"not found", errs.NewNotFound("/jokes/1"), false},
		{"parse", errs.NewParse("bad json", nil), false},
		{"plain error", errors.New("who knows"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.ShouldRetry(1, 0, tt.err); got != tt.want {
				t.Errorf("ShouldRetry(1, 0, %v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestShouldRetryAtMaxAttempts(t *testing.T) {
	h := newTestHandler(t, nil) // MaxAttempts = 3

	if h.ShouldRetry(3, 429, nil) {
		t.Error("expected no retry at max attempts")
	}
	if h.ShouldRetry(4, 429, nil) {
		t.Error("expected no retry past max attempts")
	}
	if h.ShouldRetry(3, 0, errs.NewTransport("timeout", nil)) {
		t.Error("expected no retry at max attempts regardless of error kind")
	}
}

func TestShouldRetryNothingToClassify(t *testing.T) {
	h := newTestHandler(t, nil)
	if h.ShouldRetry(1, 0, nil) {
		t.Error("expected false with neither status nor error")
	}
}

func TestRetryDelayFixed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyFixed
	cfg.BaseDelay = 250 * time.Millisecond
	cfg.Jitter = false
	h := newTestHandler(t, cfg)

	for attempt := 1; attempt <= 5; attempt++ {
		if got := h.RetryDelay(attempt, nil); got != 250*time.Millisecond {
			t.Errorf("attempt %d: delay = %v, want 250ms", attempt, got)
		}
	}
}

func TestRetryDelayLinear(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyLinear
	cfg.BaseDelay = 1 * time.Second
	cfg.MaxDelay = 3 * time.Second
	cfg.Jitter = false
	h := newTestHandler(t, cfg)

	want := []time.Duration{1 * time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second}
	for i, expected := range want {
		if got := h.RetryDelay(i+1, nil); got != expected {
			t.Errorf("attempt %d: delay = %v, want %v", i+1, got, expected)
		}
	}
}

func TestRetryDelayExponential(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyExponential
	cfg.BaseDelay = 1 * time.Second
	cfg.BackoffMultiplier = 2.0
	cfg.MaxDelay = 60 * time.Second
	cfg.Jitter = false
	h := newTestHandler(t, cfg)

	want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	for i, expected := range want {
		if got := h.RetryDelay(i+1, nil); got != expected {
			t.Errorf("attempt %d: delay = %v, want %v", i+1, got, expected)
		}
	}
}

// Exponential growth capped at MaxDelay: 1s, 2s, then pinned at 3s.
func TestRetryDelayExponentialClamped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 3
	cfg.Strategy = StrategyExponential
	cfg.BaseDelay = 1 * time.Second
	cfg.BackoffMultiplier = 2.0
	cfg.MaxDelay = 3 * time.Second
	cfg.Jitter = false
	h := newTestHandler(t, cfg)

	want := []time.Duration{1 * time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second}
	for i, expected := range want {
		if got := h.RetryDelay(i+1, nil); got != expected {
			t.Errorf("attempt %d: delay = %v, want %v", i+1, got, expected)
		}
	}
}

func TestRetryDelayServerHintOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseDelay = 1 * time.Second
	cfg.MaxDelay = 2 * time.Second
	cfg.Jitter = false
	h := newTestHandler(t, cfg)

	// The hint wins over the computed delay and is not clamped to MaxDelay.
	err := errs.NewRateLimit("slow down", 5*time.Second)
	if got := h.RetryDelay(1, err); got != 5*time.Second {
		t.Errorf("delay = %v, want 5s from Retry-After hint", got)
	}

	err = errs.NewUnavailable(503, "maintenance", 30*time.Second)
	if got := h.RetryDelay(3, err); got != 30*time.Second {
		t.Errorf("delay = %v, want 30s from Retry-After hint", got)
	}
}

func TestRetryDelayJitterDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyFixed
	cfg.BaseDelay = 1 * time.Second
	cfg.Jitter = true
	h := newTestHandler(t, cfg).WithRand(func() float64 { return 0.5 })

	// With rng pinned at 0.5 the jittered delay is base/2 + 0.5*base/2.
	if got := h.RetryDelay(1, nil); got != 750*time.Millisecond {
		t.Errorf("delay = %v, want 750ms with pinned rng", got)
	}
}

func TestRetryDelayJitterBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyFixed
	cfg.BaseDelay = 1 * time.Second
	cfg.Jitter = true
	h := newTestHandler(t, cfg)

	for i := 0; i < 50; i++ {
		got := h.RetryDelay(1, nil)
		if got < 500*time.Millisecond || got >= 1*time.Second {
			t.Fatalf("jittered delay %v outside [500ms, 1s)", got)
		}
	}
}

func fastConfig(maxAttempts int) *Config {
	cfg := DefaultConfig()
	cfg.MaxAttempts = maxAttempts
	cfg.BaseDelay = time.Millisecond
	cfg.Jitter = false
	return cfg
}

func TestDoSucceedsFirstTry(t *testing.T) {
	h := newTestHandler(t, fastConfig(3))

	calls := 0
	err := h.Do(context.Background(), "test operation", func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Do() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoEventualSuccess(t *testing.T) {
	h := newTestHandler(t, fastConfig(3))

	calls := 0
	var result string
	result, err := DoWithResult(context.Background(), h, "test operation", func() (string, error) {
		calls++
		if calls < 3 {
			return "", errs.NewRateLimit("slow down", 0)
		}
		return "ok", nil
	})
	if err != nil {
		t.Errorf("DoWithResult() error = %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %q, want %q", result, "ok")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	h := newTestHandler(t, fastConfig(3))

	rateLimitErr := errs.NewRateLimit("slow down", 0)
	calls := 0
	err := h.Do(context.Background(), "test operation", func() error {
		calls++
		return rateLimitErr
	})

	// The last failure comes back unchanged, not wrapped.
	if err != rateLimitErr {
		t.Errorf("Do() error = %v, want the original rate limit error", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoNonRetryableFailsImmediately(t *testing.T) {
	h := newTestHandler(t, fastConfig(5))

	validationErr := errs.NewValidation("empty setup")
	calls := 0
	err := h.Do(context.Background(), "test operation", func() error {
		calls++
		return validationErr
	})
	if err != validationErr {
		t.Errorf("Do() error = %v, want the original validation error", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoRetriesAPIErrorByStatus(t *testing.T) {
	h := newTestHandler(t, fastConfig(3))

	// 500 without Retry-After classifies as an API error; its status is in
	// the retryable set so the call is retried anyway.
	calls := 0
	err := h.Do(context.Background(), "test operation", func() error {
		calls++
		return errs.NewAPI(500, "", "internal error")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}

	// A 400 API error is terminal.
	calls = 0
	err = h.Do(context.Background(), "test operation", func() error {
		calls++
		return errs.NewAPI(400, "BAD_REQUEST", "bad request")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoSingleAttemptNeverRetries(t *testing.T) {
	h := newTestHandler(t, fastConfig(1))

	calls := 0
	err := h.Do(context.Background(), "test operation", func() error {
		calls++
		return errs.NewTransport("connection refused", nil)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call with MaxAttempts=1, got %d", calls)
	}
}

func TestDoCancelledDuringWait(t *testing.T) {
	cfg := fastConfig(5)
	cfg.BaseDelay = 10 * time.Second
	cfg.MaxDelay = 10 * time.Second
	h := newTestHandler(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	calls := 0
	start := time.Now()
	err := h.Do(ctx, "test operation", func() error {
		calls++
		return errs.NewTransport("timeout", nil)
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do() error = %v, want deadline exceeded", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", calls)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation took too long: %v", elapsed)
	}
}

func TestWaitZeroDelay(t *testing.T) {
	if err := Wait(context.Background(), 0); err != nil {
		t.Errorf("Wait(0) error = %v", err)
	}
}

func TestNewHandlerRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 0
	if _, err := NewHandler(cfg, logger.NewTestLogger()); err == nil {
		t.Error("expected error for zero max attempts")
	}
}
