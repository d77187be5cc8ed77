package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jokesdk/pkg/auth"
	"jokesdk/pkg/config"
	errs "jokesdk/pkg/errors"
	"jokesdk/pkg/logger"
	"jokesdk/pkg/ratelimit"
	"jokesdk/pkg/retry"
)

// RequestOptions carries the per-call knobs for a request
type RequestOptions struct {
	// Params become the query string; nil-valued entries are dropped
	Params map[string]interface{}
	// Headers are merged on top of client and auth headers
	Headers map[string]string
	// JSONBody is marshalled and sent as the request body
	JSONBody interface{}
}

// Client issues HTTP requests against one API: it builds URLs, merges
// headers, classifies failures, and retries according to policy. A Client
// is safe for concurrent use; all its configuration is fixed at creation.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	authenticator auth.Authenticator
	userAgent     string
	customHeaders map[string]string
	retryHandler  *retry.Handler
	limiter       ratelimit.Limiter
	log           logger.Logger
}

// New creates a Client from cfg. A nil authenticator means no auth headers
// are added; a nil logger falls back to the global one.
func New(cfg *config.Config, authenticator auth.Authenticator, log logger.Logger) (*Client, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	if authenticator == nil {
		authenticator = auth.NewNoAuth()
	}
	if log == nil {
		log = logger.GetLogger()
	}

	transport := http.DefaultTransport
	if !cfg.Client.VerifySSL {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	retryHandler, err := retry.NewHandler(retryConfigFrom(&cfg.Retry), log)
	if err != nil {
		return nil, err
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		switch strings.ToLower(cfg.RateLimit.Algorithm) {
		case "sliding_window":
			limiter = ratelimit.NewSlidingWindow(cfg.RateLimit.RequestsPerMinute, time.Minute)
		default:
			limiter = ratelimit.PerMinute(cfg.RateLimit.RequestsPerMinute)
		}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.Client.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Client.Timeout,
			Transport: transport,
		},
		authenticator: authenticator,
		userAgent:     cfg.Client.UserAgent,
		customHeaders: cfg.Client.CustomHeaders,
		retryHandler:  retryHandler,
		limiter:       limiter,
		log:           log,
	}, nil
}

// retryConfigFrom maps the configuration surface onto the retry engine
func retryConfigFrom(rc *config.RetryConfig) *retry.Config {
	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = rc.MaxAttempts
	cfg.BaseDelay = rc.BaseDelay
	cfg.MaxDelay = rc.MaxDelay
	cfg.BackoffMultiplier = rc.BackoffMultiplier
	cfg.Jitter = rc.Jitter
	switch strings.ToLower(rc.Strategy) {
	case "fixed":
		cfg.Strategy = retry.StrategyFixed
	case "linear":
		cfg.Strategy = retry.StrategyLinear
	default:
		cfg.Strategy = retry.StrategyExponential
	}
	return cfg
}

// BuildURL resolves path against the client's base URL. Absolute URLs pass
// through untouched; relative paths get exactly one separating slash.
func (c *Client) BuildURL(path string) string {
	if u, err := url.Parse(path); err == nil && u.Scheme != "" {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// PrepareHeaders merges headers in precedence order: built-in defaults,
// then auth headers, then client custom headers, then extra. Later entries
// win on (case-insensitive) key collisions.
func (c *Client) PrepareHeaders(extra map[string]string) http.Header {
	headers := make(http.Header)
	headers.Set("User-Agent", c.userAgent)
	headers.Set("Accept", "application/json")
	headers.Set("Content-Type", "application/json")

	for k, v := range c.authenticator.GetAuthHeaders() {
		headers.Set(k, v)
	}
	for k, v := range c.customHeaders {
		headers.Set(k, v)
	}
	for k, v := range extra {
		headers.Set(k, v)
	}
	return headers
}

// PrepareParams encodes query parameters. A nil map yields nil; nil-valued
// entries are dropped; booleans render in their Python-compatible canonical
// form ("True"/"False") to match the upstream API conventions.
func (c *Client) PrepareParams(params map[string]interface{}) url.Values {
	if params == nil {
		return nil
	}

	values := make(url.Values)
	for key, value := range params {
		switch v := value.(type) {
		case nil:
			continue
		case bool:
			if v {
				values.Set(key, "True")
			} else {
				values.Set(key, "False")
			}
		case string:
			values.Set(key, v)
		default:
			values.Set(key, fmt.Sprintf("%v", v))
		}
	}
	return values
}

// Request executes a single attempt: build the URL, merge headers, send,
// and wrap the result. Non-2xx responses and transport failures come back
// as classified errors; this is the only place classification happens.
func (c *Client) Request(ctx context.Context, method, path string, opts *RequestOptions) (*Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	fullURL := c.BuildURL(path)
	if params := c.PrepareParams(opts.Params); len(params) > 0 {
		fullURL = fullURL + "?" + params.Encode()
	}

	var body io.Reader
	if opts.JSONBody != nil {
		encoded, err := json.Marshal(opts.JSONBody)
		if err != nil {
			return nil, errs.NewValidation(fmt.Sprintf("request body is not serializable: %v", err))
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, errs.NewValidation(fmt.Sprintf("failed to build request: %v", err))
	}
	req.Header = c.PrepareHeaders(opts.Headers)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errs.NewTransport("rate limit wait cancelled", err)
		}
	}

	start := time.Now()
	c.log.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": method,
		"url":    fullURL,
	})

	raw, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.log.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   method,
			"url":      fullURL,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.NewTransport(fmt.Sprintf("request failed: %v", err), err)
	}
	defer raw.Body.Close()

	content, err := io.ReadAll(raw.Body)
	if err != nil {
		return nil, errs.NewTransport(fmt.Sprintf("failed to read response body: %v", err), err)
	}

	resp := newResponse(raw, content, fullURL)

	c.log.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":     method,
		"url":        fullURL,
		"status":     resp.StatusCode,
		"duration":   duration,
		"request_id": resp.RequestID,
	})

	if resp.IsSuccess() {
		return resp, nil
	}

	return nil, c.classifyResponse(path, resp)
}

// classifyResponse maps a non-2xx response onto the error taxonomy
func (c *Client) classifyResponse(path string, resp *Response) *errs.Error {
	retryAfter := parseRetryAfter(resp.Headers)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errs.NewNotFound(path)

	case resp.StatusCode == http.StatusTooManyRequests:
		message := apiMessage(resp)
		if message == "" {
			message = "rate limit exceeded"
		}
		return errs.NewRateLimit(message, retryAfter)

	case resp.IsServerError() && retryAfter > 0:
		message := apiMessage(resp)
		if message == "" {
			message = "service unavailable"
		}
		return errs.NewUnavailable(resp.StatusCode, message, retryAfter)

	default:
		code, message := apiErrorFields(resp)
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return errs.NewAPI(resp.StatusCode, code, message)
	}
}

// apiErrorBody is the error shape the API reports in response bodies
type apiErrorBody struct {
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
}

// apiErrorFields pulls the error code and message out of a structured
// error body, falling back to the raw text when the body does not parse.
func apiErrorFields(resp *Response) (code, message string) {
	var body apiErrorBody
	if err := json.Unmarshal(resp.Body, &body); err == nil && body.Error != "" {
		return body.ErrorCode, body.Error
	}
	return "", strings.TrimSpace(resp.Text)
}

// apiMessage returns the error message from a structured body, if any
func apiMessage(resp *Response) string {
	var body apiErrorBody
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		return body.Error
	}
	return ""
}

// parseRetryAfter reads the Retry-After header as integer seconds
func parseRetryAfter(headers http.Header) time.Duration {
	value := headers.Get("Retry-After")
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// Do performs a request with retries: the whole attempt, from URL building
// through classification, is repeated according to the retry policy.
func (c *Client) Do(ctx context.Context, method, path string, opts *RequestOptions) (*Response, error) {
	name := method + " " + path
	return retry.DoWithResult(ctx, c.retryHandler, name, func() (*Response, error) {
		return c.Request(ctx, method, path, opts)
	})
}

// Get performs a GET request with retries
func (c *Client) Get(ctx context.Context, path string, params map[string]interface{}) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, &RequestOptions{Params: params})
}

// Post performs a POST request with retries
func (c *Client) Post(ctx context.Context, path string, jsonBody interface{}) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, &RequestOptions{JSONBody: jsonBody})
}

// Put performs a PUT request with retries
func (c *Client) Put(ctx context.Context, path string, jsonBody interface{}) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, &RequestOptions{JSONBody: jsonBody})
}

// Patch performs a PATCH request with retries
func (c *Client) Patch(ctx context.Context, path string, jsonBody interface{}) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, &RequestOptions{JSONBody: jsonBody})
}

// Delete performs a DELETE request with retries
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}
