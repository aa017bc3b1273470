// Package client calls a running sociomatch server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/codeGROOVE-dev/sociomatch/pkg/profile"
	"github.com/codeGROOVE-dev/sociomatch/pkg/request"
)

// HTTPError represents an HTTP error response.
type HTTPError struct {
	URL        string
	Message    string
	Problems   []string
	StatusCode int
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if len(e.Problems) > 0 {
		msg += " (" + strings.Join(e.Problems, "; ") + ")"
	}
	return msg
}

// Option configures a Client.
type Option func(*config)

type config struct {
	httpClient *http.Client
	logger     *slog.Logger
	attempts   uint
	delay      time.Duration
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) { cfg.httpClient = c }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = logger }
}

// WithRetry sets the number of attempts and the base delay between them.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(cfg *config) {
		cfg.attempts = attempts
		cfg.delay = delay
	}
}

// Client talks to the HTTP API.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	attempts   uint
	delay      time.Duration
}

// New creates a Client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	cfg := &config{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		attempts:   3,
		delay:      200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Client{
		httpClient: cfg.httpClient,
		logger:     cfg.logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		attempts:   max(cfg.attempts, 1),
		delay:      cfg.delay,
	}
}

// Match ranks candidate profiles for a person on the server.
func (c *Client) Match(ctx context.Context, req *request.Match) ([]profile.MatchResult, error) {
	var resp struct {
		Results []profile.MatchResult `json:"results"`
	}
	if err := c.post(ctx, "/v1/match", req, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []profile.MatchResult{}
	}
	return resp.Results, nil
}

// Score scores a single candidate on the server.
func (c *Client) Score(ctx context.Context, req *request.Score) (profile.MatchResult, error) {
	var result profile.MatchResult
	err := c.post(ctx, "/v1/score", req, &result)
	return result, err
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	endpoint := c.baseURL + path
	if _, err := url.Parse(endpoint); err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	data, err := retry.DoWithData(
		func() ([]byte, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Accept", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close() //nolint:errcheck // intentional

			respBody, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, err
			}
			if resp.StatusCode != http.StatusOK {
				return nil, newHTTPError(endpoint, resp.StatusCode, respBody)
			}
			return respBody, nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.MaxJitter(max(c.delay/2, time.Millisecond)),
		retry.RetryIf(isRetryableError),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying request", "attempt", n+1, "url", endpoint, "error", err)
		}),
	)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func newHTTPError(endpoint string, status int, body []byte) *HTTPError {
	e := &HTTPError{URL: endpoint, StatusCode: status}
	var payload struct {
		Error    string   `json:"error"`
		Problems []string `json:"problems"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Message = payload.Error
		e.Problems = payload.Problems
	}
	return e
}

// isRetryableError returns true for transient errors that should be retried.
func isRetryableError(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false // 4xx errors (except 429) are permanent
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// Network errors are retryable
	return true
}
