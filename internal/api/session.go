// SPDX-License-Identifier: MIT

// Package api implements the HTTP session against the qBraid platform API:
// authentication, retries with backoff, client-side rate limiting and a
// circuit breaker in front of the upstream.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/qbraid/qbraid-go/internal/config"
	"github.com/qbraid/qbraid-go/internal/log"
	"github.com/qbraid/qbraid-go/internal/metrics"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	backoffBase       = 250 * time.Millisecond
	maxErrorBody      = 512
)

// Session is a client for the qBraid platform API. It is safe for
// concurrent use.
type Session struct {
	base       string
	key        string
	http       *http.Client
	limiter    *rate.Limiter
	breaker    *CircuitBreaker
	logger     zerolog.Logger
	maxRetries int
}

// Option configures a Session.
type Option func(*Session)

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(c *http.Client) Option {
	return func(s *Session) { s.http = c }
}

// WithRateLimit overrides the client-side request rate limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Session) { s.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithBreaker replaces the circuit breaker.
func WithBreaker(cb *CircuitBreaker) Option {
	return func(s *Session) { s.breaker = cb }
}

// WithMaxRetries overrides the retry budget for retryable failures.
func WithMaxRetries(n int) Option {
	return func(s *Session) { s.maxRetries = n }
}

// NewSession builds a session from resolved configuration.
func NewSession(cfg config.Config, opts ...Option) *Session {
	s := &Session{
		base: strings.TrimRight(cfg.APIURL, "/"),
		key:  cfg.APIKey,
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter:    rate.NewLimiter(rate.Limit(10), 20),
		breaker:    NewCircuitBreaker(5, 30*time.Second),
		logger:     log.WithComponent("api"),
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// get issues a GET request and decodes the JSON response into out.
func (s *Session) get(ctx context.Context, op, path string, out any) error {
	return s.do(ctx, op, http.MethodGet, path, nil, out)
}

// post issues a POST request with a JSON body.
func (s *Session) post(ctx context.Context, op, path string, body, out any) error {
	return s.do(ctx, op, http.MethodPost, path, body, out)
}

// put issues a PUT request with a JSON body.
func (s *Session) put(ctx context.Context, op, path string, body, out any) error {
	return s.do(ctx, op, http.MethodPut, path, body, out)
}

// del issues a DELETE request.
func (s *Session) del(ctx context.Context, op, path string, out any) error {
	return s.do(ctx, op, http.MethodDelete, path, nil, out)
}

func (s *Session) do(ctx context.Context, op, method, path string, body, out any) error {
	start := time.Now()
	err := s.breaker.Execute(func() error {
		return s.attempt(ctx, op, method, path, body, out)
	})
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordAPIRequest(op, outcome, time.Since(start))
	return err
}

func (s *Session) attempt(ctx context.Context, op, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return &APIError{Sentinel: ErrBadResponse, Operation: op, Err: err}
		}
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := backoffBase << (attempt - 1)
			s.logger.Debug().
				Str("operation", op).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("retrying request")
			select {
			case <-ctx.Done():
				return &APIError{Sentinel: ErrTimeout, Operation: op, Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return &APIError{Sentinel: ErrTimeout, Operation: op, Err: err}
		}

		retryable, err := s.roundTrip(ctx, op, method, path, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}
	return lastErr
}

// roundTrip performs one HTTP exchange. The bool reports whether the
// failure is retryable.
func (s *Session) roundTrip(ctx context.Context, op, method, path string, payload []byte, out any) (bool, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.base+path, reader)
	if err != nil {
		return false, &APIError{Sentinel: ErrBadResponse, Operation: op, Err: err}
	}
	req.Header.Set("api-key", s.key)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := s.http.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return true, &APIError{Sentinel: ErrTimeout, Operation: op, Err: err}
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false, &APIError{Sentinel: ErrTimeout, Operation: op, Err: err}
		}
		return true, &APIError{Sentinel: ErrUpstreamUnavailable, Operation: op, Err: err}
	}
	defer res.Body.Close() //nolint:errcheck

	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		if out == nil {
			_, _ = io.Copy(io.Discard, res.Body)
			return false, nil
		}
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return false, &APIError{Sentinel: ErrBadResponse, Operation: op, Status: res.StatusCode, Err: err}
		}
		return false, nil

	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return false, &APIError{Sentinel: ErrUnauthorized, Operation: op, Status: res.StatusCode, Body: snippet(res.Body)}

	case res.StatusCode == http.StatusNotFound:
		return false, &APIError{Sentinel: ErrNotFound, Operation: op, Status: res.StatusCode}

	case res.StatusCode >= 500:
		return true, &APIError{Sentinel: ErrUpstreamError, Operation: op, Status: res.StatusCode, Body: snippet(res.Body)}

	default:
		return false, &APIError{Sentinel: ErrBadResponse, Operation: op, Status: res.StatusCode, Body: snippet(res.Body)}
	}
}

func snippet(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(data))
}

// Authenticated reports whether the session carries an API key.
func (s *Session) Authenticated() bool {
	return s.key != ""
}

// BaseURL returns the configured API base URL.
func (s *Session) BaseURL() string {
	return s.base
}

func (s *Session) String() string {
	return fmt.Sprintf("Session(%s)", s.base)
}
