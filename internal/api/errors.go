// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrNotFound            = errors.New("qbraid api: resource not found")
	ErrUnauthorized        = errors.New("qbraid api: invalid or missing API key")
	ErrUpstreamUnavailable = errors.New("qbraid api: host unreachable or transport failure")
	ErrUpstreamError       = errors.New("qbraid api: internal error (5xx)")
	ErrBadResponse         = errors.New("qbraid api: invalid response format or malformed data")
	ErrTimeout             = errors.New("qbraid api: request timed out")
)

// APIError wraps the sentinel errors with request context.
type APIError struct {
	Sentinel  error
	Operation string
	Status    int
	Body      string
	Err       error // nested lower-level error (e.g. net.Error)
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("qbraid api: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Sentinel
}
