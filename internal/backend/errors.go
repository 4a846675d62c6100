package backend

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"docsummary/internal/domain"
)

// FailureKind classifies a backend failure.
type FailureKind string

const (
	// KindAuthMissing means the backend credential is not configured.
	KindAuthMissing FailureKind = "auth_missing"
	// KindTransport covers network faults and non-2xx vendor responses.
	KindTransport FailureKind = "transport_error"
	// KindEmptyResponse means the vendor returned no usable text. Adapters
	// convert it to domain.NoSummaryPlaceholder instead of returning it.
	KindEmptyResponse FailureKind = "empty_response"
)

// Error is the typed failure returned by backend adapters.
type Error struct {
	Kind       FailureKind
	Provider   domain.ModelChoice
	Err        error
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s %s (retry after %s): %v", e.Provider, e.Kind, e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewAuthMissingError reports an unconfigured credential.
func NewAuthMissingError(provider domain.ModelChoice) *Error {
	return &Error{Kind: KindAuthMissing, Provider: provider, Err: domain.ErrMissingAPIKey}
}

// NewTransportError wraps a transport-level fault.
func NewTransportError(provider domain.ModelChoice, err error) *Error {
	return &Error{Kind: KindTransport, Provider: provider, Err: err}
}

// NewRateLimitError is a transport error carrying the vendor's Retry-After hint.
// Requests are never retried; the hint is surfaced in the error message only.
func NewRateLimitError(provider domain.ModelChoice, err error, retryAfterSecs int) *Error {
	e := NewTransportError(provider, err)
	if retryAfterSecs > 0 {
		e.RetryAfter = time.Duration(retryAfterSecs) * time.Second
	}
	return e
}

// NewEmptyResponseError reports a response without usable text.
func NewEmptyResponseError(provider domain.ModelChoice, reason string) *Error {
	return &Error{Kind: KindEmptyResponse, Provider: provider, Err: errors.New(reason)}
}

// KindOf returns the failure kind of err, or "" if err is not a *Error.
func KindOf(err error) FailureKind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// IsUnavailable reports whether err means the requested backend cannot be used
// at all: an unknown model choice or a missing credential.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, domain.ErrInvalidModelChoice) || KindOf(err) == KindAuthMissing
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

// Truncate shortens vendor payloads quoted in error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
