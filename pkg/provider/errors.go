package provider

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// APIError is the provider's error envelope. Rate-limit saturation arrives
// through the same shape with rate_limit_reached set, or with "limit"
// somewhere in the message text on older provider versions.
type APIError struct {
	StatusCode       int        `json:"-"`
	Message          string     `json:"error"`
	RateLimitReached bool       `json:"rate_limit_reached,omitempty"`
	RateLimitType    string     `json:"rate_limit_type,omitempty"`
	CurrentCount     int        `json:"current_count,omitempty"`
	MaxLimit         int        `json:"max_limit,omitempty"`
	ResetAt          *time.Time `json:"reset_at,omitempty"`
	PausedUntil      *time.Time `json:"paused_until,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider error (status %d)", e.StatusCode)
}

// IsRateLimit reports whether this error signals a rate condition
func (e *APIError) IsRateLimit() bool {
	if e.RateLimitReached || e.StatusCode == 429 {
		return true
	}
	return strings.Contains(strings.ToLower(e.Message), "limit")
}

// IsTransient reports whether a retry of the same request may succeed
func (e *APIError) IsTransient() bool {
	if e.IsRateLimit() {
		return false
	}
	return e.StatusCode >= 500 || e.StatusCode == 408
}

// AsAPIError unwraps an *APIError if err carries one
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsTransient classifies any fetch error. Plain transport errors (connection
// reset, timeouts) are retryable; provider 4xx responses are not.
func IsTransient(err error) bool {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.IsTransient()
	}
	// Network-level failures without a provider response
	return err != nil
}
