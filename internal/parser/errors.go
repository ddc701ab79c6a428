package parser

import (
	"fmt"
	"strconv"
	"time"
)

// ModelFailureMessage is the message attached to error records when the
// model extraction path cannot produce a usable record.
const ModelFailureMessage = "Failed to extract bill data using AI. Please try again or extract manually."

// defaultRetryAfter applies when a 429 response carries no usable
// Retry-After header.
const defaultRetryAfter = 60 * time.Second

// RateLimitError reports an HTTP 429 from a model provider. RetryAfter
// tells the fallback chain how long to keep the provider's circuit open.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError builds a RateLimitError from the provider's Retry-After
// value in seconds; zero or negative falls back to defaultRetryAfter.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	retryAfter := defaultRetryAfter
	if retryAfterSecs > 0 {
		retryAfter = time.Duration(retryAfterSecs) * time.Second
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: retryAfter,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader reads a Retry-After header value as whole seconds.
// Empty or non-numeric values yield 0, which selects the default delay.
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
