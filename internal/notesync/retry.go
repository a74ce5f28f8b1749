package notesync

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/abhisek/docdrill/internal/api"
)

// RetryConfig configures retries of a background save.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns the retry policy used for note saves.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     5 * time.Second,
		Multiplier:  2.0,
	}
}

// shouldRetry reports whether a failed save is worth another attempt.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	// The service rejected the request itself; resending will not help.
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError ||
			apiErr.StatusCode == http.StatusTooManyRequests ||
			apiErr.StatusCode == http.StatusRequestTimeout
	}

	// Network failures and per-attempt timeouts are transient.
	return true
}

// backoff computes the wait before the attempt following attempt.
func (r RetryConfig) backoff(attempt int) time.Duration {
	wait := float64(r.InitialWait) * math.Pow(r.Multiplier, float64(attempt))
	if wait > float64(r.MaxWait) {
		wait = float64(r.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
