package sportsdb

import (
	"context"
	"errors"
	"fmt"
)

// StatusError is a permanent failure reported by the remote API. Anything
// that is not a 2xx and not a 429 surfaces as one of these with no retry.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sportsdb: %s returned status %d", e.Endpoint, e.Code)
}

// isTransient reports whether a transport error is worth retrying.
// Context cancellation is never transient: the caller asked us to stop.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// Everything else out of the transport (connection refused, reset,
	// timeout) is worth another attempt.
	return true
}
