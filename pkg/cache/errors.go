package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnavailable is returned when a remote backend cannot be reached.
	ErrUnavailable = errors.New("cache backend unavailable")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")
)

// BackendError reports a remote backend that failed its connection check.
// It matches both ErrUnavailable and the last driver error.
type BackendError struct {
	Backend  string
	Attempts int
	Err      error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v after %d attempt(s): %v", e.Backend, ErrUnavailable, e.Attempts, e.Err)
}

func (e *BackendError) Unwrap() []error { return []error{ErrUnavailable, e.Err} }

// Connection check budget for remote backends. The delay doubles after
// every failed attempt.
var (
	pingAttempts = 3
	pingDelay    = 250 * time.Millisecond
)

// ping runs check until it succeeds, the attempts run out or ctx ends.
func ping(ctx context.Context, backend string, check func(context.Context) error) error {
	delay := pingDelay
	for n := 1; ; n++ {
		err := check(ctx)
		if err == nil {
			return nil
		}
		if n >= pingAttempts {
			return &BackendError{Backend: backend, Attempts: n, Err: err}
		}
		select {
		case <-ctx.Done():
			return &BackendError{Backend: backend, Attempts: n, Err: ctx.Err()}
		case <-time.After(delay):
			delay *= 2
		}
	}
}
