package proxy

import (
	"errors"
	"fmt"
)

// ErrUpstreamExhausted is returned when every account the router was
// allowed to try was rate limited or failed.
var ErrUpstreamExhausted = errors.New("upstream accounts exhausted")

// UpstreamExhaustedError carries detail about a request that ran out of
// accounts to try.
type UpstreamExhaustedError struct {
	// Provider is the provider the request targeted.
	Provider string

	// Attempts is the number of accounts tried before giving up.
	Attempts int

	// LastError is the error from the final attempt, nil when no account
	// could even be selected.
	LastError error
}

// Error implements the error interface.
func (e *UpstreamExhaustedError) Error() string {
	if e.LastError == nil {
		return fmt.Sprintf("no account available for provider %q", e.Provider)
	}
	return fmt.Sprintf("all %d account attempts failed for provider %q (last error: %v)",
		e.Attempts, e.Provider, e.LastError)
}

// Is implements error matching for errors.Is().
func (e *UpstreamExhaustedError) Is(target error) bool {
	return target == ErrUpstreamExhausted
}

// Unwrap returns the wrapped error for error chain traversal.
func (e *UpstreamExhaustedError) Unwrap() error {
	return e.LastError
}
