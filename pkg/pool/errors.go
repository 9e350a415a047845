package pool

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoEligibleAccount is returned by SelectAccount when no account for the
// requested provider can currently be used. Check with errors.Is().
var ErrNoEligibleAccount = errors.New("no eligible account available")

// NoEligibleAccountError carries detail about an exhausted provider pool.
type NoEligibleAccountError struct {
	// Provider is the provider whose pool was exhausted.
	Provider string

	// Configured is the number of accounts configured for the provider.
	// Zero means the provider has no accounts at all.
	Configured int

	// RetryIn is the time until the earliest rate-limit window ends.
	// Zero when Configured is zero, since no window will ever expire.
	RetryIn time.Duration
}

// Error implements the error interface.
func (e *NoEligibleAccountError) Error() string {
	if e.Configured == 0 {
		return fmt.Sprintf("no accounts configured for provider %q", e.Provider)
	}
	return fmt.Sprintf("all %d accounts for provider %q are rate limited (earliest reset in %s)",
		e.Configured, e.Provider, e.RetryIn)
}

// Is implements error matching for errors.Is().
func (e *NoEligibleAccountError) Is(target error) bool {
	return target == ErrNoEligibleAccount
}
