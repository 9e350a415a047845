package monitor

import (
	"time"

	"relay-hq/relay/pkg/accounts"
)

// Outcome is the result classification of one proxied request. Outcomes
// are transient: the monitor folds them into its counters and log ring and
// does not retain the original value. JSON shaping is the reporting
// layer's concern, not this package's.
type Outcome struct {
	// Timestamp is when the upstream call completed.
	Timestamp time.Time

	// RequestID correlates the outcome with proxy logs.
	RequestID string

	// Provider is the upstream service the request was routed to.
	Provider accounts.Provider

	// AccountID is the account the request was proxied through. Empty if
	// no account could be selected.
	AccountID string

	// Succeeded is true when the upstream call completed successfully.
	Succeeded bool

	// StatusCode is the upstream HTTP status, 0 on transport failure.
	StatusCode int

	// Latency is the duration of the upstream call.
	Latency time.Duration
}

// LogEntry is an immutable snapshot of a recorded outcome.
type LogEntry = Outcome

// Stats is a consistent snapshot of the aggregate request counters.
// TotalRequests always equals SuccessCount + ErrorCount.
type Stats struct {
	TotalRequests uint64
	SuccessCount  uint64
	ErrorCount    uint64
}
