// Package pool implements rate-limit-aware account selection on top of the
// account registry.
//
// The Manager rotates round-robin through the eligible accounts of a
// provider so that load spreads across the pool instead of hammering one
// account to its limit while others sit idle. Eligibility is recomputed on
// every call: rate-limit windows are cleared lazily as they expire, and the
// eligible set may shrink or grow between calls.
//
// Exhaustion is an explicit result, not a failure: when every account for a
// provider is inside an active rate-limit window, SelectAccount returns
// ErrNoEligibleAccount and the caller decides whether to wait, retry
// another provider, or fail the inbound request.
package pool
