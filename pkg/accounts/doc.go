// Package accounts holds the set of configured provider accounts and their
// live rate-limit state.
//
// The Registry is the single writer of account state. Accounts are created
// once at process start from configuration and are never removed at runtime.
// Each account record carries its own lock, so concurrent operations on
// different accounts never contend.
//
// Rate-limit windows are merged with max semantics: a fresh throttle signal
// may extend an active window but never shorten it. Expiry is lazy: windows
// are cleared on the next eligibility check rather than by a background
// timer, so "is limited" is only as fresh as the last check.
package accounts
