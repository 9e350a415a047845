// Package proxy forwards inbound requests to an upstream AI provider
// through an account chosen by the pool, classifies the result, and feeds
// the outcome back into the monitor and the pool's rate-limit state.
//
// The proxy owns error classification only: what counts as success, error,
// or a throttle signal. It does not translate provider payloads; request
// and response bodies pass through untouched.
package proxy
