// Package server wires the relay's HTTP surface: the provider proxy
// routes, the read-only reporting API, health probes, and the metrics
// endpoint, behind a shared middleware chain with graceful shutdown.
package server
