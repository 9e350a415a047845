// Relay is a reverse proxy that fronts multiple AI-model provider accounts.
//
// It rotates requests across a pool of Claude and Gemini accounts, tracks
// per-account rate-limit windows, and exposes a read-only reporting API
// with account status, aggregate statistics, and recent request logs.
//
// Usage:
//
//	# Start the proxy with default configuration
//	relay run
//
//	# Start with a custom configuration file
//	relay run --config /path/to/relay.yaml
//
//	# Validate a configuration file
//	relay validate --config /path/to/relay.yaml
//
//	# Show version information
//	relay version
package main

func main() {
	Execute()
}
