// Package config defines the configuration model for the relay proxy and
// loads it from YAML files with defaults, validation, and environment
// variable overrides.
//
// The account list is read once at startup; the file watcher only
// hot-reloads operational settings (log level, default backoff) so the
// configured account set stays fixed for the lifetime of the process.
package config
