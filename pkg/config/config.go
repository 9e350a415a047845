package config

import "time"

// Config is the root configuration structure for the relay proxy.
type Config struct {
	// Server contains HTTP server configuration including listen address
	// and timeouts.
	Server ServerConfig `yaml:"server"`

	// Accounts is the list of provider accounts available to the proxy.
	// The list is fixed at startup; it is never reloaded at runtime.
	Accounts []AccountConfig `yaml:"accounts"`

	// Upstream contains the base URLs and timeout for upstream provider
	// calls.
	Upstream UpstreamConfig `yaml:"upstream"`

	// Pool contains account selection settings.
	Pool PoolConfig `yaml:"pool"`

	// Monitor contains request monitoring settings.
	Monitor MonitorConfig `yaml:"monitor"`

	// Telemetry contains logging and metrics settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:3456"
	ListenAddress string `yaml:"listen_address"`

	// BaseURL is the externally visible base URL reported by /api/status.
	// Default: "http://" + ListenAddress
	BaseURL string `yaml:"base_url"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response
	// writes. Default: 120s (upstream model calls can be slow)
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown. Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AccountConfig describes one provider account.
type AccountConfig struct {
	// ID is the stable identifier for the account. Required, unique.
	ID string `yaml:"id"`

	// Email is the human-readable identity of the account.
	Email string `yaml:"email"`

	// Provider names the upstream service: "claude" or "gemini".
	// Unrecognized values are kept but never routed to.
	Provider string `yaml:"provider"`

	// APIKey is the credential forwarded on upstream calls.
	APIKey string `yaml:"api_key"`
}

// UpstreamConfig contains settings for upstream provider calls.
type UpstreamConfig struct {
	// ClaudeBaseURL is the base URL for Claude requests.
	// Default: "https://api.anthropic.com"
	ClaudeBaseURL string `yaml:"claude_base_url"`

	// GeminiBaseURL is the base URL for Gemini requests.
	// Default: "https://generativelanguage.googleapis.com"
	GeminiBaseURL string `yaml:"gemini_base_url"`

	// Timeout is the per-request upstream timeout.
	// Default: 120s
	Timeout time.Duration `yaml:"timeout"`

	// MaxAttempts bounds how many accounts one inbound request may try
	// before giving up. Zero means try every configured account once.
	// Default: 0
	MaxAttempts int `yaml:"max_attempts"`
}

// PoolConfig contains account selection settings.
type PoolConfig struct {
	// DefaultBackoff is the rate-limit window applied when a throttle
	// signal carries no reset time. Default: 60s
	DefaultBackoff time.Duration `yaml:"default_backoff"`

	// SweepSchedule is an optional cron schedule (e.g. "@every 30s") for
	// proactively clearing expired rate-limit windows. Empty disables
	// the sweep; expiry is still applied lazily on selection.
	SweepSchedule string `yaml:"sweep_schedule"`
}

// MonitorConfig contains request monitoring settings.
type MonitorConfig struct {
	// LogCapacity is the number of request log entries retained in
	// memory. Default: 1000
	LogCapacity int `yaml:"log_capacity"`

	// MaxLogsPerQuery is the hard ceiling applied to the limit parameter
	// of /api/logs. Default: 200
	MaxLogsPerQuery int `yaml:"max_logs_per_query"`
}

// TelemetryConfig contains logging and metrics settings.
type TelemetryConfig struct {
	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "text"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled controls whether /metrics is served. Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix. Default: "relay"
	Namespace string `yaml:"namespace"`
}
