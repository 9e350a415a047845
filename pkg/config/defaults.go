package config

import "time"

// Default values applied by ApplyDefaults.
const (
	DefaultListenAddress   = "127.0.0.1:3456"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	DefaultClaudeBaseURL   = "https://api.anthropic.com"
	DefaultGeminiBaseURL   = "https://generativelanguage.googleapis.com"
	DefaultUpstreamTimeout = 120 * time.Second

	DefaultBackoff         = 60 * time.Second
	DefaultLogCapacity     = 1000
	DefaultMaxLogsPerQuery = 200

	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultMetricsNamespace = "relay"
)

// ApplyDefaults fills zero-valued fields with their documented defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://" + cfg.Server.ListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Upstream.ClaudeBaseURL == "" {
		cfg.Upstream.ClaudeBaseURL = DefaultClaudeBaseURL
	}
	if cfg.Upstream.GeminiBaseURL == "" {
		cfg.Upstream.GeminiBaseURL = DefaultGeminiBaseURL
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = DefaultUpstreamTimeout
	}

	if cfg.Pool.DefaultBackoff == 0 {
		cfg.Pool.DefaultBackoff = DefaultBackoff
	}

	if cfg.Monitor.LogCapacity == 0 {
		cfg.Monitor.LogCapacity = DefaultLogCapacity
	}
	if cfg.Monitor.MaxLogsPerQuery == 0 {
		cfg.Monitor.MaxLogsPerQuery = DefaultMaxLogsPerQuery
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}
