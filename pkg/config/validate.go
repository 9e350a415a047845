package config

import (
	"fmt"
	"net"
)

// Validate checks the configuration for errors that would prevent the proxy
// from operating. Malformed configuration is the one fatal condition of the
// process; everything past startup degrades gracefully instead.
func Validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address must not be empty")
	}
	if _, _, err := net.SplitHostPort(cfg.Server.ListenAddress); err != nil {
		return fmt.Errorf("server.listen_address %q is not host:port: %w",
			cfg.Server.ListenAddress, err)
	}

	seen := make(map[string]bool, len(cfg.Accounts))
	for i, acct := range cfg.Accounts {
		if acct.ID == "" {
			return fmt.Errorf("accounts[%d]: id must not be empty", i)
		}
		if seen[acct.ID] {
			return fmt.Errorf("accounts[%d]: duplicate account id %q", i, acct.ID)
		}
		seen[acct.ID] = true
	}

	if cfg.Pool.DefaultBackoff < 0 {
		return fmt.Errorf("pool.default_backoff must not be negative")
	}
	if cfg.Monitor.LogCapacity < 0 {
		return fmt.Errorf("monitor.log_capacity must not be negative")
	}
	if cfg.Monitor.MaxLogsPerQuery < 0 {
		return fmt.Errorf("monitor.max_logs_per_query must not be negative")
	}

	switch cfg.Telemetry.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level %q is not one of debug, info, warn, error",
			cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format %q is not one of json, text",
			cfg.Telemetry.Logging.Format)
	}

	return nil
}
