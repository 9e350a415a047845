package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults,
// validates, and returns the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := newWithBoolDefaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and then
// applies environment variable overrides. Variables follow the naming
// convention RELAY_SECTION_FIELD (e.g. RELAY_SERVER_LISTEN_ADDRESS) and
// always take precedence over file values.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after env overrides: %w", err)
	}

	return cfg, nil
}

// newWithBoolDefaults returns a Config whose boolean fields carry their
// default values. yaml.Unmarshal only touches fields present in the file,
// so absent booleans keep these defaults.
func newWithBoolDefaults() *Config {
	cfg := &Config{}
	cfg.Telemetry.Metrics.Enabled = true
	return cfg
}

// applyEnvOverrides applies the supported RELAY_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RELAY_SERVER_LISTEN_ADDRESS"); v != "" {
		cfg.Server.ListenAddress = v
	}
	if v := os.Getenv("RELAY_SERVER_BASE_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("RELAY_POOL_DEFAULT_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Pool.DefaultBackoff = d
		}
	}
	if v := os.Getenv("RELAY_LOG_LEVEL"); v != "" {
		cfg.Telemetry.Logging.Level = v
	}
	if v := os.Getenv("RELAY_LOG_FORMAT"); v != "" {
		cfg.Telemetry.Logging.Format = v
	}
}
