package config

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"
)

func TestWatcher_ReloadOnWrite(t *testing.T) {
	path := writeConfigFile(t, validConfig)

	var mu sync.Mutex
	var got *Config
	reloaded := make(chan struct{}, 1)

	w, err := NewWatcher(path, func(cfg *Config) {
		mu.Lock()
		got = cfg
		mu.Unlock()
		select {
		case reloaded <- struct{}{}:
		default:
		}
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	updated := validConfig + "telemetry:\n  logging:\n    level: debug\n"
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	mu.Lock()
	defer mu.Unlock()
	if got == nil || got.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected reloaded config with debug level, got %+v", got)
	}
}

func TestWatcher_ReloadKeepsEnvOverrides(t *testing.T) {
	t.Setenv("RELAY_LOG_LEVEL", "error")

	path := writeConfigFile(t, validConfig)

	var mu sync.Mutex
	var got *Config
	reloaded := make(chan struct{}, 1)

	w, err := NewWatcher(path, func(cfg *Config) {
		mu.Lock()
		got = cfg
		mu.Unlock()
		select {
		case reloaded <- struct{}{}:
		default:
		}
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// The file asks for debug, but the env override must still win after
	// the reload, just as it did at startup.
	updated := validConfig + "telemetry:\n  logging:\n    level: debug\n"
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	mu.Lock()
	defer mu.Unlock()
	if got == nil || got.Telemetry.Logging.Level != "error" {
		t.Errorf("expected env override to survive reload, got %+v", got)
	}
}

func TestWatcher_InvalidConfigKeepsPrevious(t *testing.T) {
	path := writeConfigFile(t, validConfig)

	calls := make(chan struct{}, 10)
	w, err := NewWatcher(path, func(cfg *Config) {
		calls <- struct{}{}
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("accounts: [broken\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-calls:
		t.Fatal("reload callback must not fire for invalid config")
	case <-time.After(time.Second):
	}
}

func TestWatcher_StartTwice(t *testing.T) {
	path := writeConfigFile(t, validConfig)

	w, err := NewWatcher(path, func(cfg *Config) {}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := w.Start(); err == nil {
		t.Error("expected error when starting twice")
	}
}
