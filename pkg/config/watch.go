package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc is invoked with the freshly loaded configuration after the
// watched file changes and passes validation.
type ReloadFunc func(*Config)

// Watcher watches the configuration file and triggers reloads of the
// hot-reloadable settings. Changes are debounced so editors that write in
// multiple steps do not cause reload storms. A file that fails to parse or
// validate is logged and ignored; the previous configuration stays active.
type Watcher struct {
	path     string
	onReload ReloadFunc
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for the given configuration file.
func NewWatcher(path string, onReload ReloadFunc, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:     path,
		onReload: onReload,
		watcher:  fsw,
		logger:   logger.With("component", "config.watcher"),
		debounce: 200 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Watching the parent directory instead of the file
// itself survives the rename-and-replace pattern most editors use.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.running = true
	go w.loop()

	w.logger.Info("config watcher started", "path", w.path)
	return nil
}

// Stop halts watching and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
	w.running = false

	w.logger.Info("config watcher stopped")
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerCh:
			timer = nil
			timerCh = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	// Same loader as startup, so RELAY_* overrides survive a file change.
	cfg, err := LoadConfigWithEnvOverrides(w.path)
	if err != nil {
		w.logger.Error("config reload failed, keeping previous configuration",
			"path", w.path,
			"error", err,
		)
		return
	}

	w.logger.Info("config reloaded",
		"log_level", cfg.Telemetry.Logging.Level,
		"default_backoff", cfg.Pool.DefaultBackoff,
	)
	w.onReload(cfg)
}
