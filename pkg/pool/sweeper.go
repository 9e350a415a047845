package pool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically clears expired rate-limit windows across the whole
// registry. Lazy expiry on the selection path remains the correctness
// mechanism; the sweep only tightens the staleness of reporting snapshots
// between selections. It never touches an unexpired window, so the
// monotonic window invariant is preserved.
type Sweeper struct {
	manager  *Manager
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewSweeper creates a sweeper with a cron schedule such as "@every 30s".
// An empty schedule disables sweeping.
func NewSweeper(manager *Manager, schedule string, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		manager:  manager,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "pool.sweeper"),
	}
}

// Start begins scheduled sweeping. It returns immediately; sweeps run on
// the cron's goroutine until the context is cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("expiry sweep not configured, relying on lazy expiry only")
		return nil
	}
	if s.running {
		return fmt.Errorf("sweeper already running")
	}

	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("expiry sweeper started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts scheduled sweeping. Safe to call multiple times.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
	s.logger.Info("expiry sweeper stopped")
}

// sweep runs one pass over every account, clearing windows that have ended.
func (s *Sweeper) sweep() {
	reg := s.manager.registry
	now := reg.Now()

	cleared := 0
	for _, id := range reg.IDs() {
		acct, ok := reg.Get(id)
		if !ok || acct.RateLimitedUntil == nil {
			continue
		}
		if reg.ClearIfExpired(id, now) {
			cleared++
		}
	}

	if cleared > 0 {
		s.logger.Debug("expiry sweep cleared windows", "cleared", cleared)
	}
}
