package pool

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestSweeper_EmptyScheduleIsNoop(t *testing.T) {
	f := newFixture(t, claudeSeed("c1"))
	s := NewSweeper(f.manager, "", slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("empty schedule must not error: %v", err)
	}
	s.Stop() // must be safe even though nothing started
}

func TestSweeper_InvalidSchedule(t *testing.T) {
	f := newFixture(t, claudeSeed("c1"))
	s := NewSweeper(f.manager, "not a schedule", slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestSweeper_SweepClearsOnlyExpiredWindows(t *testing.T) {
	f := newFixture(t, claudeSeed("c1"), claudeSeed("c2"))
	s := NewSweeper(f.manager, "@every 1m", slog.New(slog.NewTextHandler(io.Discard, nil)))

	f.manager.ReportRateLimited("c1", f.now.Add(10*time.Second))
	f.manager.ReportRateLimited("c2", f.now.Add(10*time.Minute))

	f.advance(30 * time.Second)
	s.sweep()

	c1, _ := f.registry.Get("c1")
	if c1.RateLimitedUntil != nil {
		t.Error("expected expired window on c1 to be cleared")
	}

	c2, _ := f.registry.Get("c2")
	if c2.RateLimitedUntil == nil {
		t.Error("sweep must never clear an active window")
	}
}

func TestSweeper_StartStop(t *testing.T) {
	f := newFixture(t, claudeSeed("c1"))
	s := NewSweeper(f.manager, "@every 1m", slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(ctx); err == nil {
		t.Error("expected error when starting twice")
	}

	cancel()
	// Stop is idempotent and also triggered by context cancellation.
	s.Stop()
}
