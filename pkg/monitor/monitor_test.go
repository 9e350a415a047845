package monitor

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"relay-hq/relay/pkg/accounts"
)

func outcome(id string, succeeded bool) Outcome {
	return Outcome{
		Timestamp:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		RequestID:  id,
		Provider:   accounts.ProviderClaude,
		AccountID:  "acct-1",
		Succeeded:  succeeded,
		StatusCode: 200,
		Latency:    120 * time.Millisecond,
	}
}

func TestMonitor_StatsInvariant(t *testing.T) {
	m := New(10)

	m.Record(outcome("r1", true))
	m.Record(outcome("r2", true))
	m.Record(outcome("r3", false))

	stats := m.Stats()
	if stats.SuccessCount != 2 || stats.ErrorCount != 1 {
		t.Errorf("expected 2 success / 1 error, got %d/%d", stats.SuccessCount, stats.ErrorCount)
	}
	if stats.TotalRequests != stats.SuccessCount+stats.ErrorCount {
		t.Errorf("total %d != success %d + error %d",
			stats.TotalRequests, stats.SuccessCount, stats.ErrorCount)
	}
}

func TestMonitor_ConcurrentRecords(t *testing.T) {
	m := New(100)

	// 1000 concurrent records split 600 success / 400 error must tally
	// exactly, with no lost updates.
	var wg sync.WaitGroup
	for i := 0; i < 1000; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Record(outcome(fmt.Sprintf("r%d", i), i%5 < 3))
		}(i)
	}
	wg.Wait()

	stats := m.Stats()
	if stats.SuccessCount != 600 {
		t.Errorf("expected 600 successes, got %d", stats.SuccessCount)
	}
	if stats.ErrorCount != 400 {
		t.Errorf("expected 400 errors, got %d", stats.ErrorCount)
	}
	if stats.TotalRequests != 1000 {
		t.Errorf("expected 1000 total, got %d", stats.TotalRequests)
	}
}

func TestMonitor_StatsConsistentDuringConcurrentRecords(t *testing.T) {
	m := New(100)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			m.Record(outcome("r", i%2 == 0))
		}
		close(done)
	}()

	// Every snapshot taken mid-stream must satisfy the invariant.
	for {
		stats := m.Stats()
		if stats.TotalRequests != stats.SuccessCount+stats.ErrorCount {
			t.Fatalf("torn snapshot: total %d, success %d, error %d",
				stats.TotalRequests, stats.SuccessCount, stats.ErrorCount)
		}
		select {
		case <-done:
			wg.Wait()
			return
		default:
		}
	}
}

func TestMonitor_LogsMostRecentFirst(t *testing.T) {
	m := New(10)

	for i := 0; i < 5; i++ {
		m.Record(outcome(fmt.Sprintf("r%d", i), true))
	}

	logs := m.Logs(3)
	if len(logs) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(logs))
	}
	want := []string{"r4", "r3", "r2"}
	for i, id := range want {
		if logs[i].RequestID != id {
			t.Errorf("position %d: expected %q, got %q", i, id, logs[i].RequestID)
		}
	}
}

func TestMonitor_RingEviction(t *testing.T) {
	m := New(3)

	// capacity+1 records: the oldest entry must be gone.
	for i := 0; i < 4; i++ {
		m.Record(outcome(fmt.Sprintf("r%d", i), true))
	}

	logs := m.Logs(10)
	if len(logs) != 3 {
		t.Fatalf("expected ring-capped 3 entries, got %d", len(logs))
	}
	for _, entry := range logs {
		if entry.RequestID == "r0" {
			t.Error("oldest entry r0 should have been evicted")
		}
	}
	if logs[0].RequestID != "r3" {
		t.Errorf("expected newest entry first, got %q", logs[0].RequestID)
	}

	// Counters are unaffected by eviction.
	if stats := m.Stats(); stats.TotalRequests != 4 {
		t.Errorf("expected 4 total requests, got %d", stats.TotalRequests)
	}
}

func TestMonitor_LogsLimitClamping(t *testing.T) {
	m := New(5)
	for i := 0; i < 2; i++ {
		m.Record(outcome(fmt.Sprintf("r%d", i), true))
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"limit below size", 1, 1},
		{"limit equals size", 2, 2},
		{"limit above size", 10, 2},
		{"zero limit", 0, 0},
		{"negative limit", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(m.Logs(tt.limit)); got != tt.want {
				t.Errorf("Logs(%d) returned %d entries, want %d", tt.limit, got, tt.want)
			}
		})
	}
}

func TestMonitor_DefaultCapacity(t *testing.T) {
	m := New(0)
	if m.LogCapacity() != DefaultLogCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultLogCapacity, m.LogCapacity())
	}
}
