package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"relay-hq/relay/pkg/accounts"
	"relay-hq/relay/pkg/monitor"
	"relay-hq/relay/pkg/pool"
)

type apiFixture struct {
	registry *accounts.Registry
	pool     *pool.Manager
	monitor  *monitor.Monitor
	mux      *http.ServeMux
}

func newAPIFixture(t *testing.T, seeds ...accounts.Seed) *apiFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &apiFixture{
		registry: accounts.NewRegistry(seeds, logger),
		monitor:  monitor.New(100),
		mux:      http.NewServeMux(),
	}
	f.pool = pool.NewManager(f.registry, 0, logger)

	api := NewAPI(f.pool, f.monitor, "http://localhost:3456", "127.0.0.1:3456", "1.2.3", 0)
	api.Register(f.mux)
	return f
}

func (f *apiFixture) get(t *testing.T, path string, into any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if into != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
			t.Fatalf("invalid JSON from %s: %v", path, err)
		}
	}
	return rec
}

func TestAPI_Accounts(t *testing.T) {
	f := newAPIFixture(t,
		accounts.Seed{ID: "c1", Email: "a@example.com", Provider: accounts.ProviderClaude},
		accounts.Seed{ID: "g1", Email: "b@example.com", Provider: accounts.ProviderGemini},
	)
	f.pool.ReportRateLimited("g1", time.Now().Add(30*time.Second))

	var resp AccountsResponse
	rec := f.get(t, "/api/accounts", &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if resp.Total != 2 || len(resp.Accounts) != 2 {
		t.Fatalf("expected 2 accounts, got total=%d len=%d", resp.Total, len(resp.Accounts))
	}

	c1 := resp.Accounts[0]
	if c1.ID != "c1" || c1.Provider != "Claude" || c1.Status != "active" || c1.IsRateLimited {
		t.Errorf("unexpected c1 row: %+v", c1)
	}
	if c1.RateLimitResetSeconds != nil {
		t.Error("active account must have null reset seconds")
	}

	g1 := resp.Accounts[1]
	if g1.Provider != "Gemini" || g1.Status != "limited" || !g1.IsRateLimited {
		t.Errorf("unexpected g1 row: %+v", g1)
	}
	if g1.RateLimitResetSeconds == nil || *g1.RateLimitResetSeconds <= 0 || *g1.RateLimitResetSeconds > 30 {
		t.Errorf("unexpected reset seconds: %v", g1.RateLimitResetSeconds)
	}
}

func TestAPI_Stats(t *testing.T) {
	f := newAPIFixture(t, accounts.Seed{ID: "c1", Provider: accounts.ProviderClaude})

	f.monitor.Record(monitor.Outcome{Succeeded: true, Provider: accounts.ProviderClaude})
	f.monitor.Record(monitor.Outcome{Succeeded: false, Provider: accounts.ProviderClaude})
	f.monitor.Record(monitor.Outcome{Succeeded: true, Provider: accounts.ProviderClaude})

	var resp StatsResponse
	f.get(t, "/api/stats", &resp)

	if resp.TotalRequests != 3 || resp.SuccessCount != 2 || resp.ErrorCount != 1 {
		t.Errorf("unexpected stats: %+v", resp)
	}
	if resp.ActiveAccounts != 1 {
		t.Errorf("expected 1 active account, got %d", resp.ActiveAccounts)
	}
}

func TestAPI_Status(t *testing.T) {
	f := newAPIFixture(t, accounts.Seed{ID: "c1", Provider: accounts.ProviderClaude})

	var resp StatusResponse
	f.get(t, "/api/status", &resp)

	if !resp.Running {
		t.Error("expected running=true")
	}
	if resp.Port != 3456 {
		t.Errorf("expected port 3456, got %d", resp.Port)
	}
	if resp.BaseURL != "http://localhost:3456" {
		t.Errorf("unexpected base URL %q", resp.BaseURL)
	}
	if resp.Version != "1.2.3" {
		t.Errorf("unexpected version %q", resp.Version)
	}
}

func TestAPI_Logs(t *testing.T) {
	f := newAPIFixture(t, accounts.Seed{ID: "c1", Provider: accounts.ProviderClaude})

	for i := 0; i < 5; i++ {
		f.monitor.Record(monitor.Outcome{
			Timestamp:  time.Now(),
			RequestID:  fmt.Sprintf("r%d", i),
			Provider:   accounts.ProviderClaude,
			AccountID:  "c1",
			Succeeded:  true,
			StatusCode: 200,
			Latency:    42 * time.Millisecond,
		})
	}

	var resp LogsResponse
	f.get(t, "/api/logs?limit=3", &resp)

	if resp.Count != 3 || len(resp.Logs) != 3 {
		t.Fatalf("expected 3 entries, got count=%d len=%d", resp.Count, len(resp.Logs))
	}
	if resp.Logs[0].RequestID != "r4" {
		t.Errorf("expected most recent first, got %q", resp.Logs[0].RequestID)
	}
	if resp.Logs[0].LatencyMS != 42 {
		t.Errorf("expected latency 42ms, got %d", resp.Logs[0].LatencyMS)
	}
}

func TestAPI_LogsDefaultAndCeiling(t *testing.T) {
	f := newAPIFixture(t, accounts.Seed{ID: "c1", Provider: accounts.ProviderClaude})

	for i := 0; i < 60; i++ {
		f.monitor.Record(monitor.Outcome{Succeeded: true, Provider: accounts.ProviderClaude})
	}

	var resp LogsResponse
	f.get(t, "/api/logs", &resp)
	if resp.Count != DefaultLogsLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLogsLimit, resp.Count)
	}

	// A huge limit is clamped to the ceiling, not passed through.
	f.get(t, "/api/logs?limit=100000", &resp)
	if resp.Count != 60 {
		t.Errorf("expected all 60 entries under the ceiling, got %d", resp.Count)
	}

	// An explicit zero asks for nothing and gets an empty list, not an
	// error and not the default.
	f.get(t, "/api/logs?limit=0", &resp)
	if resp.Count != 0 || len(resp.Logs) != 0 {
		t.Errorf("expected empty result for limit=0, got count=%d len=%d", resp.Count, len(resp.Logs))
	}
}

func TestAPI_LogsInvalidLimit(t *testing.T) {
	f := newAPIFixture(t, accounts.Seed{ID: "c1", Provider: accounts.ProviderClaude})

	rec := f.get(t, "/api/logs?limit=abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric limit, got %d", rec.Code)
	}

	rec = f.get(t, "/api/logs?limit=-1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative limit, got %d", rec.Code)
	}
}

func TestAPI_MethodNotAllowed(t *testing.T) {
	f := newAPIFixture(t, accounts.Seed{ID: "c1", Provider: accounts.ProviderClaude})

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stats", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for POST, got %d", rec.Code)
	}
}
