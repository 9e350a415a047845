package metrics

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"relay-hq/relay/pkg/accounts"
	"relay-hq/relay/pkg/pool"
)

func TestRequestMetrics_RecordRequest(t *testing.T) {
	registry := prometheus.NewRegistry()
	rm := NewRequestMetrics("relay", registry)

	rm.RecordRequest("claude", true, 200*time.Millisecond)
	rm.RecordRequest("claude", true, 100*time.Millisecond)
	rm.RecordRequest("claude", false, 50*time.Millisecond)
	rm.RecordRateLimited("claude")

	expected := strings.NewReader(`
# HELP relay_requests_total Total number of proxied requests
# TYPE relay_requests_total counter
relay_requests_total{provider="claude",status="error"} 1
relay_requests_total{provider="claude",status="success"} 2
# HELP relay_rate_limited_total Total number of upstream throttle signals
# TYPE relay_rate_limited_total counter
relay_rate_limited_total{provider="claude"} 1
`)
	if err := testutil.GatherAndCompare(registry, expected,
		"relay_requests_total", "relay_rate_limited_total"); err != nil {
		t.Error(err)
	}
}

func TestPoolCollector(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := accounts.NewRegistry([]accounts.Seed{
		{ID: "c1", Provider: accounts.ProviderClaude},
		{ID: "c2", Provider: accounts.ProviderClaude},
		{ID: "g1", Provider: accounts.ProviderGemini},
	}, logger)
	manager := pool.NewManager(registry, 0, logger)

	promRegistry := prometheus.NewRegistry()
	NewPoolCollector("relay", manager, promRegistry)

	manager.ReportRateLimited("c1", time.Now().Add(time.Minute))

	expected := strings.NewReader(`
# HELP relay_accounts_total Number of configured accounts
# TYPE relay_accounts_total gauge
relay_accounts_total{provider="claude"} 2
relay_accounts_total{provider="gemini"} 1
# HELP relay_accounts_rate_limited Number of accounts currently rate limited
# TYPE relay_accounts_rate_limited gauge
relay_accounts_rate_limited{provider="claude"} 1
relay_accounts_rate_limited{provider="gemini"} 0
`)
	if err := testutil.GatherAndCompare(promRegistry, expected,
		"relay_accounts_total", "relay_accounts_rate_limited"); err != nil {
		t.Error(err)
	}
}
