package proxy

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"relay-hq/relay/pkg/accounts"
	"relay-hq/relay/pkg/config"
	"relay-hq/relay/pkg/monitor"
	"relay-hq/relay/pkg/pool"
	"relay-hq/relay/pkg/proxy/middleware"
)

// MetricsRecorder receives routing telemetry. Satisfied by
// telemetry/metrics.RequestMetrics; a nil recorder disables metrics.
type MetricsRecorder interface {
	RecordRequest(provider string, succeeded bool, duration time.Duration)
	RecordRateLimited(provider string)
}

// Router proxies inbound requests to the upstream provider through an
// account selected from the pool. One inbound request may try several
// accounts when rate limits surface mid-flight; MaxAttempts (default: pool
// size) bounds the rotation.
type Router struct {
	pool        *pool.Manager
	monitor     *monitor.Monitor
	metrics     MetricsRecorder
	cfg         config.UpstreamConfig
	credentials map[string]string // account id -> api key
	client      *http.Client
	logger      *slog.Logger
}

// NewRouter creates a router. The transport is injectable for tests; nil
// uses http.DefaultTransport.
func NewRouter(
	p *pool.Manager,
	m *monitor.Monitor,
	rec MetricsRecorder,
	cfg config.UpstreamConfig,
	accountCfgs []config.AccountConfig,
	transport http.RoundTripper,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	if transport == nil {
		transport = http.DefaultTransport
	}

	creds := make(map[string]string, len(accountCfgs))
	for _, ac := range accountCfgs {
		creds[ac.ID] = ac.APIKey
	}

	return &Router{
		pool:        p,
		monitor:     m,
		metrics:     rec,
		cfg:         cfg,
		credentials: creds,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		logger: logger,
	}
}

// ServeHTTP routes /claude/* and /gemini/* to the matching upstream.
// Unknown prefixes get 404.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	provider, rest, ok := splitProviderPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	rt.forward(w, r, provider, rest)
}

// splitProviderPath maps the first path segment to a provider.
func splitProviderPath(path string) (accounts.Provider, string, bool) {
	trimmed := strings.TrimPrefix(path, "/")
	segment, rest, _ := strings.Cut(trimmed, "/")
	switch segment {
	case "claude":
		return accounts.ProviderClaude, "/" + rest, true
	case "gemini":
		return accounts.ProviderGemini, "/" + rest, true
	default:
		return accounts.ProviderUnknown, "", false
	}
}

func (rt *Router) forward(w http.ResponseWriter, r *http.Request, provider accounts.Provider, upstreamPath string) {
	requestID := middleware.GetRequestID(r.Context())

	// The body is buffered once so a rate-limited attempt can be retried
	// against the next account.
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	maxAttempts := rt.cfg.MaxAttempts
	if maxAttempts <= 0 || maxAttempts > rt.pool.Len() {
		maxAttempts = rt.pool.Len()
	}

	var lastErr error
	attempts := 0

	for attempts < maxAttempts {
		acct, selErr := rt.pool.SelectAccount(provider)
		if selErr != nil {
			lastErr = selErr
			break
		}
		attempts++

		start := time.Now()
		resp, callErr := rt.callUpstream(r, acct, provider, upstreamPath, body)
		latency := time.Since(start)

		if callErr != nil {
			lastErr = callErr
			rt.logger.Warn("upstream call failed",
				"provider", provider,
				"account_id", acct.ID,
				"request_id", requestID,
				"error", callErr,
			)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resetAt := parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
			rt.pool.ReportRateLimited(acct.ID, resetAt)
			if rt.metrics != nil {
				rt.metrics.RecordRateLimited(string(provider))
			}
			lastErr = errors.New("upstream rate limited")
			resp.Body.Close()
			continue
		}

		rt.finish(w, resp, monitor.Outcome{
			Timestamp:  time.Now(),
			RequestID:  requestID,
			Provider:   provider,
			AccountID:  acct.ID,
			Succeeded:  resp.StatusCode < 400,
			StatusCode: resp.StatusCode,
			Latency:    latency,
		})
		return
	}

	exhausted := &UpstreamExhaustedError{
		Provider:  string(provider),
		Attempts:  attempts,
		LastError: lastErr,
	}
	rt.logger.Warn("request exhausted account pool",
		"provider", provider,
		"request_id", requestID,
		"attempts", attempts,
		"error", lastErr,
	)

	rt.monitor.Record(monitor.Outcome{
		Timestamp:  time.Now(),
		RequestID:  requestID,
		Provider:   provider,
		Succeeded:  false,
		StatusCode: http.StatusServiceUnavailable,
	})
	if rt.metrics != nil {
		rt.metrics.RecordRequest(string(provider), false, 0)
	}
	http.Error(w, exhausted.Error(), http.StatusServiceUnavailable)
}

// callUpstream performs one upstream attempt through the given account.
func (rt *Router) callUpstream(r *http.Request, acct accounts.Account, provider accounts.Provider, upstreamPath string, body []byte) (*http.Response, error) {
	base := rt.cfg.ClaudeBaseURL
	if provider == accounts.ProviderGemini {
		base = rt.cfg.GeminiBaseURL
	}

	url := strings.TrimSuffix(base, "/") + upstreamPath
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	copyProxyHeaders(req.Header, r.Header)
	rt.setCredential(req, acct, provider)

	return rt.client.Do(req)
}

// copyProxyHeaders forwards the inbound headers except hop-by-hop ones and
// the client's own credentials, which are replaced by the account's.
func copyProxyHeaders(dst, src http.Header) {
	for key, values := range src {
		switch http.CanonicalHeaderKey(key) {
		case "Connection", "Keep-Alive", "Proxy-Authorization", "Te",
			"Trailer", "Transfer-Encoding", "Upgrade", "Host",
			"Authorization", "X-Api-Key", "X-Goog-Api-Key":
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

// setCredential injects the account's credential in the header format the
// provider expects.
func (rt *Router) setCredential(req *http.Request, acct accounts.Account, provider accounts.Provider) {
	key := rt.credentials[acct.ID]
	if key == "" {
		return
	}
	switch provider {
	case accounts.ProviderGemini:
		req.Header.Set("X-Goog-Api-Key", key)
	default:
		req.Header.Set("X-Api-Key", key)
	}
}

// finish relays the upstream response to the client and records the outcome.
func (rt *Router) finish(w http.ResponseWriter, resp *http.Response, outcome monitor.Outcome) {
	defer resp.Body.Close()

	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		rt.logger.Debug("response relay interrupted",
			"request_id", outcome.RequestID,
			"error", err,
		)
	}

	rt.monitor.Record(outcome)
	if rt.metrics != nil {
		rt.metrics.RecordRequest(string(outcome.Provider), outcome.Succeeded, outcome.Latency)
	}
}

// parseRetryAfter converts a Retry-After header value to an absolute reset
// time. Returns the zero time when the header is absent or malformed, which
// makes the pool fall back to its default backoff.
func parseRetryAfter(value string, now time.Time) time.Time {
	if value == "" {
		return time.Time{}
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return time.Time{}
		}
		return now.Add(time.Duration(secs) * time.Second)
	}
	if t, err := http.ParseTime(value); err == nil {
		return t
	}
	return time.Time{}
}
