package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
)

const (
	// DefaultLogsLimit applies when /api/logs has no limit parameter.
	DefaultLogsLimit = 50

	// MaxLogsLimit is the hard ceiling for the /api/logs limit parameter.
	// Clamping here keeps the boundary concern out of the monitor.
	MaxLogsLimit = 200
)

// API serves the reporting endpoints.
type API struct {
	pool    AccountPool
	monitor RequestMonitor

	baseURL string
	port    int
	version string

	maxLogsLimit int
}

// NewAPI creates the reporting API over the given pool and monitor views.
// A non-positive maxLogsLimit falls back to MaxLogsLimit.
func NewAPI(p AccountPool, m RequestMonitor, baseURL string, listenAddress string, version string, maxLogsLimit int) *API {
	if maxLogsLimit <= 0 {
		maxLogsLimit = MaxLogsLimit
	}

	port := 0
	if _, portStr, err := net.SplitHostPort(listenAddress); err == nil {
		port, _ = strconv.Atoi(portStr)
	}

	return &API{
		pool:         p,
		monitor:      m,
		baseURL:      baseURL,
		port:         port,
		version:      version,
		maxLogsLimit: maxLogsLimit,
	}
}

// Register adds the reporting routes to the mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/accounts", a.handleAccounts)
	mux.HandleFunc("GET /api/stats", a.handleStats)
	mux.HandleFunc("GET /api/status", a.handleStatus)
	mux.HandleFunc("GET /api/logs", a.handleLogs)
}

// handleAccounts serves GET /api/accounts.
func (a *API) handleAccounts(w http.ResponseWriter, r *http.Request) {
	statuses := a.pool.ListAccounts()

	infos := make([]AccountInfo, 0, len(statuses))
	for _, s := range statuses {
		status := "active"
		if s.RateLimited {
			status = "limited"
		}

		var lastUsed *int64
		if s.LastUsed != nil {
			ts := s.LastUsed.Unix()
			lastUsed = &ts
		}
		var resetSeconds *int64
		if s.RateLimited {
			secs := s.ResetSeconds
			resetSeconds = &secs
		}

		infos = append(infos, AccountInfo{
			ID:                    s.ID,
			Email:                 s.Email,
			Provider:              s.Provider.DisplayName(),
			Status:                status,
			LastUsed:              lastUsed,
			IsRateLimited:         s.RateLimited,
			RateLimitResetSeconds: resetSeconds,
		})
	}

	writeJSON(w, AccountsResponse{
		Accounts: infos,
		Total:    len(infos),
	})
}

// handleStats serves GET /api/stats.
func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := a.monitor.Stats()

	writeJSON(w, StatsResponse{
		TotalRequests:  stats.TotalRequests,
		SuccessCount:   stats.SuccessCount,
		ErrorCount:     stats.ErrorCount,
		ActiveAccounts: a.pool.Len(),
	})
}

// handleStatus serves GET /api/status.
func (a *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, StatusResponse{
		Running:        true,
		Port:           a.port,
		BaseURL:        a.baseURL,
		ActiveAccounts: a.pool.Len(),
		Version:        a.version,
	})
}

// handleLogs serves GET /api/logs?limit=N.
func (a *API) handleLogs(w http.ResponseWriter, r *http.Request) {
	limit := DefaultLogsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	if limit > a.maxLogsLimit {
		limit = a.maxLogsLimit
	}

	entries := a.monitor.Logs(limit)

	records := make([]LogRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, LogRecord{
			Timestamp:  e.Timestamp.Unix(),
			RequestID:  e.RequestID,
			Provider:   e.Provider.DisplayName(),
			AccountID:  e.AccountID,
			Succeeded:  e.Succeeded,
			StatusCode: e.StatusCode,
			LatencyMS:  e.Latency.Milliseconds(),
		})
	}

	writeJSON(w, LogsResponse{
		Logs:  records,
		Count: len(records),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
