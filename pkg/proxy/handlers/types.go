package handlers

import (
	"relay-hq/relay/pkg/monitor"
	"relay-hq/relay/pkg/pool"
)

// AccountPool is the view of the token manager the reporting layer needs.
type AccountPool interface {
	ListAccounts() []pool.AccountStatus
	Len() int
}

// RequestMonitor is the view of the monitor the reporting layer needs.
type RequestMonitor interface {
	Stats() monitor.Stats
	Logs(limit int) []monitor.LogEntry
}

// AccountInfo is one account row returned by /api/accounts.
type AccountInfo struct {
	ID                    string `json:"id"`
	Email                 string `json:"email"`
	Provider              string `json:"provider"`
	Status                string `json:"status"`
	LastUsed              *int64 `json:"lastUsed"`
	IsRateLimited         bool   `json:"isRateLimited"`
	RateLimitResetSeconds *int64 `json:"rateLimitResetSeconds"`
}

// AccountsResponse is the body of /api/accounts.
type AccountsResponse struct {
	Accounts []AccountInfo `json:"accounts"`
	Total    int           `json:"total"`
}

// StatsResponse is the body of /api/stats.
type StatsResponse struct {
	TotalRequests  uint64 `json:"total_requests"`
	SuccessCount   uint64 `json:"success_count"`
	ErrorCount     uint64 `json:"error_count"`
	ActiveAccounts int    `json:"active_accounts"`
}

// StatusResponse is the body of /api/status.
type StatusResponse struct {
	Running        bool   `json:"running"`
	Port           int    `json:"port"`
	BaseURL        string `json:"base_url"`
	ActiveAccounts int    `json:"active_accounts"`
	Version        string `json:"version"`
}

// LogRecord is one request log row returned by /api/logs.
type LogRecord struct {
	Timestamp  int64  `json:"timestamp"`
	RequestID  string `json:"requestId,omitempty"`
	Provider   string `json:"provider"`
	AccountID  string `json:"accountId,omitempty"`
	Succeeded  bool   `json:"succeeded"`
	StatusCode int    `json:"statusCode"`
	LatencyMS  int64  `json:"latencyMs"`
}

// LogsResponse is the body of /api/logs.
type LogsResponse struct {
	Logs  []LogRecord `json:"logs"`
	Count int         `json:"count"`
}
