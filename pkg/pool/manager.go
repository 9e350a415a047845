package pool

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"relay-hq/relay/pkg/accounts"
)

// DefaultBackoff is the rate-limit window applied when the upstream
// provider signals throttling without advertising a reset time.
const DefaultBackoff = 60 * time.Second

// AccountStatus is one row of the reporting snapshot returned by
// ListAccounts. ResetSeconds is computed relative to the time of the call
// and is never stored.
type AccountStatus struct {
	ID           string
	Email        string
	Provider     accounts.Provider
	LastUsed     *time.Time
	RateLimited  bool
	ResetSeconds int64
}

// cursor tracks the registration-order index of the account selected last
// for one provider. The read-modify-write of a selection happens under the
// cursor's lock so two concurrent selections never pick the same account
// while skipping the next one.
type cursor struct {
	mu   sync.Mutex
	last int // index into the provider's id slice, -1 before the first selection
}

// Manager selects accounts for providers with rate-limit-aware round-robin
// rotation. It holds a reference to the account registry but owns no
// account data itself, only selection policy.
//
// Manager is safe for concurrent use. Selections for different providers
// never contend with each other.
type Manager struct {
	registry *accounts.Registry

	// providerIDs maps each provider to its account ids in registration
	// order. Built once at construction; read-only afterwards.
	providerIDs map[accounts.Provider][]string
	cursors     map[accounts.Provider]*cursor

	// backoff is the default rate-limit window in nanoseconds, applied
	// when a throttle signal carries no reset time. Atomic so the config
	// watcher can adjust it at runtime.
	backoff atomic.Int64

	logger *slog.Logger
}

// NewManager creates a selection manager over the given registry.
// A non-positive defaultBackoff falls back to DefaultBackoff.
func NewManager(registry *accounts.Registry, defaultBackoff time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultBackoff <= 0 {
		defaultBackoff = DefaultBackoff
	}

	m := &Manager{
		registry:    registry,
		providerIDs: make(map[accounts.Provider][]string),
		cursors:     make(map[accounts.Provider]*cursor),
		logger:      logger,
	}
	m.backoff.Store(int64(defaultBackoff))

	for _, acct := range registry.List() {
		if acct.Provider == accounts.ProviderUnknown {
			logger.Warn("account has unknown provider, excluded from selection",
				"account_id", acct.ID,
			)
			continue
		}
		m.providerIDs[acct.Provider] = append(m.providerIDs[acct.Provider], acct.ID)
	}
	for provider := range m.providerIDs {
		m.cursors[provider] = &cursor{last: -1}
	}

	return m
}

// SelectAccount returns an eligible account for the provider, rotating
// round-robin through the pool in registration order starting after the
// account selected last. Expired rate-limit windows are cleared lazily
// during the scan, and the winner's last-used time is updated.
//
// When the provider has no configured accounts, or every account is inside
// an active rate-limit window, SelectAccount returns a
// *NoEligibleAccountError matching ErrNoEligibleAccount.
func (m *Manager) SelectAccount(provider accounts.Provider) (accounts.Account, error) {
	ids := m.providerIDs[provider]
	if len(ids) == 0 {
		return accounts.Account{}, &NoEligibleAccountError{Provider: string(provider)}
	}

	c := m.cursors[provider]
	c.mu.Lock()
	defer c.mu.Unlock()

	// Single clock reading keeps this call's eligibility view consistent.
	now := m.registry.Now()

	for i := 1; i <= len(ids); i++ {
		idx := (c.last + i) % len(ids)
		id := ids[idx]
		if !m.registry.ClearIfExpired(id, now) {
			continue
		}
		m.registry.MarkUsed(id, now)
		c.last = idx

		acct, ok := m.registry.Get(id)
		if !ok {
			// Registered ids cannot disappear; guard anyway.
			continue
		}
		m.logger.Debug("account selected",
			"provider", provider,
			"account_id", id,
		)
		return acct, nil
	}

	retryIn := m.earliestReset(ids, now)
	m.logger.Debug("provider pool exhausted",
		"provider", provider,
		"configured", len(ids),
		"retry_in", retryIn,
	)
	return accounts.Account{}, &NoEligibleAccountError{
		Provider:   string(provider),
		Configured: len(ids),
		RetryIn:    retryIn,
	}
}

// earliestReset returns the time until the soonest rate-limit window among
// the given accounts ends.
func (m *Manager) earliestReset(ids []string, now time.Time) time.Duration {
	var earliest time.Duration
	for _, id := range ids {
		acct, ok := m.registry.Get(id)
		if !ok || acct.RateLimitedUntil == nil {
			continue
		}
		d := acct.RateLimitedUntil.Sub(now)
		if d < 0 {
			d = 0
		}
		if earliest == 0 || d < earliest {
			earliest = d
		}
	}
	return earliest
}

// ReportRateLimited marks the account rate-limited until resetAt. Callers
// invoke this when the upstream provider signals throttling; a zero resetAt
// means the provider advertised no reset time, and the configured default
// backoff is applied instead. The window never shrinks (last-max wins).
func (m *Manager) ReportRateLimited(id string, resetAt time.Time) {
	if resetAt.IsZero() {
		resetAt = m.registry.Now().Add(m.Backoff())
	}
	m.registry.SetRateLimited(id, resetAt)
}

// ListAccounts returns a reporting snapshot of every configured account in
// registration order, including accounts with an unknown provider.
func (m *Manager) ListAccounts() []AccountStatus {
	now := m.registry.Now()
	accts := m.registry.List()

	out := make([]AccountStatus, 0, len(accts))
	for _, acct := range accts {
		out = append(out, AccountStatus{
			ID:           acct.ID,
			Email:        acct.Email,
			Provider:     acct.Provider,
			LastUsed:     acct.LastUsed,
			RateLimited:  acct.IsRateLimited(now),
			ResetSeconds: acct.ResetSecondsRemaining(now),
		})
	}
	return out
}

// Len returns the total number of configured accounts, not the number
// currently eligible. Used for capacity reporting.
func (m *Manager) Len() int {
	return m.registry.Len()
}

// Backoff returns the current default backoff window.
func (m *Manager) Backoff() time.Duration {
	return time.Duration(m.backoff.Load())
}

// SetBackoff adjusts the default backoff window at runtime. Non-positive
// values are ignored.
func (m *Manager) SetBackoff(d time.Duration) {
	if d <= 0 {
		return
	}
	m.backoff.Store(int64(d))
}
