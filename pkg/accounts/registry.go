package accounts

import (
	"log/slog"
	"sync"
	"time"
)

// Seed describes one account to register at construction time. Seeds come
// from the configuration collaborator; the registry itself never reads
// files or environment.
type Seed struct {
	ID       string
	Email    string
	Provider Provider
}

// record is the live state for one account. Each record carries its own
// lock so operations on different accounts never contend.
type record struct {
	mu   sync.Mutex
	acct Account
}

// Registry owns the mapping from account id to account state. It is the
// single writer of account state and is safe for concurrent use.
//
// The account set is fixed at construction: accounts are never added or
// removed at runtime, so the id map and order slice are read-only after
// NewRegistry returns and can be accessed without locking.
type Registry struct {
	byID  map[string]*record
	order []string // registration order, for deterministic listing and selection

	logger *slog.Logger

	// now is the clock source. Overridden in tests to simulate time.
	now func() time.Time
}

// NewRegistry builds a registry from the configured seeds. Seeds with a
// duplicate id are dropped with a warning; the first registration wins.
func NewRegistry(seeds []Seed, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		byID:   make(map[string]*record, len(seeds)),
		order:  make([]string, 0, len(seeds)),
		logger: logger,
		now:    time.Now,
	}

	for _, s := range seeds {
		if _, exists := r.byID[s.ID]; exists {
			logger.Warn("duplicate account id in configuration, keeping first",
				"account_id", s.ID,
			)
			continue
		}
		r.byID[s.ID] = &record{
			acct: Account{
				ID:       s.ID,
				Email:    s.Email,
				Provider: s.Provider,
			},
		}
		r.order = append(r.order, s.ID)
	}

	return r
}

// Get returns a snapshot of the account with the given id.
// The second return value is false if the id is unknown.
func (r *Registry) Get(id string) (Account, bool) {
	rec, ok := r.byID[id]
	if !ok {
		return Account{}, false
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.acct, true
}

// SetRateLimited marks the account as rate-limited until resetAt.
//
// The window only ever grows: if an earlier signal already set a later
// reset time, the existing window is kept (last-max wins). A resetAt that
// is not in the future is ignored; there is no retroactive limiting.
// An unknown id is logged and ignored.
func (r *Registry) SetRateLimited(id string, resetAt time.Time) {
	rec, ok := r.byID[id]
	if !ok {
		r.logger.Warn("rate-limit signal for unknown account",
			"account_id", id,
			"reset_at", resetAt,
		)
		return
	}

	now := r.now()
	if !resetAt.After(now) {
		return
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.acct.RateLimitedUntil != nil && rec.acct.RateLimitedUntil.After(resetAt) {
		return
	}
	t := resetAt
	rec.acct.RateLimitedUntil = &t

	r.logger.Info("account rate limited",
		"account_id", id,
		"provider", rec.acct.Provider,
		"reset_at", resetAt,
	)
}

// ClearIfExpired clears the account's rate-limit window if it has ended at
// the given instant. Reports whether the account is eligible after the
// call. Unknown ids report false.
func (r *Registry) ClearIfExpired(id string, now time.Time) bool {
	rec, ok := r.byID[id]
	if !ok {
		return false
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.acct.RateLimitedUntil == nil {
		return true
	}
	if rec.acct.RateLimitedUntil.After(now) {
		return false
	}
	rec.acct.RateLimitedUntil = nil
	r.logger.Debug("rate-limit window expired", "account_id", id)
	return true
}

// MarkUsed records the time of a successful selection. Best-effort: an
// unknown id is ignored without logging noise on the hot path.
func (r *Registry) MarkUsed(id string, when time.Time) {
	rec, ok := r.byID[id]
	if !ok {
		return
	}
	rec.mu.Lock()
	rec.acct.LastUsed = &when
	rec.mu.Unlock()
}

// List returns snapshots of all accounts in registration order.
// Used only by the reporting layer.
func (r *Registry) List() []Account {
	out := make([]Account, 0, len(r.order))
	for _, id := range r.order {
		rec := r.byID[id]
		rec.mu.Lock()
		out = append(out, rec.acct)
		rec.mu.Unlock()
	}
	return out
}

// IDs returns the account ids in registration order. The returned slice is
// shared and must not be mutated.
func (r *Registry) IDs() []string {
	return r.order
}

// Len returns the number of configured accounts.
func (r *Registry) Len() int {
	return len(r.order)
}

// Now returns the registry's current clock reading.
func (r *Registry) Now() time.Time {
	return r.now()
}

// SetNowFunc replaces the registry's clock source. Intended for tests that
// need to simulate the passage of time; must be called before the registry
// is shared across goroutines.
func (r *Registry) SetNowFunc(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}
