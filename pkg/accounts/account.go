package accounts

import "time"

// Provider identifies the upstream AI service an account authenticates to.
// The provider is assigned once at account creation from configuration; it
// is never inferred from id or email contents at read time.
type Provider string

const (
	// ProviderClaude is the Anthropic Claude API.
	ProviderClaude Provider = "claude"

	// ProviderGemini is the Google Gemini API.
	ProviderGemini Provider = "gemini"

	// ProviderUnknown is used when configuration names a provider that
	// is not recognized. Accounts with an unknown provider are still
	// listed for reporting but are never selected for routing.
	ProviderUnknown Provider = "unknown"
)

// ParseProvider converts a configuration string to a Provider.
// Unrecognized values map to ProviderUnknown.
func ParseProvider(s string) Provider {
	switch s {
	case "claude":
		return ProviderClaude
	case "gemini":
		return ProviderGemini
	default:
		return ProviderUnknown
	}
}

// DisplayName returns the human-readable provider name used by the
// reporting API ("Claude", "Gemini", "Unknown").
func (p Provider) DisplayName() string {
	switch p {
	case ProviderClaude:
		return "Claude"
	case ProviderGemini:
		return "Gemini"
	default:
		return "Unknown"
	}
}

// Account is a point-in-time snapshot of one provider credential managed by
// the proxy. Snapshots are values; mutating a snapshot has no effect on the
// registry's state.
type Account struct {
	// ID is the stable opaque identifier, unique within the registry.
	ID string

	// Email is the human-readable identity. Not guaranteed unique.
	Email string

	// Provider is the upstream service this account authenticates to.
	Provider Provider

	// RateLimitedUntil is the end of the active rate-limit window.
	// Nil means the account is eligible now.
	RateLimitedUntil *time.Time

	// LastUsed is the time of the most recent successful selection.
	// Nil means the account has never been selected.
	LastUsed *time.Time
}

// IsRateLimited reports whether the account is inside an active rate-limit
// window at the given instant.
func (a *Account) IsRateLimited(now time.Time) bool {
	return a.RateLimitedUntil != nil && a.RateLimitedUntil.After(now)
}

// ResetSecondsRemaining returns the whole seconds until the rate-limit
// window ends, or 0 if the account is not limited. Partial seconds round up
// so a caller never sleeps short of the reset.
func (a *Account) ResetSecondsRemaining(now time.Time) int64 {
	if !a.IsRateLimited(now) {
		return 0
	}
	remaining := a.RateLimitedUntil.Sub(now)
	secs := int64(remaining / time.Second)
	if remaining%time.Second > 0 {
		secs++
	}
	return secs
}
