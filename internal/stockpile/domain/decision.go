package domain

// BlacklistDecision is the outcome of evaluating an address against a blacklist.
type BlacklistDecision struct {
	Blocked bool
	Matched string // candidate wildcard whose digest is blacklisted
}

// IsBlocked is a convenience accessor.
func (d BlacklistDecision) IsBlocked() bool { return d.Blocked }

// AllowDecision returns a not-blocked decision.
func AllowDecision() BlacklistDecision { return BlacklistDecision{} }
