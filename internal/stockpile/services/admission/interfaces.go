package admission

import "github.com/dotstart/stockpile-go/internal/stockpile/domain"

// Decider evaluates addresses against the active blacklist.
type Decider interface {
	Decide(address string) (domain.BlacklistDecision, error)
}
