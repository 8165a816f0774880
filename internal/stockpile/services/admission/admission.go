// Package admission decides whether connecting clients or target servers
// are allowed, using the locally held server blacklist.
package admission

import (
	"slices"

	"go.uber.org/multierr"

	"github.com/dotstart/stockpile-go/internal/stockpile/common/log"
)

type Service struct {
	decider Decider
	logger  log.Logger
}

type Options struct {
	Decider Decider
	Logger  log.Logger
}

func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.GetLogger()
	}
	logger = logger.With(map[string]any{"component": "admission"})
	return &Service{decider: opts.Decider, logger: logger}
}

// Admit reports whether address is allowed. Addresses the blacklist cannot
// decompose are not admitted and the error is returned.
func (s *Service) Admit(address string) (bool, error) {
	d, err := s.decider.Decide(address)
	if err != nil {
		s.logger.Warn(map[string]any{"address": address, "error": err}, "rejecting undecidable address")
		return false, err
	}
	if d.Blocked {
		s.logger.Info(map[string]any{"address": address, "matched": d.Matched}, "address is blacklisted")
		return false, nil
	}
	return true, nil
}

// Filter returns the blacklisted subset of addresses, sorted and without
// duplicates. Invalid addresses are skipped; their errors are combined into
// the returned error.
func (s *Service) Filter(addresses []string) ([]string, error) {
	var matched []string
	var errs error
	for _, a := range addresses {
		d, err := s.decider.Decide(a)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if d.Blocked {
			matched = append(matched, a)
		}
	}
	slices.Sort(matched)
	return slices.Compact(matched), errs
}
