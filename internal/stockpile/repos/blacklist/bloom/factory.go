package bloom

import (
	bitsbloom "github.com/bits-and-blooms/bloom/v3"

	"github.com/dotstart/stockpile-go/internal/stockpile/repos/blacklist"
)

// factory implements blacklist.BloomFactory using the package sizing formulas.
type factory struct{}

// NewFactory returns a BloomFactory that sizes filters from capacity and FP rate.
func NewFactory() blacklist.BloomFactory { return factory{} }

// New constructs an empty filter sized for capacity digests at fpRate.
func (factory) New(capacity uint64, fpRate float64) blacklist.BloomFilter {
	m, k := size(capacity, fpRate)
	return &filter{bf: bitsbloom.New(uint(m), uint(k))}
}
