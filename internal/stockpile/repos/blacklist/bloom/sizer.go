package bloom

import (
	"math"

	bitsbloom "github.com/bits-and-blooms/bloom/v3"

	"github.com/dotstart/stockpile-go/internal/stockpile/repos/blacklist"
)

// defaultFPRate replaces out of range false positive rates.
const defaultFPRate = 0.01

// sizer implements blacklist.BloomSizer on top of the library's estimator.
// An empty blacklist is sized as if it held one digest.
type sizer struct{}

// NewSizer returns a BloomSizer implementation.
func NewSizer() blacklist.BloomSizer { return sizer{} }

func (sizer) Size(n uint64, p float64) (uint64, uint8) { return size(n, p) }

func size(n uint64, p float64) (uint64, uint8) {
	if n == 0 {
		n = 1
	}
	if !(p > 0 && p < 1) {
		p = defaultFPRate
	}
	m, k := bitsbloom.EstimateParameters(uint(n), p)
	return uint64(max(m, 1)), uint8(min(max(k, 1), math.MaxUint8))
}
