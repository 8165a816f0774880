package lru

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dotstart/stockpile-go/internal/stockpile/domain"
	"github.com/dotstart/stockpile-go/internal/stockpile/repos/blacklist"
)

// decisionCache is an LRU-backed implementation of blacklist.DecisionCache.
// It tracks basic metrics: hits, misses, and evictions.
type decisionCache struct {
	lru       *lru.Cache[string, domain.BlacklistDecision]
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// disabledCache is a no-op DecisionCache used when size <= 0.
type disabledCache struct{}

// New creates a new DecisionCache with the given capacity. If size <= 0, a
// disabled no-op cache is returned that always misses and tracks no metrics.
func New(size int) (blacklist.DecisionCache, error) {
	if size <= 0 {
		return &disabledCache{}, nil
	}

	dc := &decisionCache{}
	// NewWithEvict observes evictions, including Purge-induced ones.
	cache, err := lru.NewWithEvict(size, func(string, domain.BlacklistDecision) {
		dc.evictions.Add(1)
	})
	if err != nil {
		return nil, err
	}
	dc.lru = cache
	return dc, nil
}

// Get looks up a decision by address. When found, increments hits; otherwise increments misses.
func (c *decisionCache) Get(address string) (domain.BlacklistDecision, bool) {
	if val, ok := c.lru.Get(address); ok {
		c.hits.Add(1)
		return val, true
	}
	c.misses.Add(1)
	return domain.AllowDecision(), false
}

func (c *decisionCache) Put(address string, d domain.BlacklistDecision) {
	c.lru.Add(address, d)
}

func (c *decisionCache) Len() int { return c.lru.Len() }

// Purge clears all entries. Evictions are counted via the eviction callback.
func (c *decisionCache) Purge() { c.lru.Purge() }

// Stats returns cumulative hit/miss/eviction counters.
func (c *decisionCache) Stats() (hits, misses, evictions uint64) {
	return c.hits.Load(), c.misses.Load(), c.evictions.Load()
}

func (*disabledCache) Get(string) (domain.BlacklistDecision, bool) {
	return domain.AllowDecision(), false
}

func (*disabledCache) Put(string, domain.BlacklistDecision) {}

func (*disabledCache) Len() int { return 0 }

func (*disabledCache) Purge() {}

func (*disabledCache) Stats() (uint64, uint64, uint64) { return 0, 0, 0 }

var _ blacklist.DecisionCache = (*decisionCache)(nil)
var _ blacklist.DecisionCache = (*disabledCache)(nil)
