package blacklist

import (
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/dotstart/stockpile-go/internal/stockpile/common/clock"
	"github.com/dotstart/stockpile-go/internal/stockpile/domain"
)

// repository implements the Repository interface by composing the active
// blacklist, a Bloom filter over its digests (via factory), a DecisionCache
// and a Store. Reads run bloom → cache → blacklist; writes swap all of them
// under one lock so that no decision outlives the blacklist it was made with.
type repository struct {
	mu      sync.RWMutex
	current domain.Blacklist
	bloom   BloomFilter
	version uint64
	updated int64

	store   Store
	cache   DecisionCache
	factory BloomFactory
	fpRate  float64
	clock   clock.Clock
}

// NewRepository constructs a Repository with an empty blacklist.
// fpRate is the target false-positive rate for the Bloom filter when rebuilding.
func NewRepository(store Store, cache DecisionCache, factory BloomFactory, fpRate float64, clk clock.Clock) Repository {
	return &repository{
		current: domain.NewBlacklist(nil),
		store:   store,
		cache:   cache,
		factory: factory,
		fpRate:  fpRate,
		clock:   clk,
	}
}

// Decide evaluates address against the active blacklist. Only addresses the
// matcher cannot decompose produce an error.
func (r *repository) Decide(address string) (domain.BlacklistDecision, error) {
	candidates, err := domain.Candidates(address)
	if err != nil {
		return domain.AllowDecision(), err
	}
	digests := lo.Map(candidates, func(c string, _ int) string { return domain.Digest(c) })

	r.mu.RLock()
	defer r.mu.RUnlock()

	// 1) checkBloom: early-allow if definitively negative
	if !r.checkBloom(digests) {
		return domain.AllowDecision(), nil
	}
	// 2) checkCache
	if d, ok := r.cache.Get(address); ok {
		return d, nil
	}
	// 3) checkBlacklist
	dec := domain.AllowDecision()
	for i, d := range digests {
		if r.current.Contains(d) {
			dec = domain.BlacklistDecision{Blocked: true, Matched: candidates[i]}
			break
		}
	}
	// 4) updateCache
	r.cache.Put(address, dec)
	return dec, nil
}

// checkBloom returns true if the blacklist must be consulted (maybe-positive).
// Callers hold r.mu.
func (r *repository) checkBloom(digests []string) bool {
	if r.bloom == nil {
		return true
	}
	return lo.SomeBy(digests, func(d string) bool { return r.bloom.MightContain([]byte(d)) })
}

// Replace installs bl as the active blacklist and persists it. The in-memory
// swap happens even when persisting fails; the error is still reported.
func (r *repository) Replace(bl domain.Blacklist) error {
	now := r.clock.Now().Unix()

	r.mu.Lock()
	version := r.version + 1
	r.swap(bl, version, now)
	r.mu.Unlock()

	if err := r.store.Save(Snapshot{Hashes: bl.Hashes(), Version: version, UpdatedUnix: now}); err != nil {
		return fmt.Errorf("persisting blacklist version %d: %w", version, err)
	}
	return nil
}

// Load restores the persisted snapshot, if any.
func (r *repository) Load() (bool, error) {
	snap, ok, err := r.store.Load()
	if err != nil {
		return false, fmt.Errorf("loading blacklist snapshot: %w", err)
	}
	if !ok {
		return false, nil
	}

	r.mu.Lock()
	r.swap(domain.NewBlacklist(snap.Hashes), snap.Version, snap.UpdatedUnix)
	r.mu.Unlock()
	return true, nil
}

// swap rebuilds the Bloom filter for bl and purges the decision cache.
// Callers hold r.mu for writing.
func (r *repository) swap(bl domain.Blacklist, version uint64, updated int64) {
	bf := r.factory.New(uint64(bl.Len()), r.fpRate)
	for _, h := range bl.Hashes() {
		bf.Add([]byte(h))
	}
	r.current = bl
	r.bloom = bf
	r.version = version
	r.updated = updated
	r.cache.Purge()
}

func (r *repository) Current() domain.Blacklist {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

func (r *repository) RepoStats() RepoStats {
	hits, misses, evictions := r.cache.Stats()
	r.mu.RLock()
	defer r.mu.RUnlock()
	return RepoStats{
		Hits:       hits,
		Misses:     misses,
		Evictions:  evictions,
		Size:       r.current.Len(),
		Version:    r.version,
		Store:      r.store.Stats(),
		LastUpdate: r.updated,
	}
}
