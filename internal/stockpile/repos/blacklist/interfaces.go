package blacklist

import "github.com/dotstart/stockpile-go/internal/stockpile/domain"

// BloomSizer computes Bloom filter parameters from capacity (n) and target FP rate (p).
// It returns m (number of bits) and k (number of hash functions).
type BloomSizer interface {
	Size(n uint64, p float64) (m uint64, k uint8)
}

// BloomFilter is the minimal interface the repository needs from Bloom filters.
type BloomFilter interface {
	Add(key []byte)
	MightContain(key []byte) bool
}

// BloomFactory builds filters sized for a dataset.
type BloomFactory interface {
	New(capacity uint64, fpRate float64) BloomFilter
}

// DecisionCache caches blacklist decisions by address with basic metrics.
type DecisionCache interface {
	Get(address string) (domain.BlacklistDecision, bool)
	Put(address string, d domain.BlacklistDecision)
	Len() int
	Purge()
	Stats() (hits, misses, evictions uint64)
}

// Snapshot is the persisted form of a blacklist.
type Snapshot struct {
	Hashes      []string
	Version     uint64
	UpdatedUnix int64 // seconds since epoch
}

// StoreStats captures counts and metadata of the persistent store.
type StoreStats struct {
	HashCount   uint64
	Version     uint64
	UpdatedUnix int64
}

// Store persists the last known blacklist so that a restarted client can
// enforce it before the server is reachable.
type Store interface {
	Save(s Snapshot) error
	// Load reports false when nothing has been saved yet.
	Load() (Snapshot, bool, error)
	Stats() StoreStats
	Close() error
}

// RepoStats exposes repository-level counters and underlying store stats.
type RepoStats struct {
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Size       int // digests in the active blacklist
	Version    uint64
	Store      StoreStats
	LastUpdate int64 // seconds since epoch
}

// Repository is the composition layer that wires bloom → cache → blacklist.
// Decide evaluates an address against the active blacklist.
// Replace swaps the active blacklist, persists it and clears the cache.
// Load restores the persisted blacklist.
type Repository interface {
	Decide(address string) (domain.BlacklistDecision, error)
	Replace(bl domain.Blacklist) error
	Load() (bool, error)
	Current() domain.Blacklist
	RepoStats() RepoStats
}
