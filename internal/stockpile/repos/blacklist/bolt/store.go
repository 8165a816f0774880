package bolt

import (
	"encoding/binary"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/dotstart/stockpile-go/internal/stockpile/repos/blacklist"
)

var (
	bucketHashes = []byte("hashes")
	bucketMeta   = []byte("meta")

	keyVersion = []byte("version")
	keyUpdated = []byte("updated")
)

// boltStore implements blacklist.Store using bbolt. Digests are keys of the
// hashes bucket; version and update time live in the meta bucket.
type boltStore struct {
	db *bbolt.DB
}

// New opens (or creates) a Bolt database at path and ensures buckets exist.
func New(path string) (blacklist.Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketHashes); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketMeta)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Close() error { return s.db.Close() }

// Save replaces the stored snapshot in a single transaction.
func (s *boltStore) Save(snap blacklist.Snapshot) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketHashes); err != nil {
			return fmt.Errorf("clearing hashes: %w", err)
		}
		b, err := tx.CreateBucket(bucketHashes)
		if err != nil {
			return err
		}
		for _, h := range snap.Hashes {
			if err := b.Put([]byte(h), []byte{1}); err != nil {
				return err
			}
		}
		return putMeta(tx.Bucket(bucketMeta), snap.Version, snap.UpdatedUnix)
	})
}

// Load returns the stored snapshot. A store that was never saved to reports false.
func (s *boltStore) Load() (blacklist.Snapshot, bool, error) {
	var snap blacklist.Snapshot
	var ok bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		v := meta.Get(keyVersion)
		if len(v) != 8 {
			return nil
		}
		ok = true
		snap.Version = binary.BigEndian.Uint64(v)
		if u := meta.Get(keyUpdated); len(u) == 8 {
			snap.UpdatedUnix = int64(binary.BigEndian.Uint64(u))
		}
		b := tx.Bucket(bucketHashes)
		snap.Hashes = make([]string, 0, b.Stats().KeyN)
		return b.ForEach(func(k, _ []byte) error {
			snap.Hashes = append(snap.Hashes, string(k))
			return nil
		})
	})
	if err != nil {
		return blacklist.Snapshot{}, false, err
	}
	return snap, ok, nil
}

func (s *boltStore) Stats() blacklist.StoreStats {
	st := blacklist.StoreStats{}
	_ = s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(bucketHashes); b != nil {
			st.HashCount = uint64(b.Stats().KeyN)
		}
		if b := tx.Bucket(bucketMeta); b != nil {
			if v := b.Get(keyVersion); len(v) == 8 {
				st.Version = binary.BigEndian.Uint64(v)
			}
			if v := b.Get(keyUpdated); len(v) == 8 {
				st.UpdatedUnix = int64(binary.BigEndian.Uint64(v))
			}
		}
		return nil
	})
	return st
}

func putMeta(b *bbolt.Bucket, version uint64, updatedUnix int64) error {
	vbuf := make([]byte, 8)
	ubuf := make([]byte, 8)
	binary.BigEndian.PutUint64(vbuf, version)
	binary.BigEndian.PutUint64(ubuf, uint64(updatedUnix))
	if err := b.Put(keyVersion, vbuf); err != nil {
		return err
	}
	return b.Put(keyUpdated, ubuf)
}
