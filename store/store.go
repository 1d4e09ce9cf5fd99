// Package store wraps badger as the engine's embedded persistent KV layer:
// a thin transactional wrapper (Open/Update/View around a single
// *badger.DB) over a plain byte-key-value store.
package store

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/spaolacci/murmur3"

	"github.com/strikevault/core/logs"
)

// Store is a thin transactional wrapper around a badger database.
type Store struct {
	db *badger.DB
}

// Open opens (creating if absent) a badger database rooted at dataDir.
func Open(dataDir string) (*Store, error) {
	opts := badger.DefaultOptions(dataDir).
		WithSyncWrites(true). // treasury/nonce durability is load-bearing
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Update runs fn inside a read-write transaction. A badger.ErrConflict
// surfaces unwrapped: callers treat it as a retry signal, not a domain
// rejection.
func (s *Store) Update(fn func(txn *badger.Txn) error) error {
	return s.db.Update(fn)
}

// View runs fn inside a read-only transaction.
func (s *Store) View(fn func(txn *badger.Txn) error) error {
	return s.db.View(fn)
}

// Get fetches a single key outside of any caller-managed transaction,
// returning (nil, false, nil) if the key is absent.
func (s *Store) Get(key []byte) ([]byte, bool, error) {
	var val []byte
	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		val, err = item.ValueCopy(nil)
		return err
	})
	return val, found, err
}

// Set writes a single key outside of any caller-managed transaction.
func (s *Store) Set(key, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// ShardLabel buckets a key onto one of n log-partition labels using a
// non-cryptographic hash, purely for observability (grouping related log
// lines), never for key placement or security decisions.
func ShardLabel(key []byte, n uint32) uint32 {
	if n == 0 {
		n = 1
	}
	return murmur3.Sum32(key) % n
}

// LogOpenError is a convenience wrapper so callers log consistently when
// Open fails.
func LogOpenError(dataDir string, err error) {
	logs.Error("failed to open store at %s: %v", dataDir, err)
}
