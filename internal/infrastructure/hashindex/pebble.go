// Package hashindex persists the content-hash to target-path index used by
// the deduplication pass. Backed by a pebble key-value store so repeated
// runs over the same campaign reuse earlier assignments.
package hashindex

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

// Store is a pebble-backed hash index.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) the index at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("opening hash index: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the target path recorded for a content hash, or "" if the
// hash has not been seen.
func (s *Store) Get(hash string) (string, error) {
	data, closer, err := s.db.Get([]byte(hash))
	if errors.Is(err, pebble.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading hash index: %w", err)
	}
	defer closer.Close()
	return string(data), nil
}

// Put records the target path chosen for a content hash.
func (s *Store) Put(hash, targetPath string) error {
	if err := s.db.Set([]byte(hash), []byte(targetPath), pebble.NoSync); err != nil {
		return fmt.Errorf("writing hash index: %w", err)
	}
	return nil
}

// Close flushes and closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}
