package localstore

import (
	"bytes"
	"sync"

	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"
)

// Store is the node-local scratch key-value store of the daemon. It is never
// replicated and never visible to other nodes. The compare-and-set primitive
// is what concurrent worker ticks race on.
type Store struct {
	mu sync.Mutex
	db dbm.DB
}

// New wraps an opened tm-db backend.
func New(db dbm.DB) *Store {
	return &Store{db: db}
}

// NewMemory returns an in-memory store, used in tests and as the default
// backend of a fresh daemon.
func NewMemory() *Store {
	return New(dbm.NewMemDB())
}

func (s *Store) Get(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := s.db.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "local store get")
	}
	return value, nil
}

func (s *Store) Set(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return errors.Wrap(s.db.Set(key, value), "local store set")
}

func (s *Store) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return errors.Wrap(s.db.Delete(key), "local store delete")
}

// CompareAndSet writes value only if the stored bytes still equal old; a nil
// old requires the key to be absent. It reports whether the swap happened.
func (s *Store) CompareAndSet(key, old, value []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.db.Get(key)
	if err != nil {
		return false, errors.Wrap(err, "local store compare-and-set read")
	}

	if !bytes.Equal(current, old) {
		return false, nil
	}

	if err := s.db.Set(key, value); err != nil {
		return false, errors.Wrap(err, "local store compare-and-set write")
	}

	return true, nil
}
