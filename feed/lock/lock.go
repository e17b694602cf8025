package lock

import (
	"encoding/binary"
	"time"

	"github.com/pkg/errors"

	"github.com/foresta-global/pricefeed/feed/localstore"
)

// ErrHeld reports that another worker tick currently owns the fetch lock.
// Losing the race is an expected no-op, not a failure.
var ErrHeld = errors.New("fetch lock held by a concurrent tick")

var lockKey = []byte("pricefeed/fetch-lock")

// FetchLock guards the fetch-and-submit cycle so overlapping block
// notifications run at most one fetch per node. The lock lives in local
// scratch storage with a bounded expiry, so a tick that crashes mid-fetch
// cannot dead-lock the worker permanently.
type FetchLock struct {
	store  *localstore.Store
	expiry time.Duration
}

func New(store *localstore.Store, expiry time.Duration) *FetchLock {
	return &FetchLock{
		store:  store,
		expiry: expiry,
	}
}

// TryAcquire takes the lock via compare-and-set: the stored expiry is read,
// checked, and replaced only if it is still the value that was read. ErrHeld
// means an unexpired holder exists or the race was lost.
func (l *FetchLock) TryAcquire(now time.Time) error {
	current, err := l.store.Get(lockKey)
	if err != nil {
		return errors.Wrap(err, "read fetch lock")
	}

	if len(current) == 8 {
		deadline := time.Unix(0, int64(binary.BigEndian.Uint64(current)))
		if now.Before(deadline) {
			return ErrHeld
		}
	}

	next := make([]byte, 8)
	binary.BigEndian.PutUint64(next, uint64(now.Add(l.expiry).UnixNano()))

	swapped, err := l.store.CompareAndSet(lockKey, current, next)
	if err != nil {
		return errors.Wrap(err, "write fetch lock")
	}
	if !swapped {
		return ErrHeld
	}

	return nil
}

// Release drops the lock. Safe to call when the lock has already expired.
func (l *FetchLock) Release() error {
	return errors.Wrap(l.store.Delete(lockKey), "release fetch lock")
}
