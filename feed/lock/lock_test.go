package lock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foresta-global/pricefeed/feed/localstore"
)

func TestTryAcquireAndRelease(t *testing.T) {
	l := New(localstore.NewMemory(), 30*time.Second)
	now := time.Now()

	require.NoError(t, l.TryAcquire(now))

	// Second acquisition within the expiry window loses
	assert.ErrorIs(t, l.TryAcquire(now.Add(time.Second)), ErrHeld)

	require.NoError(t, l.Release())
	assert.NoError(t, l.TryAcquire(now.Add(2*time.Second)))
}

func TestExpiredLockIsReacquirable(t *testing.T) {
	l := New(localstore.NewMemory(), 10*time.Second)
	now := time.Now()

	require.NoError(t, l.TryAcquire(now))

	// A crashed holder never releases; the expiry unblocks the next tick
	assert.ErrorIs(t, l.TryAcquire(now.Add(9*time.Second)), ErrHeld)
	assert.NoError(t, l.TryAcquire(now.Add(11*time.Second)))
}

func TestConcurrentTicksAcquireOnce(t *testing.T) {
	l := New(localstore.NewMemory(), 30*time.Second)
	now := time.Now()

	const ticks = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	acquired := 0

	for i := 0; i < ticks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.TryAcquire(now); err == nil {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, acquired)
}
