package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSession struct {
	wager int64
}

func TestRegistry(t *testing.T) {
	t.Run("create and get round-trip", func(t *testing.T) {
		r := NewRegistry[testSession]()

		require.NoError(t, r.Create(1, &testSession{wager: 100}))

		s, err := r.Get(1)
		require.NoError(t, err)
		assert.Equal(t, int64(100), s.wager)
	})

	t.Run("one session per user", func(t *testing.T) {
		r := NewRegistry[testSession]()

		require.NoError(t, r.Create(1, &testSession{wager: 100}))
		err := r.Create(1, &testSession{wager: 200})
		assert.ErrorIs(t, err, ErrSessionActive)

		// The original session survives.
		s, err := r.Get(1)
		require.NoError(t, err)
		assert.Equal(t, int64(100), s.wager)
	})

	t.Run("get without session", func(t *testing.T) {
		r := NewRegistry[testSession]()

		_, err := r.Get(1)
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		r := NewRegistry[testSession]()

		require.NoError(t, r.Create(1, &testSession{}))
		r.Remove(1)
		r.Remove(1)

		_, err := r.Get(1)
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("users are independent", func(t *testing.T) {
		r := NewRegistry[testSession]()

		require.NoError(t, r.Create(1, &testSession{wager: 1}))
		require.NoError(t, r.Create(2, &testSession{wager: 2}))
		assert.Equal(t, 2, r.Len())

		r.Remove(1)
		assert.Equal(t, 1, r.Len())

		s, err := r.Get(2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), s.wager)
	})
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry[testSession]()

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0

	// Many goroutines race to create the same user's session; exactly one
	// must win.
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Create(1, &testSession{}); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, 1, r.Len())
}
