// Package lock provides per-user mutual exclusion for session and balance
// operations. Two rapid inputs from the same user must not mutate the same
// session concurrently; inputs from different users never contend.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLockTimeout is returned when a user's lock cannot be acquired before
// the deadline.
var ErrLockTimeout = errors.New("lock acquisition timeout")

// UserLock serializes operations per user ID.
type UserLock struct {
	locks sync.Map // map[int64]*sync.Mutex
}

// NewUserLock creates a new UserLock instance.
func NewUserLock() *UserLock {
	return &UserLock{}
}

func (ul *UserLock) get(userID int64) *sync.Mutex {
	if v, ok := ul.locks.Load(userID); ok {
		return v.(*sync.Mutex)
	}
	v, _ := ul.locks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Lock acquires the lock for a user.
func (ul *UserLock) Lock(userID int64) {
	ul.get(userID).Lock()
}

// Unlock releases the lock for a user.
func (ul *UserLock) Unlock(userID int64) {
	ul.get(userID).Unlock()
}

// TryLock attempts to acquire the lock without blocking.
func (ul *UserLock) TryLock(userID int64) bool {
	return ul.get(userID).TryLock()
}

// WithLock executes fn while holding the user's lock. The lock is released
// on every exit path, including panics inside fn.
func (ul *UserLock) WithLock(userID int64, fn func() error) error {
	ul.Lock(userID)
	defer ul.Unlock(userID)
	return fn()
}

// WithLockContext executes fn while holding the user's lock, giving up after
// the timeout. Returns ErrLockTimeout if the lock could not be acquired.
func (ul *UserLock) WithLockContext(ctx context.Context, userID int64, timeout time.Duration, fn func() error) error {
	mu := ul.get(userID)

	acquired := make(chan struct{})
	go func() {
		mu.Lock()
		close(acquired)
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-acquired:
		defer mu.Unlock()
		return fn()
	case <-timeoutCtx.Done():
		// The pending goroutine will eventually acquire the lock; make sure
		// it is released again so the user is not wedged.
		go func() {
			<-acquired
			mu.Unlock()
		}()
		return ErrLockTimeout
	}
}
