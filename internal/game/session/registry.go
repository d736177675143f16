// Package session provides the per-user session registry shared by the
// session-based game engines. Each engine owns one Registry instance, which
// enforces at most one active session of that game kind per user.
package session

import (
	"errors"
	"sync"
)

// Registry errors.
var (
	// ErrSessionActive is returned when a user already has an active session
	// of this game kind and attempts to create another.
	ErrSessionActive = errors.New("user already has an active session")

	// ErrNoSession is returned when the user has no active session.
	ErrNoSession = errors.New("no active session")
)

// Registry maps user IDs to their active session of one game kind.
type Registry[S any] struct {
	sessions map[int64]*S
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry[S any]() *Registry[S] {
	return &Registry[S]{
		sessions: make(map[int64]*S),
	}
}

// Create stores a session for the user. Fails with ErrSessionActive if one
// already exists.
func (r *Registry[S]) Create(userID int64, s *S) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[userID]; exists {
		return ErrSessionActive
	}
	r.sessions[userID] = s
	return nil
}

// Get returns the user's active session, or ErrNoSession.
func (r *Registry[S]) Get(userID int64) (*S, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[userID]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// Remove deletes the user's session. Idempotent; removing an absent session
// is a no-op.
func (r *Registry[S]) Remove(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// Len returns the number of active sessions.
func (r *Registry[S]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
