// Package random isolates the randomness used by the game engines behind a
// small capability interface, so tests can substitute deterministic draws.
package random

import (
	"math/rand"
	"sync"
	"time"
)

// Source provides the random draws the engines need.
type Source interface {
	// Intn returns a uniform value in [0, n).
	Intn(n int) int

	// Sample returns k distinct values drawn uniformly without replacement
	// from [0, n). Panics if k > n.
	Sample(n, k int) []int
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Source seeded from the current time, safe for concurrent use.
func New() Source {
	return &lockedSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeeded returns a Source with a fixed seed, safe for concurrent use.
func NewSeeded(seed int64) Source {
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *lockedSource) Sample(n, k int) []int {
	if k > n {
		panic("random: sample size exceeds population")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	perm := s.rng.Perm(n)
	out := make([]int, k)
	copy(out, perm[:k])
	return out
}
