package roulette

import (
	"sync"
	"time"
)

// Entry is one recorded spin outcome.
type Entry struct {
	Number int
	Color  Color
	At     time.Time
}

// History is a bounded log of spin outcomes shared by all users.
// When full, the oldest entry is evicted first.
type History struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
}

// NewHistory creates a history with the given capacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{capacity: capacity}
}

// Add records an outcome, evicting the oldest entry at capacity.
func (h *History) Add(number int, color Color) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, Entry{Number: number, Color: color, At: time.Now()})
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}
}

// Last returns up to n entries, newest first.
func (h *History) Last(n int) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		out[i] = h.entries[len(h.entries)-1-i]
	}
	return out
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
