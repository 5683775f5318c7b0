package repository

import (
	"sort"
	"sync"
)

// EventLog is an append-only, bounded log of sequenced entries.
// Once full, the oldest entries are dropped.
type EventLog[E any] struct {
	mu      sync.RWMutex
	entries []E
	seqOf   func(E) uint64
	cap     int
	dropped uint64
}

// NewEventLog creates a log; seqOf must return strictly increasing values in append order.
func NewEventLog[E any](seqOf func(E) uint64, opts ...Option) *EventLog[E] {
	cfg := newSettings(opts)
	return &EventLog[E]{
		entries: make([]E, 0, min(cfg.logCapacity, 64)),
		seqOf:   seqOf,
		cap:     cfg.logCapacity,
	}
}

// Append adds e to the end of the log.
func (l *EventLog[E]) Append(e E) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == l.cap {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
		l.dropped++
	}
	l.entries = append(l.entries, e)
}

// Since returns the entries whose sequence is greater than after, oldest first.
func (l *EventLog[E]) Since(after uint64) []E {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := sort.Search(len(l.entries), func(i int) bool {
		return l.seqOf(l.entries[i]) > after
	})
	out := make([]E, len(l.entries)-i)
	copy(out, l.entries[i:])
	return out
}

// Last returns the newest entry.
func (l *EventLog[E]) Last() (E, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		var zero E
		return zero, false
	}
	return l.entries[len(l.entries)-1], true
}

// Len returns the number of retained entries.
func (l *EventLog[E]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Dropped returns how many entries were evicted to respect the capacity.
func (l *EventLog[E]) Dropped() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dropped
}
