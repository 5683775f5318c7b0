package repository

import (
	"context"
	"fmt"
	"sync"
)

// Store provides keyed access to live sessions.
type Store[T any] interface {
	// Put adds v under id. Returns ErrCapacity when full and ErrDuplicate if id is taken.
	Put(ctx context.Context, id string, v T) error

	// Get returns the value for id or ErrNotFound.
	Get(ctx context.Context, id string) (T, error)

	// Delete removes id and returns the removed value or ErrNotFound.
	Delete(ctx context.Context, id string) (T, error)

	// Count returns the number of stored values.
	Count(ctx context.Context) int

	// List returns all values in insertion order.
	List(ctx context.Context) []T
}

// MemoryStore is a bounded, mutex-guarded Store.
type MemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
	cfg   settings
}

var _ Store[int] = (*MemoryStore[int])(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore[T any](opts ...Option) *MemoryStore[T] {
	return &MemoryStore[T]{
		items: make(map[string]T),
		cfg:   newSettings(opts),
	}
}

// Put adds v under id.
func (s *MemoryStore[T]) Put(_ context.Context, id string, v T) error {
	s.mu.Lock()
	if _, ok := s.items[id]; ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicate, id)
	}
	if len(s.items) >= s.cfg.maxItems {
		s.mu.Unlock()
		return fmt.Errorf("%w: limit %d", ErrCapacity, s.cfg.maxItems)
	}
	s.items[id] = v
	s.order = append(s.order, id)
	n := len(s.items)
	s.mu.Unlock()

	s.resized(n)
	return nil
}

// Get returns the value for id.
func (s *MemoryStore[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return v, nil
}

// Delete removes id.
func (s *MemoryStore[T]) Delete(_ context.Context, id string) (T, error) {
	s.mu.Lock()
	v, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.items, id)
	for i, k := range s.order {
		if k == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	n := len(s.items)
	s.mu.Unlock()

	s.resized(n)
	return v, nil
}

// Count returns the number of stored values.
func (s *MemoryStore[T]) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// List returns all values in insertion order.
func (s *MemoryStore[T]) List(_ context.Context) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

func (s *MemoryStore[T]) resized(n int) {
	if s.cfg.onResize != nil {
		s.cfg.onResize(n)
	}
}
