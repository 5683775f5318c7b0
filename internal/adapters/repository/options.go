// Package repository holds live sessions and their event logs in process memory.
package repository

// Default repository configuration constants.
const (
	DefaultMaxItems    = 1024
	DefaultLogCapacity = 512
)

type settings struct {
	maxItems    int
	logCapacity int
	onResize    func(n int)
}

// Option applies a configuration option to a MemoryStore or EventLog.
type Option func(*settings)

func newSettings(opts []Option) settings {
	s := settings{
		maxItems:    DefaultMaxItems,
		logCapacity: DefaultLogCapacity,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithMaxSessions bounds how many sessions a MemoryStore holds.
func WithMaxSessions(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxItems = n
		}
	}
}

// WithLogCapacity bounds how many events an EventLog retains.
func WithLogCapacity(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.logCapacity = n
		}
	}
}

// WithResizeHook is called with the new item count after every Put or Delete.
func WithResizeHook(fn func(n int)) Option {
	return func(s *settings) {
		s.onResize = fn
	}
}
