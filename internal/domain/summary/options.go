package summary

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/okian/fightlab/pkg/logger"
)

// Option applies a configuration option to the Summarizer.
type Option func(*Summarizer)

// WithClock sets the clock used to simulate work.
func WithClock(c clockwork.Clock) Option {
	return func(s *Summarizer) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithDelay sets how long a summarization takes. Zero is allowed.
func WithDelay(d time.Duration) Option {
	return func(s *Summarizer) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Summarizer) {
		if l != nil {
			s.logger = l
		}
	}
}
