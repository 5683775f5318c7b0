package analysis

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/okian/fightlab/pkg/logger"
)

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithClock sets the clock used to simulate work.
func WithClock(c clockwork.Clock) Option {
	return func(a *Analyzer) {
		if c != nil {
			a.clock = c
		}
	}
}

// WithDelay sets how long an analysis takes. Zero is allowed.
func WithDelay(d time.Duration) Option {
	return func(a *Analyzer) {
		if d >= 0 {
			a.delay = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}
