package pipeline

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/okian/fightlab/internal/domain/media"
	"github.com/okian/fightlab/pkg/logger"
)

// Default pipeline configuration constants.
const (
	DefaultTickInterval = 200 * time.Millisecond
	DefaultProgressStep = 5
	defaultEventBuffer  = 64
)

type settings struct {
	clock        clockwork.Clock
	tickInterval time.Duration
	progressStep int
	validator    *media.Validator
	eventBuffer  int
	logger       logger.Logger
}

// Option applies a configuration option to a Pipeline.
type Option func(*settings)

// WithClock sets the clock driving upload ticks and event timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *settings) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithTickInterval sets the time between upload progress increments.
func WithTickInterval(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithProgressStep sets the percentage added per tick.
func WithProgressStep(n int) Option {
	return func(s *settings) {
		if n > 0 && n <= 100 {
			s.progressStep = n
		}
	}
}

// WithValidator sets the validator used by SelectFile.
func WithValidator(v *media.Validator) Option {
	return func(s *settings) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithEventBuffer sets the capacity of the events channel.
func WithEventBuffer(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.eventBuffer = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
