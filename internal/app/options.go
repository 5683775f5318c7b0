package service

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/okian/fightlab/internal/domain/media"
	"github.com/okian/fightlab/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock shared by pipelines and processors.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithTickInterval sets the upload tick interval.
func WithTickInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithProgressStep sets the upload progress added per tick.
func WithProgressStep(n int) Option {
	return func(s *Service) {
		if n > 0 && n <= 100 {
			s.progressStep = n
		}
	}
}

// WithAnalysisDelay sets the simulated analysis latency.
func WithAnalysisDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.analysisDelay = d
		}
	}
}

// WithSummaryDelay sets the simulated summarization latency.
func WithSummaryDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.summaryDelay = d
		}
	}
}

// WithValidator sets the media validator used by every session.
func WithValidator(v *media.Validator) Option {
	return func(s *Service) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithMaxSessions bounds concurrently held sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithEventBuffer sets the per-pipeline event channel capacity.
func WithEventBuffer(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.eventBuffer = n
		}
	}
}

// WithEventLogSize sets how many events each session retains.
func WithEventLogSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.eventLogSize = n
		}
	}
}
