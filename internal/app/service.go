// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/okian/fightlab/internal/adapters/repository"
	"github.com/okian/fightlab/internal/domain/analysis"
	"github.com/okian/fightlab/internal/domain/media"
	"github.com/okian/fightlab/internal/domain/model"
	"github.com/okian/fightlab/internal/domain/risk"
	"github.com/okian/fightlab/internal/domain/summary"
	"github.com/okian/fightlab/internal/pipeline"
	"github.com/okian/fightlab/pkg/logger"
	"github.com/okian/fightlab/pkg/metrics"
)

const (
	defaultMaxSessions  = 1024
	defaultEventBuffer  = 64
	defaultEventLogSize = 512
	closeTimeout        = 5 * time.Second
)

// Service implements the API dependencies for the fightlab system.
type Service struct {
	mu sync.RWMutex

	sessions repository.Store[session]

	// Configuration
	clock         clockwork.Clock
	tickInterval  time.Duration
	progressStep  int
	analysisDelay time.Duration
	summaryDelay  time.Duration
	validator     *media.Validator
	maxSessions   int
	eventBuffer   int
	eventLogSize  int

	// State
	started bool
	ctx     context.Context
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		clock:         clockwork.NewRealClock(),
		tickInterval:  pipeline.DefaultTickInterval,
		progressStep:  pipeline.DefaultProgressStep,
		analysisDelay: analysis.DefaultDelay,
		summaryDelay:  summary.DefaultDelay,
		maxSessions:   defaultMaxSessions,
		eventBuffer:   defaultEventBuffer,
		eventLogSize:  defaultEventLogSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.validator == nil {
		s.validator = media.NewValidator()
	}
	return s
}

// Start initializes the session registry. Sessions live until Stop or ctx is done.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.sessions = repository.NewMemoryStore[session](
		repository.WithMaxSessions(s.maxSessions),
		repository.WithResizeHook(metrics.SetActiveSessions),
	)
	s.started = true

	s.logger.Info(ctx, "fightlab service started",
		logger.Int("maxSessions", s.maxSessions),
		logger.Duration("tick", s.tickInterval),
		logger.Int("step", s.progressStep),
		logger.Int64("maxUploadBytes", s.validator.MaxSizeBytes()),
		logger.Bool("sizeLimitEnforced", s.validator.MaxSizeBytes() > 0),
	)
	return nil
}

// Stop closes every session and shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping fightlab service...")
	for _, sess := range s.sessions.List(ctx) {
		if _, err := s.sessions.Delete(ctx, sess.ID()); err != nil {
			continue
		}
		if err := sess.Close(ctx); err != nil {
			s.logger.Warn(ctx, "session close failed", logger.String("session", sess.ID()), logger.Error(err))
		}
	}
	s.cancel()
	s.started = false
	s.logger.Info(ctx, "fightlab service stopped")
}

// PredictRisk validates and scores an athlete profile.
func (s *Service) PredictRisk(ctx context.Context, profile model.AthleteProfile) (model.RiskPrediction, error) {
	if err := risk.Validate(profile); err != nil {
		return model.RiskPrediction{}, err
	}
	pred := risk.Score(profile)
	metrics.RecordRiskPrediction(pred.Level, pred.Risk)
	if s.logger != nil {
		s.logger.Debug(ctx, "risk predicted", logger.Int("risk", pred.Risk), logger.String("level", pred.Level))
	}
	return pred, nil
}

// DefaultProfile returns the starting profile shown to new users.
func (s *Service) DefaultProfile() model.AthleteProfile {
	return risk.NewProfile()
}

// CreateSession starts a new pipeline of the given kind.
func (s *Service) CreateSession(ctx context.Context, kind Kind) (SessionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return SessionView{}, ErrNotStarted
	}

	id := uuid.NewString()
	sess, err := s.newSession(id, kind)
	if err != nil {
		return SessionView{}, err
	}
	if err := s.sessions.Put(ctx, id, sess); err != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		_ = sess.Close(closeCtx)
		metrics.RecordErrorByComponent("service", "session_put")
		return SessionView{}, fmt.Errorf("create session: %w", err)
	}

	metrics.RecordSessionCreated(string(kind))
	s.logger.Info(ctx, "session created", logger.String("session", id), logger.String("kind", string(kind)))
	return sess.View(ctx)
}

func (s *Service) newSession(id string, kind Kind) (session, error) {
	plog := s.logger.Named(string(kind))
	now := s.clock.Now()

	switch kind {
	case KindAnalysis:
		a := analysis.NewAnalyzer(
			analysis.WithClock(s.clock),
			analysis.WithDelay(s.analysisDelay),
			analysis.WithLogger(plog),
		)
		pipe := pipeline.New[model.AnalysisResult](string(kind), a.Process, s.pipelineOptions(plog)...)
		return newTypedSession(s.ctx, id, kind, now, pipe, s.eventLogSize), nil
	case KindSummary:
		sm := summary.NewSummarizer(
			summary.WithClock(s.clock),
			summary.WithDelay(s.summaryDelay),
			summary.WithLogger(plog),
		)
		pipe := pipeline.New[model.SummaryResult](string(kind), sm.Process, s.pipelineOptions(plog)...)
		return newTypedSession(s.ctx, id, kind, now, pipe, s.eventLogSize), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func (s *Service) pipelineOptions(l logger.Logger) []pipeline.Option {
	return []pipeline.Option{
		pipeline.WithClock(s.clock),
		pipeline.WithTickInterval(s.tickInterval),
		pipeline.WithProgressStep(s.progressStep),
		pipeline.WithValidator(s.validator),
		pipeline.WithEventBuffer(s.eventBuffer),
		pipeline.WithLogger(l),
	}
}

func (s *Service) lookup(ctx context.Context, id string) (session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.sessions.Get(ctx, id)
}

// SelectFile validates and selects a file for session id.
func (s *Service) SelectFile(ctx context.Context, id string, file model.SubmissionFile) error {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	return sess.SelectFile(ctx, file)
}

// BeginUpload starts the upload for session id.
func (s *Service) BeginUpload(ctx context.Context, id string) error {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	return sess.BeginUpload(ctx)
}

// Resubmit selects the current file of session id again.
func (s *Service) Resubmit(ctx context.Context, id string) error {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	return sess.Resubmit(ctx)
}

// Cancel aborts the in-flight run of session id.
func (s *Service) Cancel(ctx context.Context, id string) error {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	return sess.Cancel(ctx)
}

// Session returns the current view of session id.
func (s *Service) Session(ctx context.Context, id string) (SessionView, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	return sess.View(ctx)
}

// Events returns the logged events of session id with sequence greater than after.
func (s *Service) Events(ctx context.Context, id string, after uint64) ([]EventView, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.Events(after), nil
}

// CloseSession stops and forgets session id.
func (s *Service) CloseSession(ctx context.Context, id string) error {
	s.mu.RLock()
	if !s.started {
		s.mu.RUnlock()
		return ErrNotStarted
	}
	sess, err := s.sessions.Delete(ctx, id)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := sess.Close(closeCtx); err != nil {
		return err
	}
	s.logger.Info(ctx, "session closed", logger.String("session", id))
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"maxSessions":  s.maxSessions,
		"tickInterval": s.tickInterval.String(),
		"progressStep": s.progressStep,
	}
	if !s.started {
		return stats
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	byKind := map[string]int{}
	byPhase := map[string]int{}
	all := s.sessions.List(ctx)
	for _, sess := range all {
		byKind[string(sess.Kind())]++
		if v, err := sess.View(ctx); err == nil {
			byPhase[string(v.Phase)]++
		}
	}
	stats["sessions"] = len(all)
	stats["sessionsByKind"] = byKind
	stats["sessionsByPhase"] = byPhase

	metrics.SetActiveSessions(len(all))
	return stats
}
