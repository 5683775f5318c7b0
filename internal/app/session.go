package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/fightlab/internal/adapters/mq/worker"
	"github.com/okian/fightlab/internal/adapters/repository"
	"github.com/okian/fightlab/internal/domain/model"
	"github.com/okian/fightlab/internal/pipeline"
)

// Kind selects which processor a session runs.
type Kind string

const (
	KindAnalysis Kind = "analysis"
	KindSummary  Kind = "summary"
)

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindAnalysis, KindSummary:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// SessionView is the rendered state of a session.
type SessionView struct {
	ID           string                `json:"id"`
	Kind         Kind                  `json:"kind"`
	CreatedAt    time.Time             `json:"created_at"`
	Phase        pipeline.Phase        `json:"phase"`
	SubmissionID string                `json:"submission_id,omitempty"`
	File         *model.SubmissionFile `json:"file,omitempty"`
	Progress     int                   `json:"progress"`
	Reason       string                `json:"reason,omitempty"`
	Result       any                   `json:"result,omitempty"`
	UpdatedAt    time.Time             `json:"updated_at"`
	LastSeq      uint64                `json:"last_seq"`
}

// EventView is a rendered pipeline event.
type EventView struct {
	Seq          uint64             `json:"seq"`
	Kind         pipeline.EventKind `json:"kind"`
	SubmissionID string             `json:"submission_id,omitempty"`
	Progress     int                `json:"progress"`
	Reason       string             `json:"reason,omitempty"`
	Result       any                `json:"result,omitempty"`
	At           time.Time          `json:"at"`
}

// session hides the result type of the pipeline it drives.
type session interface {
	ID() string
	Kind() Kind
	SelectFile(ctx context.Context, file model.SubmissionFile) error
	BeginUpload(ctx context.Context) error
	Resubmit(ctx context.Context) error
	Cancel(ctx context.Context) error
	View(ctx context.Context) (SessionView, error)
	Events(after uint64) []EventView
	Close(ctx context.Context) error
}

// typedSession owns one pipeline, the drainer feeding its log, and the log.
type typedSession[R any] struct {
	id        string
	kind      Kind
	createdAt time.Time

	pipe    *pipeline.Pipeline[R]
	log     *repository.EventLog[pipeline.Event[R]]
	drainer *worker.Drainer[R]
}

func newTypedSession[R any](ctx context.Context, id string, kind Kind, createdAt time.Time,
	pipe *pipeline.Pipeline[R], logSize int,
) *typedSession[R] {
	log := repository.NewEventLog(func(ev pipeline.Event[R]) uint64 { return ev.Seq },
		repository.WithLogCapacity(logSize))
	drainer := worker.NewDrainer[R](pipe.Events(), log, worker.WithName(string(kind)+"-"+id))

	s := &typedSession[R]{
		id:        id,
		kind:      kind,
		createdAt: createdAt,
		pipe:      pipe,
		log:       log,
		drainer:   drainer,
	}
	pipe.Start(ctx)
	go drainer.Run(ctx)
	return s
}

func (s *typedSession[R]) ID() string { return s.id }
func (s *typedSession[R]) Kind() Kind { return s.kind }

func (s *typedSession[R]) SelectFile(ctx context.Context, file model.SubmissionFile) error {
	return s.pipe.SelectFile(ctx, file)
}

func (s *typedSession[R]) BeginUpload(ctx context.Context) error { return s.pipe.BeginUpload(ctx) }
func (s *typedSession[R]) Resubmit(ctx context.Context) error    { return s.pipe.Resubmit(ctx) }
func (s *typedSession[R]) Cancel(ctx context.Context) error      { return s.pipe.Cancel(ctx) }

func (s *typedSession[R]) View(ctx context.Context) (SessionView, error) {
	st, err := s.pipe.State(ctx)
	if err != nil {
		return SessionView{}, err
	}
	v := SessionView{
		ID:           s.id,
		Kind:         s.kind,
		CreatedAt:    s.createdAt,
		Phase:        st.Phase,
		SubmissionID: st.SubmissionID,
		File:         st.File,
		Progress:     st.Progress,
		Reason:       st.Reason,
		UpdatedAt:    st.UpdatedAt,
	}
	if st.Result != nil {
		v.Result = *st.Result
	}
	if last, ok := s.log.Last(); ok {
		v.LastSeq = last.Seq
	}
	return v, nil
}

func (s *typedSession[R]) Events(after uint64) []EventView {
	evs := s.log.Since(after)
	out := make([]EventView, len(evs))
	for i, ev := range evs {
		out[i] = EventView{
			Seq:          ev.Seq,
			Kind:         ev.Kind,
			SubmissionID: ev.SubmissionID,
			Progress:     ev.Progress,
			Reason:       ev.Reason,
			At:           ev.At,
		}
		if ev.Result != nil {
			out[i].Result = *ev.Result
		}
	}
	return out
}

// Close stops the pipeline and waits for the drainer to flush the remaining events.
func (s *typedSession[R]) Close(ctx context.Context) error {
	s.pipe.Close()
	select {
	case <-s.drainer.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("close session %s: %w", s.id, ctx.Err())
	}
}
