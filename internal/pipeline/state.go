package pipeline

import (
	"time"

	"github.com/okian/fightlab/internal/domain/model"
)

// Phase is the lifecycle position of a pipeline.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSelected   Phase = "selected"
	PhaseUploading  Phase = "uploading"
	PhaseProcessing Phase = "processing"
	PhaseComplete   Phase = "complete"
	PhaseFailed     Phase = "failed"
)

// InFlight reports whether a run is uploading or processing.
func (p Phase) InFlight() bool {
	return p == PhaseUploading || p == PhaseProcessing
}

// EventKind names what happened.
type EventKind string

const (
	EventSelected   EventKind = "selected"
	EventRejected   EventKind = "rejected"
	EventProgress   EventKind = "progress"
	EventProcessing EventKind = "processing"
	EventComplete   EventKind = "complete"
	EventFailed     EventKind = "failed"
	EventCancelled  EventKind = "cancelled"
)

// State is a snapshot of a pipeline.
type State[R any] struct {
	Phase        Phase                 `json:"phase"`
	SubmissionID string                `json:"submission_id,omitempty"`
	File         *model.SubmissionFile `json:"file,omitempty"`
	Progress     int                   `json:"progress"`
	Result       *R                    `json:"result,omitempty"`
	Reason       string                `json:"reason,omitempty"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// Event is one entry of a pipeline's ordered event stream.
type Event[R any] struct {
	Seq          uint64    `json:"seq"`
	Kind         EventKind `json:"kind"`
	Pipeline     string    `json:"pipeline"`
	SubmissionID string    `json:"submission_id,omitempty"`
	Progress     int       `json:"progress"`
	Result       *R        `json:"result,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	At           time.Time `json:"at"`

	// Err is set on failed events and wraps ErrProcessing.
	Err error `json:"-"`
}

func (s State[R]) clone() State[R] {
	out := s
	if s.File != nil {
		f := *s.File
		out.File = &f
	}
	if s.Result != nil {
		r := *s.Result
		out.Result = &r
	}
	return out
}
