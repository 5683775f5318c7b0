package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel kinds for pipeline errors.
var (
	ErrInvalidState = errors.New("operation not allowed in current phase")
	ErrProcessing   = errors.New("processing failed")
	ErrClosed       = errors.New("pipeline closed")
	ErrNotStarted   = errors.New("pipeline not started")
)

// StateError reports an operation attempted in a phase that does not allow it.
type StateError struct {
	Op    string
	Phase Phase
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s while %s", ErrInvalidState, e.Op, e.Phase)
}

// Is makes errors.Is(err, ErrInvalidState) match.
func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}

// ProcessingError wraps the error returned by a processor run.
type ProcessingError struct {
	SubmissionID string
	Err          error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: submission %s: %v", ErrProcessing, e.SubmissionID, e.Err)
}

func (e *ProcessingError) Unwrap() []error {
	return []error{ErrProcessing, e.Err}
}
