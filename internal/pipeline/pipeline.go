// Package pipeline implements the submission state machine shared by every
// media workflow: select a file, simulate its upload, run a processor and
// publish the typed result.
//
// Each Pipeline is owned by a single goroutine. Commands, upload ticks and
// processor outcomes are all handled on that goroutine, so they are totally
// ordered and a cancelled run can never publish again.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/okian/fightlab/internal/domain/media"
	"github.com/okian/fightlab/internal/domain/model"
	"github.com/okian/fightlab/pkg/logger"
	"github.com/okian/fightlab/pkg/metrics"
)

// ProcessFunc turns an uploaded file into a result. It must honor ctx.
type ProcessFunc[R any] func(ctx context.Context, file model.SubmissionFile) (R, error)

type request struct {
	fn    func() error
	reply chan error
}

type outcome[R any] struct {
	result R
	err    error
}

// run is one upload-and-process attempt.
type run[R any] struct {
	submissionID string
	ticker       clockwork.Ticker
	cancel       context.CancelFunc
	outcome      chan outcome[R]
	startedAt    time.Time
}

// Pipeline is a generic submission state machine.
type Pipeline[R any] struct {
	name    string
	process ProcessFunc[R]
	cfg     settings

	cmds   chan request
	events chan Event[R]
	stop   chan struct{}
	done   chan struct{}

	mu      sync.Mutex
	started bool
	closed  bool

	// owned by the loop goroutine
	ctx   context.Context
	state State[R]
	cur   *run[R]
	seq   uint64
}

// New creates a Pipeline named name that runs process after each upload.
func New[R any](name string, process ProcessFunc[R], opts ...Option) *Pipeline[R] {
	cfg := settings{
		clock:        clockwork.NewRealClock(),
		tickInterval: DefaultTickInterval,
		progressStep: DefaultProgressStep,
		eventBuffer:  defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.validator == nil {
		cfg.validator = media.NewValidator()
	}
	if cfg.logger == nil {
		cfg.logger = logger.Get().Named("pipeline")
	}

	p := &Pipeline[R]{
		name:    name,
		process: process,
		cfg:     cfg,
		cmds:    make(chan request),
		events:  make(chan Event[R], cfg.eventBuffer),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	p.state = State[R]{Phase: PhaseIdle, UpdatedAt: cfg.clock.Now()}
	return p
}

// Name returns the pipeline name.
func (p *Pipeline[R]) Name() string { return p.name }

// Start launches the pipeline goroutine. It stops when ctx is done or Close is called.
func (p *Pipeline[R]) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true
	p.ctx = ctx
	go p.loop()
}

// Close stops the pipeline, aborts any in-flight run and closes the event stream.
func (p *Pipeline[R]) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return
	}
	p.closed = true
	started := p.started
	close(p.stop)
	p.mu.Unlock()

	if !started {
		close(p.events)
		close(p.done)
		return
	}
	<-p.done
}

// Events returns the ordered event stream. It is closed when the pipeline stops.
// Consumers must keep draining it; a full buffer stalls the pipeline.
func (p *Pipeline[R]) Events() <-chan Event[R] { return p.events }

// Done is closed once the pipeline goroutine has exited.
func (p *Pipeline[R]) Done() <-chan struct{} { return p.done }

func (p *Pipeline[R]) loop() {
	defer close(p.done)
	defer close(p.events)
	defer p.abort()

	for {
		var tick <-chan time.Time
		var result <-chan outcome[R]
		if p.cur != nil {
			if p.cur.ticker != nil {
				tick = p.cur.ticker.Chan()
			}
			result = p.cur.outcome
		}

		select {
		case <-p.ctx.Done():
			return
		case <-p.stop:
			return
		case req := <-p.cmds:
			req.reply <- req.fn()
		case <-tick:
			p.advance()
		case out := <-result:
			p.finish(out)
		}
	}
}

// do runs fn on the pipeline goroutine and returns its error. ctx only
// bounds the wait for the loop to accept the command.
func (p *Pipeline[R]) do(ctx context.Context, fn func() error) error {
	p.mu.Lock()
	started, closed := p.started, p.closed
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if !started {
		return ErrNotStarted
	}

	req := request{fn: fn, reply: make(chan error, 1)}
	select {
	case p.cmds <- req:
	case <-p.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	// Once accepted the command runs to completion, so its result is
	// reported even if ctx ends meanwhile.
	return <-req.reply
}

// SelectFile validates file and makes it the current submission.
// A refused file leaves the state untouched and emits a rejected event.
func (p *Pipeline[R]) SelectFile(ctx context.Context, file model.SubmissionFile) error {
	return p.do(ctx, func() error {
		if p.state.Phase.InFlight() {
			return &StateError{Op: "select file", Phase: p.state.Phase}
		}
		if err := p.cfg.validator.Validate(file); err != nil {
			reason := media.ReasonOf(err)
			metrics.RecordMediaRejection(reason)
			p.cfg.logger.Info(p.ctx, "file rejected",
				logger.String("pipeline", p.name),
				logger.String("file", file.Name),
				logger.String("reason", reason),
			)
			p.emit(Event[R]{
				Kind:         EventRejected,
				SubmissionID: p.state.SubmissionID,
				Progress:     p.state.Progress,
				Reason:       reason,
			})
			return fmt.Errorf("select file: %w", err)
		}
		p.selectFile(file)
		return nil
	})
}

// Resubmit selects the current file again under a new submission id.
func (p *Pipeline[R]) Resubmit(ctx context.Context) error {
	return p.do(ctx, func() error {
		switch p.state.Phase {
		case PhaseSelected, PhaseComplete, PhaseFailed:
		default:
			return &StateError{Op: "resubmit", Phase: p.state.Phase}
		}
		p.selectFile(*p.state.File)
		return nil
	})
}

// BeginUpload starts the simulated upload of the selected file.
func (p *Pipeline[R]) BeginUpload(ctx context.Context) error {
	return p.do(ctx, func() error {
		if p.state.Phase != PhaseSelected {
			return &StateError{Op: "begin upload", Phase: p.state.Phase}
		}
		p.cur = &run[R]{
			submissionID: p.state.SubmissionID,
			startedAt:    p.cfg.clock.Now(),
		}
		p.transition(PhaseUploading)
		p.state.Progress = 0
		p.emit(Event[R]{Kind: EventProgress, SubmissionID: p.state.SubmissionID})
		p.cur.ticker = p.cfg.clock.NewTicker(p.cfg.tickInterval)
		return nil
	})
}

// Cancel aborts an uploading or processing run and returns to selected.
// No event of the aborted run is delivered after Cancel returns.
func (p *Pipeline[R]) Cancel(ctx context.Context) error {
	return p.do(ctx, func() error {
		phase := p.state.Phase
		if !phase.InFlight() {
			return &StateError{Op: "cancel", Phase: phase}
		}
		aborted := p.state.SubmissionID
		p.abort()
		metrics.RecordCancellation(p.name, string(phase))
		p.cfg.logger.Info(p.ctx, "run cancelled",
			logger.String("pipeline", p.name),
			logger.String("submission_id", aborted),
			logger.String("phase", string(phase)),
		)
		p.emit(Event[R]{Kind: EventCancelled, SubmissionID: aborted, Progress: p.state.Progress})
		p.selectFile(*p.state.File)
		return nil
	})
}

// State returns a snapshot of the pipeline.
func (p *Pipeline[R]) State(ctx context.Context) (State[R], error) {
	ch := make(chan State[R], 1)
	if err := p.do(ctx, func() error {
		ch <- p.state.clone()
		return nil
	}); err != nil {
		return State[R]{}, err
	}
	return <-ch, nil
}

func (p *Pipeline[R]) selectFile(file model.SubmissionFile) {
	p.state.SubmissionID = uuid.NewString()
	p.state.File = &file
	p.state.Progress = 0
	p.state.Result = nil
	p.state.Reason = ""
	p.transition(PhaseSelected)
	p.emit(Event[R]{Kind: EventSelected, SubmissionID: p.state.SubmissionID})
}

// advance handles one upload tick.
func (p *Pipeline[R]) advance() {
	metrics.RecordUploadTick(p.name)
	p.state.Progress = min(p.state.Progress+p.cfg.progressStep, 100)
	p.emit(Event[R]{Kind: EventProgress, SubmissionID: p.state.SubmissionID, Progress: p.state.Progress})
	if p.state.Progress < 100 {
		return
	}

	p.cur.ticker.Stop()
	p.cur.ticker = nil
	p.transition(PhaseProcessing)
	p.emit(Event[R]{Kind: EventProcessing, SubmissionID: p.state.SubmissionID, Progress: 100})

	ctx, cancel := context.WithCancel(p.ctx)
	out := make(chan outcome[R], 1)
	p.cur.cancel = cancel
	p.cur.outcome = out
	p.cur.startedAt = p.cfg.clock.Now()

	file := *p.state.File
	go func() {
		res, err := p.process(ctx, file)
		out <- outcome[R]{result: res, err: err}
	}()
}

// finish applies the outcome of the current run.
func (p *Pipeline[R]) finish(out outcome[R]) {
	cur := p.cur
	cur.cancel()
	p.cur = nil
	latency := float64(p.cfg.clock.Since(cur.startedAt).Milliseconds())

	if out.err != nil {
		perr := &ProcessingError{SubmissionID: cur.submissionID, Err: out.err}
		metrics.RecordProcessingFailure(p.name)
		metrics.RecordProcessingLatency(p.name, string(PhaseFailed), latency)
		metrics.RecordErrorByComponent("pipeline", "processing")
		p.cfg.logger.Warn(p.ctx, "processing failed",
			logger.String("pipeline", p.name),
			logger.String("submission_id", cur.submissionID),
			logger.Float64("latency_ms", latency),
			logger.Error(perr),
		)
		p.state.Reason = out.err.Error()
		p.transition(PhaseFailed)
		p.emit(Event[R]{Kind: EventFailed, SubmissionID: cur.submissionID, Progress: 100, Reason: p.state.Reason, Err: perr})
		return
	}

	metrics.RecordProcessingLatency(p.name, string(PhaseComplete), latency)
	res := out.result
	p.state.Result = &res
	p.transition(PhaseComplete)
	p.cfg.logger.Info(p.ctx, "processing complete",
		logger.String("pipeline", p.name),
		logger.String("submission_id", cur.submissionID),
		logger.Float64("latency_ms", latency),
	)
	eventResult := res
	p.emit(Event[R]{Kind: EventComplete, SubmissionID: cur.submissionID, Progress: 100, Result: &eventResult})
}

// abort stops the ticker and the processor of the current run, if any.
func (p *Pipeline[R]) abort() {
	if p.cur == nil {
		return
	}
	if p.cur.ticker != nil {
		p.cur.ticker.Stop()
	}
	if p.cur.cancel != nil {
		p.cur.cancel()
	}
	p.cur = nil
}

func (p *Pipeline[R]) transition(to Phase) {
	p.state.Phase = to
	p.state.UpdatedAt = p.cfg.clock.Now()
	metrics.RecordPipelineTransition(p.name, string(to))
	p.cfg.logger.Debug(p.ctx, "phase changed",
		logger.String("pipeline", p.name),
		logger.String("phase", string(to)),
		logger.String("submission_id", p.state.SubmissionID),
	)
}

// emit stamps ev and publishes it, blocking while the buffer is full.
func (p *Pipeline[R]) emit(ev Event[R]) {
	p.seq++
	ev.Seq = p.seq
	ev.Pipeline = p.name
	ev.At = p.cfg.clock.Now()
	select {
	case p.events <- ev:
	case <-p.stop:
	case <-p.ctx.Done():
	}
}
