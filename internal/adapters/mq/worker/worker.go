// Package worker drains pipeline event streams into session logs.
package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/fightlab/internal/pipeline"
	"github.com/okian/fightlab/pkg/logger"
	"github.com/okian/fightlab/pkg/metrics"
)

// Sink receives drained events in order.
type Sink[R any] interface {
	Append(ev pipeline.Event[R])
}

// SinkFunc adapts a function to Sink.
type SinkFunc[R any] func(ev pipeline.Event[R])

// Append calls f.
func (f SinkFunc[R]) Append(ev pipeline.Event[R]) { f(ev) }

// Worker drains events until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the source closes.
	Run(ctx context.Context)

	// Shutdown stops the worker and waits for it to exit.
	Shutdown(ctx context.Context) error
}

// Drainer copies every event from a pipeline's stream to a Sink.
type Drainer[R any] struct {
	source <-chan pipeline.Event[R]
	sink   Sink[R]
	name   string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

var _ Worker = (*Drainer[int])(nil)

// NewDrainer creates a Drainer reading source and writing to sink.
func NewDrainer[R any](source <-chan pipeline.Event[R], sink Sink[R], opts ...Option) *Drainer[R] {
	cfg := settings{name: "drainer"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Get().Named("worker")
	}

	return &Drainer[R]{
		source:   source,
		sink:     sink,
		name:     cfg.name,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   cfg.logger,
	}
}

// Run drains events until the source closes, ctx is canceled or Shutdown is called.
func (d *Drainer[R]) Run(ctx context.Context) {
	defer close(d.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.shutdown:
			return
		case ev, ok := <-d.source:
			if !ok {
				d.logger.Debug(ctx, "event stream closed", logger.String("worker", d.name))
				return
			}
			d.handle(ctx, ev)
		}
	}
}

// Done is closed when Run returns.
func (d *Drainer[R]) Done() <-chan struct{} { return d.done }

// Shutdown stops the drainer. Events still buffered in the source are left unread.
func (d *Drainer[R]) Shutdown(ctx context.Context) error {
	d.shutdownOnce.Do(func() { close(d.shutdown) })

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		d.logger.Warn(ctx, "shutdown timed out", logger.String("worker", d.name))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (d *Drainer[R]) handle(ctx context.Context, ev pipeline.Event[R]) { //nolint:gocritic // hugeParam: events are passed by value on channels
	d.sink.Append(ev)
	metrics.RecordEventDrained(string(ev.Kind))

	if ev.Kind == pipeline.EventFailed {
		metrics.RecordErrorByComponent("worker", "processing_failed")
		d.logger.Debug(ctx, "drained failure",
			logger.String("worker", d.name),
			logger.String("submission_id", ev.SubmissionID),
			logger.String("reason", ev.Reason),
		)
	}
}
