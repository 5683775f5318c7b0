package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/okian/fightlab/internal/adapters/mq/worker"
	"github.com/okian/fightlab/internal/pipeline"
	logging "github.com/okian/fightlab/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type recorder struct {
	mu     sync.Mutex
	events []pipeline.Event[string]
}

func (r *recorder) Append(ev pipeline.Event[string]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []pipeline.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]pipeline.EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func waitDone(d *worker.Drainer[string]) bool {
	select {
	case <-d.Done():
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

func TestDrainer(t *testing.T) {
	if err := logging.Init(); err != nil {
		t.Fatal(err)
	}

	convey.Convey("Given a drainer over a buffered source", t, func() {
		src := make(chan pipeline.Event[string], 8)
		rec := &recorder{}
		d := worker.NewDrainer[string](src, rec, worker.WithName("test"))

		convey.Convey("When events are sent and the source closes", func() {
			src <- pipeline.Event[string]{Seq: 1, Kind: pipeline.EventSelected}
			src <- pipeline.Event[string]{Seq: 2, Kind: pipeline.EventProgress}
			src <- pipeline.Event[string]{Seq: 3, Kind: pipeline.EventFailed, Reason: "boom"}
			close(src)
			go d.Run(context.Background())

			convey.Convey("Then every event reaches the sink in order", func() {
				convey.So(waitDone(d), convey.ShouldBeTrue)
				convey.So(rec.kinds(), convey.ShouldResemble, []pipeline.EventKind{
					pipeline.EventSelected, pipeline.EventProgress, pipeline.EventFailed,
				})
			})
		})

		convey.Convey("When shut down while idle", func() {
			go d.Run(context.Background())
			err := d.Shutdown(context.Background())

			convey.Convey("Then it stops cleanly and repeat calls are safe", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(d.Shutdown(context.Background()), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the run context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			go d.Run(ctx)
			cancel()
			convey.So(waitDone(d), convey.ShouldBeTrue)
		})

		convey.Convey("When shutdown is never answered", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer cancel()
			err := d.Shutdown(ctx)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})

	convey.Convey("Given a function sink", t, func() {
		src := make(chan pipeline.Event[string], 1)
		var got []uint64
		d := worker.NewDrainer[string](src, worker.SinkFunc[string](func(ev pipeline.Event[string]) {
			got = append(got, ev.Seq)
		}))
		src <- pipeline.Event[string]{Seq: 7, Kind: pipeline.EventComplete}
		close(src)
		d.Run(context.Background())

		convey.So(got, convey.ShouldResemble, []uint64{7})
	})
}
