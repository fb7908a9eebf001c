package worker

import (
	"context"
	"time"

	audit "txguard/pkg/platform/audit"
)

// Worker drains audit events from a channel into a sink. Write failures are
// reported through the error callback and do not stop the loop.
type Worker struct {
	sink         audit.Sink
	inbox        <-chan audit.Event
	writeTimeout time.Duration
	onError      func(audit.Event, error)
}

func NewWorker(sink audit.Sink, inbox <-chan audit.Event, writeTimeout time.Duration, onError func(audit.Event, error)) *Worker {
	if onError == nil {
		onError = func(audit.Event, error) {}
	}
	return &Worker{sink: sink, inbox: inbox, writeTimeout: writeTimeout, onError: onError}
}

// Run returns nil once the inbox is closed and drained, or ctx.Err() if the
// context ends first.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.write(ctx, event)
		}
	}
}

func (w *Worker) write(ctx context.Context, event audit.Event) {
	writeCtx := ctx
	if w.writeTimeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(ctx, w.writeTimeout)
		defer cancel()
	}
	if err := w.sink.Write(writeCtx, event); err != nil {
		w.onError(event, err)
	}
}
