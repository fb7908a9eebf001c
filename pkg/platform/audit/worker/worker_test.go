package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "txguard/pkg/platform/audit"
	"txguard/pkg/platform/audit/sink/memory"
)

func TestWorker_DrainsUntilInboxClosed(t *testing.T) {
	sink := memory.NewSink()
	inbox := make(chan audit.Event, 3)
	inbox <- audit.Event{Action: string(audit.EventVerificationCompleted)}
	inbox <- audit.Event{Action: string(audit.EventVerificationFlagged)}
	close(inbox)

	err := NewWorker(sink, inbox, time.Second, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, sink.Events(), 2)
}

func TestWorker_ContinuesAfterWriteError(t *testing.T) {
	sink := memory.NewSink()
	sink.FailWith(errors.New("broker down"))

	inbox := make(chan audit.Event, 2)
	inbox <- audit.Event{Action: string(audit.EventVerificationCompleted)}
	inbox <- audit.Event{Action: string(audit.EventVerificationFailed)}
	close(inbox)

	var failed []string
	w := NewWorker(sink, inbox, 0, func(e audit.Event, err error) {
		failed = append(failed, e.Action)
	})
	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, []string{
		string(audit.EventVerificationCompleted),
		string(audit.EventVerificationFailed),
	}, failed)
}

func TestWorker_StopsOnContextCancel(t *testing.T) {
	inbox := make(chan audit.Event)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewWorker(memory.NewSink(), inbox, 0, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
