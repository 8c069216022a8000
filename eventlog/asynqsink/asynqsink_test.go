package asynqsink

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferren/charter/eventlog"
)

type fakeEnqueuer struct {
	task *asynq.Task
	opts []asynq.Option
	err  error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.task = task
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return &asynq.TaskInfo{}, nil
}

// TestSinkDeliver verifies the enqueued task type, payload, and options.
func TestSinkDeliver(t *testing.T) {
	t.Parallel()

	t.Run("enqueues delivery task", func(t *testing.T) {
		t.Parallel()

		client := &fakeEnqueuer{}
		sink := New(client, asynq.Queue("low"))

		events := []eventlog.Event{eventlog.Info("created")}
		require.NoError(t, sink.Deliver(context.Background(), events))

		require.NotNil(t, client.task)
		assert.Equal(t, TypeDeliverEvents, client.task.Type())
		assert.Len(t, client.opts, 1)

		var payload Payload
		require.NoError(t, json.Unmarshal(client.task.Payload(), &payload))
		require.Len(t, payload.Events, 1)
		assert.Equal(t, "created", payload.Events[0].Message)
	})

	t.Run("empty batch enqueues empty list", func(t *testing.T) {
		t.Parallel()

		client := &fakeEnqueuer{}
		sink := New(client)

		require.NoError(t, sink.Deliver(context.Background(), nil))

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(client.task.Payload(), &raw))
		assert.JSONEq(t, `[]`, string(raw["events"]))
	})

	t.Run("enqueue failure surfaces", func(t *testing.T) {
		t.Parallel()

		client := &fakeEnqueuer{err: errors.New("asynq: broker down")}
		sink := New(client)

		err := sink.Deliver(context.Background(), []eventlog.Event{eventlog.Info("x")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "enqueue event batch")
	})
}
