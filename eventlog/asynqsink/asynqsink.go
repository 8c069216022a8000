// Package asynqsink delivers request event batches by enqueueing a
// background task, so a worker pool can ship them to slow storage without
// holding up request goroutines.
package asynqsink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/ferren/charter/eventlog"
)

// TypeDeliverEvents is the task type a worker registers a handler for.
const TypeDeliverEvents = "eventlog:deliver"

// Payload is the task payload: the batch in emission order.
type Payload struct {
	Events []eventlog.Event `json:"events"`
}

// Enqueuer is the slice of an asynq client the sink needs. *asynq.Client
// satisfies it.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Sink enqueues one TypeDeliverEvents task per request.
type Sink struct {
	client Enqueuer
	opts   []asynq.Option
}

// New builds a Sink enqueueing through client. Options apply to every
// task, e.g. asynq.Queue("low") to keep log shipping off the default
// queue.
func New(client Enqueuer, opts ...asynq.Option) *Sink {
	return &Sink{client: client, opts: opts}
}

// NewTask builds the delivery task for a batch. Exposed so workers can
// reuse it in tests for their handlers.
func NewTask(events []eventlog.Event) (*asynq.Task, error) {
	if events == nil {
		events = []eventlog.Event{}
	}

	payload, err := json.Marshal(Payload{Events: events})
	if err != nil {
		return nil, fmt.Errorf("marshal event batch: %w", err)
	}

	return asynq.NewTask(TypeDeliverEvents, payload), nil
}

// Deliver enqueues the batch.
func (s *Sink) Deliver(ctx context.Context, events []eventlog.Event) error {
	task, err := NewTask(events)
	if err != nil {
		return err
	}

	if _, err := s.client.EnqueueContext(ctx, task, s.opts...); err != nil {
		return fmt.Errorf("enqueue event batch: %w", err)
	}

	return nil
}
