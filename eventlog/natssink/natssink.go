// Package natssink delivers request event batches by publishing them to a
// NATS subject as JSON.
package natssink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/ferren/charter/eventlog"
)

// Publisher is the slice of a NATS connection the sink needs. *nats.Conn
// satisfies it.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// Batch is the JSON document published per request. Events keeps emission
// order; an empty batch publishes with an empty list, so subscribers see
// one message per request regardless of how chatty the handler was.
type Batch struct {
	ID        string           `json:"id"`
	EmittedAt time.Time        `json:"emitted_at"`
	Events    []eventlog.Event `json:"events"`
}

// Sink publishes one Batch per request to a fixed subject.
type Sink struct {
	pub     Publisher
	subject string
}

// New builds a Sink publishing to subject through pub.
func New(pub Publisher, subject string) *Sink {
	return &Sink{pub: pub, subject: subject}
}

// Connect dials NATS with the reconnect behavior suited to a long-lived
// service and returns a Sink on subject, plus the connection so the
// caller can close it at shutdown.
func Connect(url, subject string) (*Sink, *nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return New(nc, subject), nc, nil
}

// Deliver publishes the batch.
func (s *Sink) Deliver(ctx context.Context, events []eventlog.Event) error {
	if events == nil {
		events = []eventlog.Event{}
	}

	batch := Batch{
		ID:        uuid.New().String(),
		EmittedAt: time.Now().UTC(),
		Events:    events,
	}

	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal event batch: %w", err)
	}

	if err := s.pub.Publish(s.subject, data); err != nil {
		return fmt.Errorf("publish event batch: %w", err)
	}

	return nil
}
