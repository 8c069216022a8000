// Package redissink delivers request event batches by appending them to a
// Redis stream.
package redissink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ferren/charter/eventlog"
)

// Streamer is the slice of a Redis client the sink needs. *redis.Client
// satisfies it.
type Streamer interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
}

// Sink appends one stream entry per request. The entry carries the event
// count and the batch serialized as JSON, so consumers can filter on count
// without parsing the payload.
type Sink struct {
	client Streamer
	stream string
}

// New builds a Sink appending to the named stream through client.
func New(client Streamer, stream string) *Sink {
	return &Sink{client: client, stream: stream}
}

// Deliver appends the batch as a single stream entry.
func (s *Sink) Deliver(ctx context.Context, events []eventlog.Event) error {
	if events == nil {
		events = []eventlog.Event{}
	}

	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("marshal event batch: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"count":  len(events),
			"events": string(data),
		},
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("append event batch: %w", err)
	}

	return nil
}
