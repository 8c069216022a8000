package eventlog

import (
	"context"

	"github.com/rs/zerolog"
)

// Sink receives the event batch collected during one request.
//
// Deliver is called exactly once per request, after the response has been
// written, with the events in emission order. An empty batch is still
// delivered, so sinks can count requests or emit per-request records even
// when the handler logged nothing.
//
// Deliver runs on the request goroutine and is awaited before the request
// handler returns: a slow sink delays only its own request. A returned
// error (or a panic) is reported to the adapter's diagnostics logger and
// otherwise ignored; the response is already on the wire by then.
type Sink interface {
	Deliver(ctx context.Context, events []Event) error
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(ctx context.Context, events []Event) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, events []Event) error {
	return f(ctx, events)
}

// ZerologSink writes each event of a batch through a zerolog logger,
// mapping event levels onto zerolog levels. It is the "console" sink:
// the one to install when batches should simply become log lines.
type ZerologSink struct {
	log zerolog.Logger
}

// NewZerologSink builds a ZerologSink writing through log.
func NewZerologSink(log zerolog.Logger) ZerologSink {
	return ZerologSink{log: log}
}

// Deliver writes one log line per event. It never fails; zerolog swallows
// writer errors internally.
func (s ZerologSink) Deliver(ctx context.Context, events []Event) error {
	for _, ev := range events {
		line := s.log.WithLevel(zerologLevel(ev.Level))

		if len(ev.Tags) > 0 {
			line = line.Strs("tags", ev.Tags)
		}

		if len(ev.Metadata) > 0 {
			fields := make(map[string]interface{}, len(ev.Metadata))
			for k, v := range ev.Metadata {
				fields[k] = v
			}
			line = line.Fields(fields)
		}

		line.Msg(ev.Message)
	}

	return nil
}

// zerologLevel translates an event level into zerolog's level type.
// Unknown levels write as info, matching Severity's fallback.
func zerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
