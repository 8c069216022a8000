package eventlog

import (
	"context"
	"io"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Registry holds the sink a process delivers event batches through.
//
// A Registry is typically created once in main, configured with the real
// sink, and shared by every adapter in the process. Configure may be
// called again at any time; the last writer wins, and requests in flight
// keep whichever sink they already read.
//
// Until Configure installs a sink, Current returns a stub that logs one
// console warning per delivery and drops the batch. Dropping is loud on
// purpose: a missing sink is almost always a wiring mistake, but it must
// never fail requests.
type Registry struct {
	current atomic.Pointer[Sink]
	stub    Sink
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithStubOutput redirects the unconfigured-registry warning away from
// stderr. Mostly useful in tests that assert on the warning.
func WithStubOutput(w io.Writer) RegistryOption {
	return func(r *Registry) {
		r.stub = stubSink{log: zerolog.New(w).With().Timestamp().Logger()}
	}
}

// NewRegistry builds a Registry with no sink configured.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		stub: stubSink{
			log: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger(),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Configure installs s as the registry's sink, replacing whatever was
// there. Passing nil reverts to the warning stub.
func (r *Registry) Configure(s Sink) {
	if s == nil {
		r.current.Store(nil)
		return
	}
	r.current.Store(&s)
}

// Current returns the configured sink, or the warning stub when nothing
// has been configured yet.
func (r *Registry) Current() Sink {
	if p := r.current.Load(); p != nil {
		return *p
	}
	return r.stub
}

// Configured reports whether a real sink has been installed.
func (r *Registry) Configured() bool {
	return r.current.Load() != nil
}

// stubSink is the default sink of an unconfigured Registry: warn and drop.
type stubSink struct {
	log zerolog.Logger
}

func (s stubSink) Deliver(ctx context.Context, events []Event) error {
	s.log.Warn().
		Int("events", len(events)).
		Msg("no log sink configured, dropping event batch")
	return nil
}
