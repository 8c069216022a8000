package charter

import (
	"time"

	"github.com/ferren/charter/eventlog"
	"github.com/rs/zerolog"
)

// Adapter builds request handlers around a shared sink registry and a
// diagnostics logger. One Adapter typically serves a whole API: construct
// it once at startup, then call Build per endpoint.
type Adapter struct {
	registry  *eventlog.Registry
	diag      zerolog.Logger
	observers []Observer
}

// Option configures an Adapter. Options apply in order; when combining
// WithRegistry and WithSink, pass WithRegistry first so the sink lands on
// the registry that will actually be used.
type Option func(*Adapter)

// New constructs an Adapter. Without options it carries an unconfigured
// registry (which warns on every flush) and silent diagnostics.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		registry: eventlog.NewRegistry(),
		diag:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithRegistry shares an existing sink registry, so several adapters (or
// anything else in the process) flush through the same slot.
func WithRegistry(r *eventlog.Registry) Option {
	return func(a *Adapter) {
		if r != nil {
			a.registry = r
		}
	}
}

// WithSink configures the adapter's registry with s. Shorthand for a
// process with one adapter and a sink fixed at startup.
func WithSink(s eventlog.Sink) Option {
	return func(a *Adapter) {
		a.registry.Configure(s)
	}
}

// WithDiagnostics sets the logger that receives the adapter's own noise:
// swallowed hook failures, sink failures, recovered panics. This channel
// is separate from event logging and never reaches the sink.
func WithDiagnostics(log zerolog.Logger) Option {
	return func(a *Adapter) {
		a.diag = log
	}
}

// WithObserver appends an observer. Observers are notified in
// registration order.
func WithObserver(obs Observer) Option {
	return func(a *Adapter) {
		if obs != nil {
			a.observers = append(a.observers, obs)
		}
	}
}

// Registry exposes the adapter's sink registry, so the sink can be
// configured or swapped after construction.
func (a *Adapter) Registry() *eventlog.Registry {
	return a.registry
}

// notifyCompleted fans RequestCompleted out to every observer. Observer
// panics are contained like hook failures: diagnostics only.
func (a *Adapter) notifyCompleted(route string, outcome Outcome, d time.Duration) {
	for _, obs := range a.observers {
		if err := capture(func() error {
			obs.RequestCompleted(route, outcome, d)
			return nil
		}); err != nil {
			a.diag.Error().Err(err).Str("route", route).Msg("observer failed in RequestCompleted")
		}
	}
}

func (a *Adapter) notifyValidationFailed(route, channel string) {
	for _, obs := range a.observers {
		if err := capture(func() error {
			obs.ValidationFailed(route, channel)
			return nil
		}); err != nil {
			a.diag.Error().Err(err).Str("route", route).Msg("observer failed in ValidationFailed")
		}
	}
}

func (a *Adapter) notifySinkFailed(route string) {
	for _, obs := range a.observers {
		if err := capture(func() error {
			obs.SinkFailed(route)
			return nil
		}); err != nil {
			a.diag.Error().Err(err).Str("route", route).Msg("observer failed in SinkFailed")
		}
	}
}

func (a *Adapter) notifyHookFailed(route, hook string) {
	for _, obs := range a.observers {
		if err := capture(func() error {
			obs.HookFailed(route, hook)
			return nil
		}); err != nil {
			a.diag.Error().Err(err).Str("route", route).Msg("observer failed in HookFailed")
		}
	}
}
