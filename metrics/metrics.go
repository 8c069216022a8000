// Package metrics exposes adapter lifecycle notifications as Prometheus
// collectors. Install a Recorder with charter.WithObserver and serve the
// registry however the host application prefers.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ferren/charter"
)

// Recorder implements charter.Observer on top of Prometheus collectors.
type Recorder struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec
	sinkFailures       *prometheus.CounterVec
	hookFailures       *prometheus.CounterVec
}

var _ charter.Observer = (*Recorder)(nil)

// New registers the collectors on the default registerer under namespace.
func New(namespace string) *Recorder {
	return NewWith(namespace, prometheus.DefaultRegisterer)
}

// NewWith registers the collectors on reg under namespace. Tests pass
// their own registry so parallel packages never collide.
func NewWith(namespace string, reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Requests handled, by route and outcome.",
			},
			[]string{"route", "outcome"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_milliseconds",
				Help:      "Request handling duration in milliseconds.",
				Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
			},
			[]string{"route"},
		),
		validationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_failures_total",
				Help:      "Requests rejected by input validation, by route and channel.",
			},
			[]string{"route", "channel"},
		),
		sinkFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sink_failures_total",
				Help:      "Event batches the configured sink failed to deliver.",
			},
			[]string{"route"},
		),
		hookFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hook_failures_total",
				Help:      "Contract hooks that returned an error or panicked.",
			},
			[]string{"route", "hook"},
		),
	}
}

func (r *Recorder) RequestCompleted(route string, outcome charter.Outcome, duration time.Duration) {
	r.requestsTotal.WithLabelValues(route, string(outcome)).Inc()
	r.requestDuration.WithLabelValues(route).Observe(float64(duration) / float64(time.Millisecond))
}

func (r *Recorder) ValidationFailed(route, channel string) {
	r.validationFailures.WithLabelValues(route, channel).Inc()
}

func (r *Recorder) SinkFailed(route string) {
	r.sinkFailures.WithLabelValues(route).Inc()
}

func (r *Recorder) HookFailed(route, hook string) {
	r.hookFailures.WithLabelValues(route, hook).Inc()
}
