package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ferren/charter"
)

// TestRecorder drives each Observer method and reads the counters back
// through a private registry.
func TestRecorder(t *testing.T) {
	t.Parallel()

	rec := NewWith("charter_test", prometheus.NewRegistry())

	rec.RequestCompleted("/notes", charter.OutcomeSuccess, 12*time.Millisecond)
	rec.RequestCompleted("/notes", charter.OutcomeSuccess, 3*time.Millisecond)
	rec.RequestCompleted("/notes", charter.OutcomeUnexpected, 40*time.Millisecond)
	rec.ValidationFailed("/notes", "body")
	rec.SinkFailed("/notes")
	rec.HookFailed("/notes", charter.HookBeforeResponse)

	assert.Equal(t, float64(2), testutil.ToFloat64(
		rec.requestsTotal.WithLabelValues("/notes", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		rec.requestsTotal.WithLabelValues("/notes", "unexpected_error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		rec.validationFailures.WithLabelValues("/notes", "body")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		rec.sinkFailures.WithLabelValues("/notes")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		rec.hookFailures.WithLabelValues("/notes", "before_response")))
}

// TestRecorderIsolation confirms two recorders on separate registries do
// not share state.
func TestRecorderIsolation(t *testing.T) {
	t.Parallel()

	a := NewWith("charter_test", prometheus.NewRegistry())
	b := NewWith("charter_test", prometheus.NewRegistry())

	a.SinkFailed("/notes")

	assert.Equal(t, float64(1), testutil.ToFloat64(a.sinkFailures.WithLabelValues("/notes")))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.sinkFailures.WithLabelValues("/notes")))
}
