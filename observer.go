package charter

import "time"

// Outcome classifies how a request ended.
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeValidation Outcome = "validation_error"
	OutcomeBusiness   Outcome = "business_error"
	OutcomeUnexpected Outcome = "unexpected_error"
)

// Hook names reported through Observer.HookFailed.
const (
	HookBeforeResponse    = "before_response"
	HookOnUnexpectedError = "on_unexpected_error"
)

// Observer receives lifecycle notifications from the adapter, one call
// per occurrence, on the request goroutine. Implementations must be safe
// for concurrent use.
//
// Observers are best-effort side tasks like hooks and sinks: a panic in
// an observer is logged to diagnostics and dropped, never surfaced.
type Observer interface {
	// RequestCompleted fires once per request with the route template,
	// the outcome, and the time spent handling it.
	RequestCompleted(route string, outcome Outcome, duration time.Duration)

	// ValidationFailed fires when an input channel rejects a request.
	// channel is one of "query", "params", "body", "headers".
	ValidationFailed(route string, channel string)

	// SinkFailed fires when event batch delivery returns an error or
	// panics.
	SinkFailed(route string)

	// HookFailed fires when a contract hook fails; hook is one of the
	// Hook* constants.
	HookFailed(route string, hook string)
}
