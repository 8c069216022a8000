// Package eventlog defines the structured events a request handler can
// emit, and the sink machinery that carries them out of the process.
//
// Events are buffered per request and handed to the configured Sink as one
// batch after the response has been written. The package itself never
// persists anything; delivery is whatever the installed Sink does with the
// batch (write it to a logger, publish it to NATS, append it to a Redis
// stream, enqueue it for a worker).
package eventlog
