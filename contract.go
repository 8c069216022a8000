package charter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Raw channel shapes. A channel without a validator must use the matching
// raw type as its type parameter; the adapter then passes the value
// through untouched. Headers are the exception: the raw http.Header is
// always flattened to RawHeaders first (see FlattenHeaders).
type (
	RawQuery   = url.Values
	RawParams  = map[string]string
	RawBody    = json.RawMessage
	RawHeaders = map[string]string
)

// QueryValidator checks and transforms the query string channel.
type QueryValidator[Q any] func(values url.Values) (Q, error)

// ParamsValidator checks and transforms the path parameter channel.
type ParamsValidator[P any] func(params map[string]string) (P, error)

// BodyValidator checks and transforms the raw request body.
type BodyValidator[B any] func(body json.RawMessage) (B, error)

// HeaderValidator checks and transforms the request headers.
type HeaderValidator[H any] func(header http.Header) (H, error)

// Inputs carries the four validated input channels into the handler.
type Inputs[Q, P, B, H any] struct {
	Query   Q
	Params  P
	Body    B
	Headers H
}

// HandlerFunc is an endpoint's business logic: validated inputs go in,
// a result or an error comes out. Returning a *BusinessError (usually via
// Context.Fail) produces a failure envelope with that message; any other
// error, and any panic, produces the generic unexpected-error envelope.
type HandlerFunc[Q, P, B, H, R any] func(c *Context, in Inputs[Q, P, B, H]) (R, error)

// Contract declares everything the adapter needs to know about one
// endpoint: how each input channel is validated, the business handler,
// and the optional hooks around it.
//
// A Contract is read-only once handed to Build. Reusing it across
// requests is safe because the adapter never writes to it.
type Contract[Q, P, B, H, R any] struct {
	// Query, Params, Body and Headers validate their channel. Channels
	// are checked in exactly that order, and the first failure stops the
	// walk: validators for later channels are not invoked at all.
	//
	// A nil validator passes the raw channel value through; the channel's
	// type parameter must then be the matching Raw type.
	Query   QueryValidator[Q]
	Params  ParamsValidator[P]
	Body    BodyValidator[B]
	Headers HeaderValidator[H]

	// Handle receives the validated inputs. Required; Build panics
	// without it.
	Handle HandlerFunc[Q, P, B, H, R]

	// BeforeResponse runs after a successful Handle, before the success
	// envelope is written. An error or panic here is logged to
	// diagnostics and otherwise ignored; the response goes out unchanged.
	BeforeResponse func(ctx context.Context, result R) error

	// OnUnexpectedError observes errors the adapter classifies as
	// unexpected, exactly once per such request and with the original
	// error, before the generic failure envelope is written. Failures
	// inside the hook are logged and ignored.
	OnUnexpectedError func(ctx context.Context, err error)
}

// FlattenHeaders reduces an http.Header to its single-value form, keeping
// the first value of each header under its canonical name. Repeated
// headers lose everything after the first value.
//
// This is the shape a contract without a header validator receives, and
// the shape schema-driven header validators decode from.
func FlattenHeaders(h http.Header) map[string]string {
	flat := make(map[string]string, len(h))
	for name, values := range h {
		if len(values) > 0 {
			flat[name] = values[0]
		}
	}
	return flat
}
