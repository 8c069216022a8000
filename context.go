package charter

import (
	"context"

	"github.com/ferren/charter/eventlog"
)

// Context is the execution context handed to handler code. It carries the
// request's context.Context plus the two capabilities an endpoint gets
// from the adapter: structured event logging and explicit business
// failure.
//
// A Context lives for exactly one request and belongs to that request's
// goroutine. Do not retain it, and do not share it, after Handle returns.
type Context struct {
	context.Context

	events []eventlog.Event
}

func newContext(ctx context.Context) *Context {
	return &Context{Context: ctx}
}

// Log appends an event to the request's buffer. Events are kept in
// emission order and flushed to the configured sink as one batch after
// the response has been written.
func (c *Context) Log(ev eventlog.Event) {
	c.events = append(c.events, ev)
}

// Fail builds a business rejection carrying message. Returning it from
// Handle produces ok=false with exactly that message, without touching
// the unexpected-error path:
//
//	if in.Body.Amount > balance {
//	    return Receipt{}, c.Fail("insufficient funds")
//	}
func (c *Context) Fail(message string) error {
	return NewBusinessError(message)
}

// FailWithCode is Fail with an explicit numeric code. The code is kept on
// the error for classification and logging; the response envelope does
// not include it.
func (c *Context) FailWithCode(message string, code int) error {
	return &BusinessError{Message: message, Code: code}
}

// batch returns the buffered events, never nil, so sinks can tell an
// empty batch apart from a missing one.
func (c *Context) batch() []eventlog.Event {
	if c.events == nil {
		return []eventlog.Event{}
	}
	return c.events
}
