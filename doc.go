// Package charter turns declarative endpoint contracts into Echo request
// handlers with a fixed response envelope, deferred event logging, and
// strict error classification.
//
// A contract names a validator for each input channel (query, params,
// body, headers), the business handler, and optional hooks. Build compiles
// it into an echo.HandlerFunc:
//
//	a := charter.New(
//	    charter.WithSink(eventlog.NewZerologSink(log)),
//	    charter.WithDiagnostics(log),
//	)
//
//	e.POST("/notes", charter.Build(a, charter.Contract[
//	    charter.RawQuery, charter.RawParams, CreateNote, charter.RawHeaders, Note,
//	]{
//	    Body: schema.JSON[CreateNote](),
//	    Handle: func(c *charter.Context, in charter.Inputs[charter.RawQuery, charter.RawParams, CreateNote, charter.RawHeaders]) (Note, error) {
//	        c.Log(eventlog.Info("creating note"))
//	        return store.Insert(in.Body.Title, in.Body.Body, nil), nil
//	    },
//	}))
//
// # Response envelope
//
// Every outcome is written through the same path, HTTP 200, as:
//
//	{"ok": true,  "data": <result>, "errors": []}
//	{"ok": false, "data": null,     "errors": ["title: is required"]}
//
// Success carries the handler result verbatim. Validation failures carry
// one "field: message" entry per issue, in order. A handler returning a
// *BusinessError (see Context.Fail) carries exactly its message. Every
// other failure, panics included, carries the fixed generic message and
// exposes the underlying error only to the OnUnexpectedError hook and the
// diagnostics logger.
//
// # Validation order
//
// Channels are validated query, params, body, headers, and the first
// failing channel ends the phase: later validators are not invoked. A
// channel without a validator passes its raw value straight through,
// typed as the matching Raw alias (headers flatten to RawHeaders first).
//
// # Event logging
//
// Handler code logs through Context.Log into a per-request buffer. After
// the response is written the buffer flushes, as one batch, to whatever
// Sink the adapter's eventlog.Registry currently holds. The flush always
// runs and is awaited before the request handler returns. Sink failures,
// like hook failures, go to the diagnostics logger and nowhere else.
package charter
