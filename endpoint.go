package charter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Channel names, in validation order.
const (
	channelQuery   = "query"
	channelParams  = "params"
	channelBody    = "body"
	channelHeaders = "headers"
)

// Build produces the echo.HandlerFunc for one endpoint contract.
//
// It is a package-level function rather than an Adapter method because
// methods cannot introduce their own type parameters.
//
// The returned handler runs the full endpoint lifecycle per request:
//
//  1. validate the input channels: query, then params, then body, then
//     headers, stopping at the first channel that rejects
//  2. construct the execution Context
//  3. invoke ct.Handle (panics are recovered and treated as errors)
//  4. classify the outcome and build the response envelope
//  5. write the envelope, always with HTTP 200
//  6. flush the buffered events to the registry's sink
//
// The flush is deferred, so it runs after the response write on every
// path out of the handler, and it finishes before the handler returns.
// An empty buffer still flushes: sinks see one batch per request.
//
// Build panics when ct.Handle is nil. That is a wiring bug, and route
// registration at startup is the place to find out, not the first
// request.
func Build[Q, P, B, H, R any](a *Adapter, ct Contract[Q, P, B, H, R]) echo.HandlerFunc {
	if ct.Handle == nil {
		panic("charter: Contract.Handle is required")
	}

	return func(c echo.Context) error {
		start := time.Now()
		route := c.Path()

		log := a.diag.With().
			Str("route", route).
			Str("method", c.Request().Method).
			Logger()

		ectx := newContext(c.Request().Context())

		// The flush must happen after the response bytes are handed to
		// Echo, whichever branch below produced them. Deferring it covers
		// every return in one place.
		defer a.flush(ectx, route, log)

		// ---------------- Validation phase --------------------------------

		in, channel, err := bindInputs(c, ct)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				log.Debug().
					Str("channel", channel).
					Int("issues", len(verr.Issues)).
					Msg("input rejected")

				a.notifyValidationFailed(route, channel)
				a.notifyCompleted(route, OutcomeValidation, time.Since(start))
				return c.JSON(http.StatusOK, Failure(verr.Messages()...))
			}

			// A validator failing with anything but a ValidationError is
			// an integrator bug, not a client mistake. So is a
			// pass-through channel whose type parameter does not match
			// the raw shape. The caller still gets the generic envelope;
			// the real error goes to the hook and diagnostics.
			log.Error().
				Err(err).
				Str("channel", channel).
				Msg("validator failed unexpectedly")

			a.runUnexpectedHook(ectx, route, ct.OnUnexpectedError, err, log)
			a.notifyCompleted(route, OutcomeUnexpected, time.Since(start))
			return c.JSON(http.StatusOK, Failure(unexpectedMessage))
		}

		// ---------------- Handler phase ------------------------------------

		result, err := invokeHandler(ectx, ct.Handle, in)
		if err != nil {
			var berr *BusinessError
			if errors.As(err, &berr) {
				// Business rejections surface their message only. The
				// numeric code stays internal.
				log.Debug().
					Int("code", berr.Code).
					Dur("duration", time.Since(start)).
					Msg("business rejection")

				a.notifyCompleted(route, OutcomeBusiness, time.Since(start))
				return c.JSON(http.StatusOK, Failure(berr.Message))
			}

			log.Error().
				Err(err).
				Dur("duration", time.Since(start)).
				Msg("handler failed")

			a.runUnexpectedHook(ectx, route, ct.OnUnexpectedError, err, log)
			a.notifyCompleted(route, OutcomeUnexpected, time.Since(start))
			return c.JSON(http.StatusOK, Failure(unexpectedMessage))
		}

		// ---------------- Success phase ------------------------------------

		if ct.BeforeResponse != nil {
			if hookErr := capture(func() error {
				return ct.BeforeResponse(ectx, result)
			}); hookErr != nil {
				// Best effort only: a broken BeforeResponse never changes
				// the response the caller gets.
				log.Error().Err(hookErr).Msg("before-response hook failed")
				a.notifyHookFailed(route, HookBeforeResponse)
			}
		}

		a.notifyCompleted(route, OutcomeSuccess, time.Since(start))
		return c.JSON(http.StatusOK, Success(result))
	}
}

// bindInputs validates the four input channels in their fixed order. The
// first channel that rejects stops the walk; validators for the remaining
// channels are never invoked for that request.
//
// A validator panic is recovered here and reported as a plain error, so
// it classifies as unexpected like any other non-ValidationError failure.
func bindInputs[Q, P, B, H, R any](c echo.Context, ct Contract[Q, P, B, H, R]) (in Inputs[Q, P, B, H], channel string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s validator panic: %v", channel, r)
		}
	}()

	channel = channelQuery
	if in.Query, err = bindQuery(c, ct.Query); err != nil {
		return in, channel, err
	}

	channel = channelParams
	if in.Params, err = bindParams(c, ct.Params); err != nil {
		return in, channel, err
	}

	channel = channelBody
	if in.Body, err = bindBody(c, ct.Body); err != nil {
		return in, channel, err
	}

	channel = channelHeaders
	if in.Headers, err = bindHeaders(c, ct.Headers); err != nil {
		return in, channel, err
	}

	return in, "", nil
}

func bindQuery[Q any](c echo.Context, validate QueryValidator[Q]) (Q, error) {
	raw := c.QueryParams()
	if validate != nil {
		return validate(raw)
	}
	return passthrough[Q](raw, channelQuery)
}

func bindParams[P any](c echo.Context, validate ParamsValidator[P]) (P, error) {
	raw := pathParams(c)
	if validate != nil {
		return validate(raw)
	}
	return passthrough[P](raw, channelParams)
}

func bindBody[B any](c echo.Context, validate BodyValidator[B]) (B, error) {
	var zero B

	// The body is read whole. These contracts describe JSON APIs, not
	// streaming ones; a read failure is a transport fault and classifies
	// as unexpected.
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return zero, fmt.Errorf("read request body: %w", err)
	}

	if validate != nil {
		return validate(json.RawMessage(raw))
	}
	return passthrough[B](json.RawMessage(raw), channelBody)
}

// bindHeaders validates the header channel. Unlike the other channels,
// the no-validator path is not the identity: headers always flatten to
// the single-value map shape first, so handlers never see http.Header's
// multi-value form unless a validator asks for it.
func bindHeaders[H any](c echo.Context, validate HeaderValidator[H]) (H, error) {
	raw := c.Request().Header
	if validate != nil {
		return validate(raw)
	}
	return passthrough[H](FlattenHeaders(raw), channelHeaders)
}

// pathParams collects Echo's route parameters into a plain map.
func pathParams(c echo.Context) map[string]string {
	names := c.ParamNames()
	params := make(map[string]string, len(names))
	for _, name := range names {
		params[name] = c.Param(name)
	}
	return params
}

// passthrough hands the raw channel value to a contract that declared no
// validator. The channel's type parameter must be the raw shape itself; a
// mismatch is a contract bug and reports as an unexpected error rather
// than a validation failure, since the client did nothing wrong.
func passthrough[T any](raw any, channel string) (T, error) {
	v, ok := raw.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("charter: %s channel has no validator so its type parameter must be %T, not %T", channel, raw, zero)
	}
	return v, nil
}

// invokeHandler runs the business handler, converting a panic into an
// ordinary error so it classifies as unexpected, like any failure the
// handler did not express as a BusinessError.
func invokeHandler[Q, P, B, H, R any](ectx *Context, handle HandlerFunc[Q, P, B, H, R], in Inputs[Q, P, B, H]) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handle(ectx, in)
}

// runUnexpectedHook invokes the contract's OnUnexpectedError hook with
// the original error. The hook is contained: an error has already
// happened, and the hook observing it must not cause another.
func (a *Adapter) runUnexpectedHook(ectx *Context, route string, hook func(context.Context, error), cause error, log zerolog.Logger) {
	if hook == nil {
		return
	}
	if hookErr := capture(func() error {
		hook(ectx, cause)
		return nil
	}); hookErr != nil {
		log.Error().Err(hookErr).Msg("unexpected-error hook failed")
		a.notifyHookFailed(route, HookOnUnexpectedError)
	}
}

// flush hands the request's buffered events to the registry's current
// sink. It runs after the response write on every outcome, including an
// empty buffer, so sinks see exactly one batch per request.
func (a *Adapter) flush(ectx *Context, route string, log zerolog.Logger) {
	sink := a.registry.Current()
	batch := ectx.batch()

	if err := capture(func() error {
		return sink.Deliver(ectx.Context, batch)
	}); err != nil {
		// The response is already on the wire; a broken sink can only be
		// recorded, never surfaced.
		log.Error().
			Err(err).
			Int("events", len(batch)).
			Msg("event sink delivery failed")
		a.notifySinkFailed(route)
	}
}
