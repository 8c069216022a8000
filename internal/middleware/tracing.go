package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Tracing installs New Relic transaction handling into Echo: one
// transaction per request, stored in the request context so
// newrelic.FromContext works downstream (the enhancer below, the logger
// middleware, and endpoint hooks all rely on it).
//
// With a nil application the middleware is a pass-through, so notesd runs
// unchanged without APM configured.
func Tracing(app *newrelic.Application) echo.MiddlewareFunc {
	if app == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return nrecho.Middleware(app)
}

// EnhanceTracing decorates the current transaction with request
// attributes and notices handler errors.
//
// It assumes Tracing ran earlier in the chain; without a transaction it
// does nothing. Errors are wrapped through nrpkgerrors so stack traces
// survive into the APM UI.
func EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			txn.AddAttribute("http.real_ip", c.RealIP())
			if requestID := GetRequestID(c); requestID != "" {
				txn.AddAttribute("request.id", requestID)
			}

			err := next(c)
			if err != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}

			txn.AddAttribute("http.status_code", c.Response().Status)

			return err
		}
	}
}
