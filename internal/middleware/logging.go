package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	loggerpkg "github.com/ferren/charter/internal/logger"
)

// RequestLogger emits one structured "API" log line per request.
//
// Endpoints built through the charter adapter report their outcome inside
// the envelope, not in the status code, so severity here reacts only to
// transport-level failures: 5xx logs as an error, 4xx (unknown routes,
// rate limits) as a warning, everything else as info.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,

		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			statusCode := v.Status

			// When a handler returns an error, Echo has not written the
			// final status yet. Derive it from the error instead of
			// logging a false 200.
			if v.Error != nil {
				var echoErr *echo.HTTPError
				if errors.As(v.Error, &echoErr) {
					statusCode = echoErr.Code
				}
			}

			entry := log
			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				entry = loggerpkg.WithTraceContext(entry, txn)
			}

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = entry.Error().Err(v.Error)
			case statusCode >= 400:
				e = entry.Warn()
			default:
				e = entry.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}
