package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/newrelic/go-agent/v3/newrelic"
	"golang.org/x/time/rate"
)

// RateLimit returns an in-memory per-IP limiter.
//
// Rejections answer 429 directly rather than through the charter
// envelope; a rate-limited client never reached an endpoint, so there is
// no contract to answer for. When APM is configured, each rejection
// records a custom event so abuse shows up in dashboards.
func RateLimit(limit rate.Limit, app *newrelic.Application) echo.MiddlewareFunc {
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: echomw.NewRateLimiterMemoryStore(limit),
		DenyHandler: func(c echo.Context, identifier string, _ error) error {
			if app != nil {
				app.RecordCustomEvent("RateLimitHit", map[string]interface{}{
					"endpoint":   c.Path(),
					"identifier": identifier,
				})
			}
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}
