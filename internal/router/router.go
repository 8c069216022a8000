// Package router initializes the HTTP router (using Echo).
//
// It registers the middleware stack and maps paths to endpoint
// contracts, keeping route wiring out of main.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ferren/charter"
	"github.com/ferren/charter/internal/middleware"
	"github.com/ferren/charter/internal/notes"
)

// requestsPerSecond caps each client IP. Generous for a demo API; tune
// per deployment once real traffic numbers exist.
const requestsPerSecond = 50

// Deps carries everything the router wires together.
type Deps struct {
	// Log is the diagnostics logger; the request logger derives from it.
	Log zerolog.Logger

	// App is the New Relic application, nil when APM is off.
	App *newrelic.Application

	// Adapter builds the endpoint handlers.
	Adapter *charter.Adapter

	// Notes provides the note endpoints.
	Notes *notes.Handlers

	// Env labels the runtime environment in the status report.
	Env string
}

// New assembles the Echo instance: recovery first, then correlation,
// tracing, logging and rate limiting, then the routes.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Tracing(d.App))
	e.Use(middleware.EnhanceTracing())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.RateLimit(rate.Limit(requestsPerSecond), d.App))

	registerSystemRoutes(e, d)
	registerNoteRoutes(e, d)

	return e
}

// registerNoteRoutes maps the note API.
func registerNoteRoutes(e *echo.Echo, d Deps) {
	e.POST("/notes", d.Notes.Create(d.Adapter))
	e.GET("/notes", d.Notes.List(d.Adapter))
	e.GET("/notes/:id", d.Notes.Get(d.Adapter))
	e.DELETE("/notes/:id", d.Notes.Delete(d.Adapter))
}
