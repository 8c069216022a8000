package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ferren/charter"
	"github.com/ferren/charter/eventlog"
)

// statusReport is the /status response shape.
type statusReport struct {
	Status    string `json:"status"`
	Env       string `json:"env"`
	Uptime    string `json:"uptime"`
	SinkReady bool   `json:"sink_ready"`
}

// registerSystemRoutes registers endpoints that are not part of the note
// API.
//
// /status goes through the adapter like any business endpoint, so it
// answers in the same envelope and its requests flow into the event log.
// /metrics stays a plain Prometheus handler; scrapers expect the
// exposition format, not an envelope.
func registerSystemRoutes(e *echo.Echo, d Deps) {
	started := time.Now()

	e.GET("/status", charter.Build(d.Adapter, charter.Contract[charter.RawQuery, charter.RawParams, charter.RawBody, charter.RawHeaders, statusReport]{
		Handle: func(c *charter.Context, _ charter.Inputs[charter.RawQuery, charter.RawParams, charter.RawBody, charter.RawHeaders]) (statusReport, error) {
			c.Log(eventlog.Debug("status checked"))

			return statusReport{
				Status:    "ok",
				Env:       d.Env,
				Uptime:    time.Since(started).Round(time.Second).String(),
				SinkReady: d.Adapter.Registry().Configured(),
			}, nil
		},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
