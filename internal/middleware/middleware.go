// Package middleware stores the Echo middleware notesd installs around
// its endpoints.
//
// These intercept requests to handle cross-cutting concerns such as
// request correlation IDs, request logging, New Relic tracing, rate
// limiting, and panic recovery.
//
// Response shaping is deliberately absent: endpoints built through the
// charter adapter own their envelope and always answer HTTP 200, so the
// middleware here observes requests without rewriting them.
package middleware
