// Package logger configures the daemon's diagnostics logging.
//
// It uses zerolog for structured output and optionally integrates with
// New Relic: when a license key is configured, the agent is started and
// log lines are decorated and forwarded through the logcontext writer.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/ferren/charter/internal/config"
)

// serviceName tags every log line and the APM application. Hardcoded so
// nobody configures it into chaos.
const serviceName = "notesd"

// Service wraps the optional New Relic application. It is always
// non-nil; Application returns nil when the agent is not configured.
type Service struct {
	app *newrelic.Application
}

// Application returns the New Relic application, or nil when APM is off.
func (s *Service) Application() *newrelic.Application {
	if s == nil {
		return nil
	}
	return s.app
}

// Shutdown flushes the agent's buffered data. A no-op without an agent.
func (s *Service) Shutdown(timeout time.Duration) {
	if s == nil || s.app == nil {
		return
	}
	s.app.Shutdown(timeout)
}

// New builds the diagnostics logger and the APM service from config.
//
// Writer chain, outermost first: zerolog emits JSON; when log forwarding
// is on, the zerologWriter integration parses each line and forwards it;
// in console format the line then lands in a ConsoleWriter, which
// pretty-prints it for humans.
func New(cfg *config.Config) (zerolog.Logger, *Service, error) {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("parse log level %q: %w", cfg.Logging.Level, err)
	}

	svc := &Service{}
	if cfg.NewRelic.LicenseKey != "" {
		app, err := newrelic.NewApplication(
			newrelic.ConfigAppName(serviceName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigAppLogForwardingEnabled(cfg.NewRelic.AppLogForwardingEnabled),
			newrelic.ConfigDistributedTracerEnabled(true),
		)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("init new relic agent: %w", err)
		}
		svc.app = app
	}

	var out io.Writer = os.Stdout
	if cfg.Logging.Format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	if svc.app != nil && cfg.NewRelic.AppLogForwardingEnabled {
		out = zerologWriter.New(out, svc.app)
	}

	log := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("env", cfg.Primary.Env).
		Logger()

	return log, svc, nil
}

// WithTraceContext returns a child logger carrying the transaction's
// trace and span IDs, so log lines correlate with APM traces.
func WithTraceContext(log zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	md := txn.GetTraceMetadata()
	return log.With().
		Str("trace.id", md.TraceID).
		Str("span.id", md.SpanID).
		Logger()
}
