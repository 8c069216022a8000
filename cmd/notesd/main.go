// notesd is the demo daemon for the charter adapter: a small note API
// whose endpoints are all declared as contracts, with the event sink,
// metrics, and APM wiring chosen by configuration.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ferren/charter"
	"github.com/ferren/charter/eventlog"
	"github.com/ferren/charter/eventlog/asynqsink"
	"github.com/ferren/charter/eventlog/natssink"
	"github.com/ferren/charter/eventlog/redissink"
	"github.com/ferren/charter/internal/config"
	"github.com/ferren/charter/internal/logger"
	"github.com/ferren/charter/internal/notes"
	"github.com/ferren/charter/internal/router"
	"github.com/ferren/charter/internal/server"
	"github.com/ferren/charter/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger needs config, so config errors go to a bootstrap one.
		boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log, svc, err := logger.New(cfg)
	if err != nil {
		boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("failed to initialize logger")
	}

	sink, cleanup, err := buildSink(cfg, log, svc.Application())
	if err != nil {
		log.Fatal().Err(err).Str("sink", cfg.Events.Sink).Msg("failed to build event sink")
	}
	defer cleanup()

	registry := eventlog.NewRegistry()
	registry.Configure(sink)

	adapter := charter.New(
		charter.WithRegistry(registry),
		charter.WithDiagnostics(log.With().Str("component", "charter").Logger()),
		charter.WithObserver(metrics.New("notesd")),
	)

	e := router.New(router.Deps{
		Log:     log,
		App:     svc.Application(),
		Adapter: adapter,
		Notes:   notes.NewHandlers(notes.NewStore()),
		Env:     cfg.Primary.Env,
	})

	srv := server.New(cfg, log)
	srv.SetupHTTPServer(e)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Block until asked to stop, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}

	svc.Shutdown(5 * time.Second)
}

// buildSink constructs the configured event sink plus its cleanup. The
// cleanup closes whatever connection the sink rides on; the console sink
// has nothing to close.
func buildSink(cfg *config.Config, log zerolog.Logger, app *newrelic.Application) (eventlog.Sink, func(), error) {
	switch cfg.Events.Sink {
	case config.SinkConsole:
		events := log.With().Str("component", "events").Logger()
		return eventlog.NewZerologSink(events), func() {}, nil

	case config.SinkNATS:
		sink, nc, err := natssink.Connect(cfg.Events.NATS.URL, cfg.Events.NATS.Subject)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() { _ = nc.Drain() }, nil

	case config.SinkRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Events.Redis.Address})
		if app != nil {
			// Trace XADD calls like any other dependency.
			client.AddHook(nrredis.NewHook(client.Options()))
		}
		return redissink.New(client, cfg.Events.Redis.Stream), func() { _ = client.Close() }, nil

	case config.SinkAsynq:
		client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Events.Redis.Address})
		sink := asynqsink.New(client,
			asynq.Queue("low"),
			asynq.MaxRetry(3),
			asynq.Timeout(30*time.Second),
		)
		return sink, func() { _ = client.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown events sink %q", cfg.Events.Sink)
}
