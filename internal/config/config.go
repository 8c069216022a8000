// Package config manages environment variables for notesd.
//
// It reads variables from the process environment (optionally seeded from
// a `.env` file), maps them into structured Go types, and validates that
// required values are present so the daemon fails fast on bad config.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into the Config struct.
//   - Provide development defaults so `notesd` runs with an empty env.
//   - Validate values, including cross-field rules per event sink.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file into the process env, if one
	// exists, before anything here reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// envPrefix scopes which environment variables belong to notesd.
const envPrefix = "NOTESD_"

// Event sink selectors for EventsConfig.Sink.
const (
	SinkConsole = "console"
	SinkNATS    = "nats"
	SinkRedis   = "redis"
	SinkAsynq   = "asynq"
)

// Config is the root configuration object.
//
// Env vars map to fields through koanf: the NOTESD_ prefix is stripped,
// the rest is lowercased, and a double underscore becomes the nesting
// dot. So NOTESD_SERVER__READ_TIMEOUT lands on Config.Server.ReadTimeout,
// and single underscores survive inside a key name.
type Config struct {
	Primary  Primary        `koanf:"primary" validate:"required"`
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Events   EventsConfig   `koanf:"events" validate:"required"`
	Logging  LoggingConfig  `koanf:"logging" validate:"required"`
	NewRelic NewRelicConfig `koanf:"new_relic"`
}

// Primary holds top-level information about the runtime environment,
// used to tag logs and switch defaults.
type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=development staging production"`
}

// ServerConfig groups settings for the HTTP server runtime. Timeouts are
// whole seconds.
type ServerConfig struct {
	Port         string `koanf:"port" validate:"required"`
	ReadTimeout  int    `koanf:"read_timeout" validate:"required"`
	WriteTimeout int    `koanf:"write_timeout" validate:"required"`
	IdleTimeout  int    `koanf:"idle_timeout" validate:"required"`
}

// EventsConfig selects where request event batches go. Sink picks the
// transport; the matching sub-block must then be filled in, which
// Validate enforces because struct tags cannot express it.
type EventsConfig struct {
	Sink  string      `koanf:"sink" validate:"required,oneof=console nats redis asynq"`
	NATS  NATSConfig  `koanf:"nats"`
	Redis RedisConfig `koanf:"redis"`
}

// NATSConfig holds connection details for the NATS sink.
type NATSConfig struct {
	URL     string `koanf:"url"`
	Subject string `koanf:"subject"`
}

// RedisConfig holds connection details for the redis and asynq sinks.
// The asynq sink only needs Address; the stream is for the redis sink.
type RedisConfig struct {
	Address string `koanf:"address"`
	Stream  string `koanf:"stream"`
}

// LoggingConfig controls the diagnostics logger.
type LoggingConfig struct {
	// Level is the verbosity threshold. Logs below it are dropped.
	Level string `koanf:"level" validate:"required,oneof=debug info warn error"`

	// Format selects console output for humans or JSON for pipelines.
	Format string `koanf:"format" validate:"required,oneof=console json"`
}

// NewRelicConfig controls APM integration. An empty license key means
// "not configured" and notesd runs without the agent.
type NewRelicConfig struct {
	LicenseKey              string `koanf:"license_key"`
	AppLogForwardingEnabled bool   `koanf:"app_log_forwarding_enabled"`
}

// Default returns the development configuration: console sink, console
// logs, no APM. Every field the validator requires is populated, so a
// bare `notesd` starts without any environment at all.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  10,
			WriteTimeout: 10,
			IdleTimeout:  60,
		},
		Events: EventsConfig{
			Sink: SinkConsole,
			NATS: NATSConfig{
				Subject: "notesd.events",
			},
			Redis: RedisConfig{
				Stream: "notesd:events",
			},
		},
		Logging: LoggingConfig{
			Level:  "debug",
			Format: "console",
		},
	}
}

// Load builds the configuration: defaults first, then environment
// overrides, then validation.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Key mapping example:
	//   NOTESD_EVENTS__NATS__URL -> events.nats.url
	//   NOTESD_SERVER__READ_TIMEOUT -> server.read_timeout
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate applies the cross-field rules that go beyond struct tags: each
// event sink needs its own connection details filled in.
func (c *Config) Validate() error {
	switch c.Events.Sink {
	case SinkNATS:
		if c.Events.NATS.URL == "" {
			return fmt.Errorf("events sink %q requires events.nats.url", SinkNATS)
		}
		if c.Events.NATS.Subject == "" {
			return fmt.Errorf("events sink %q requires events.nats.subject", SinkNATS)
		}

	case SinkRedis:
		if c.Events.Redis.Address == "" {
			return fmt.Errorf("events sink %q requires events.redis.address", SinkRedis)
		}
		if c.Events.Redis.Stream == "" {
			return fmt.Errorf("events sink %q requires events.redis.stream", SinkRedis)
		}

	case SinkAsynq:
		if c.Events.Redis.Address == "" {
			return fmt.Errorf("events sink %q requires events.redis.address", SinkAsynq)
		}
	}

	if c.NewRelic.AppLogForwardingEnabled && c.NewRelic.LicenseKey == "" {
		return fmt.Errorf("new_relic.app_log_forwarding_enabled requires new_relic.license_key")
	}

	return nil
}

// IsProduction reports whether notesd runs in production mode. Used to
// tighten defaults and pick log formats.
func (c *Config) IsProduction() bool {
	return c.Primary.Env == "production"
}
