package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadDefaults verifies a bare environment produces the development
// configuration.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Primary.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, SinkConsole, cfg.Events.Sink)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.False(t, cfg.IsProduction())
}

// TestLoadOverrides verifies env vars map onto nested config fields,
// including the double-underscore nesting rule.
func TestLoadOverrides(t *testing.T) {
	t.Setenv("NOTESD_PRIMARY__ENV", "production")
	t.Setenv("NOTESD_SERVER__PORT", "9090")
	t.Setenv("NOTESD_SERVER__READ_TIMEOUT", "30")
	t.Setenv("NOTESD_LOGGING__FORMAT", "json")
	t.Setenv("NOTESD_EVENTS__SINK", "nats")
	t.Setenv("NOTESD_EVENTS__NATS__URL", "nats://localhost:4222")
	t.Setenv("NOTESD_EVENTS__NATS__SUBJECT", "notes.logs")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.ReadTimeout)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, SinkNATS, cfg.Events.Sink)
	assert.Equal(t, "nats://localhost:4222", cfg.Events.NATS.URL)
	assert.True(t, cfg.IsProduction())
}

// TestLoadRejectsBadValues verifies tag validation catches values outside
// the allowed sets.
func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("unknown environment", func(t *testing.T) {
		t.Setenv("NOTESD_PRIMARY__ENV", "qa")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validate config")
	})

	t.Run("unknown sink", func(t *testing.T) {
		t.Setenv("NOTESD_EVENTS__SINK", "kafka")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("unknown log level", func(t *testing.T) {
		t.Setenv("NOTESD_LOGGING__LEVEL", "verbose")

		_, err := Load()
		require.Error(t, err)
	})
}

// TestValidateSinkRules covers the cross-field rules each sink adds.
func TestValidateSinkRules(t *testing.T) {
	t.Run("nats sink needs url", func(t *testing.T) {
		cfg := Default()
		cfg.Events.Sink = SinkNATS

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "events.nats.url")
	})

	t.Run("redis sink needs address", func(t *testing.T) {
		cfg := Default()
		cfg.Events.Sink = SinkRedis

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "events.redis.address")
	})

	t.Run("asynq sink needs address", func(t *testing.T) {
		cfg := Default()
		cfg.Events.Sink = SinkAsynq

		err := cfg.Validate()
		require.Error(t, err)
	})

	t.Run("console sink needs nothing", func(t *testing.T) {
		require.NoError(t, Default().Validate())
	})

	t.Run("log forwarding needs a license key", func(t *testing.T) {
		cfg := Default()
		cfg.NewRelic.AppLogForwardingEnabled = true

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "license_key")
	})
}
