package eventlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLevelSeverity locks the severity table, including the historical
// ordering of warn above error that downstream consumers depend on.
func TestLevelSeverity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, LevelDebug.Severity())
	assert.Equal(t, 1, LevelInfo.Severity())
	assert.Equal(t, 2, LevelError.Severity())
	assert.Equal(t, 3, LevelWarn.Severity())

	t.Run("warn ranks above error", func(t *testing.T) {
		t.Parallel()
		assert.Greater(t, LevelWarn.Severity(), LevelError.Severity())
	})

	t.Run("unknown level ranks as info", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, LevelInfo.Severity(), Level("fatal").Severity())
	})
}

// TestEventConstructors checks each constructor sets level and message and
// nothing else.
func TestEventConstructors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		build func(string) Event
		level Level
	}{
		{"debug", Debug, LevelDebug},
		{"info", Info, LevelInfo},
		{"warn", Warn, LevelWarn},
		{"error", Error, LevelError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ev := tc.build("hello")
			assert.Equal(t, tc.level, ev.Level)
			assert.Equal(t, "hello", ev.Message)
			assert.Nil(t, ev.Tags)
			assert.Nil(t, ev.Metadata)
		})
	}
}

// TestEventWith checks the With helpers copy instead of mutating, so an
// Event can serve as a shared template.
func TestEventWith(t *testing.T) {
	t.Parallel()

	t.Run("WithTags appends without touching the original", func(t *testing.T) {
		t.Parallel()
		base := Info("base").WithTags("api")

		tagged := base.WithTags("slow", "retry")

		assert.Equal(t, []string{"api"}, base.Tags)
		assert.Equal(t, []string{"api", "slow", "retry"}, tagged.Tags)
	})

	t.Run("WithMeta clones the metadata map", func(t *testing.T) {
		t.Parallel()
		base := Info("base").WithMeta("region", "eu")

		a := base.WithMeta("user", "alpha")
		b := base.WithMeta("user", "beta")

		assert.Equal(t, map[string]string{"region": "eu"}, base.Metadata)
		assert.Equal(t, "alpha", a.Metadata["user"])
		assert.Equal(t, "beta", b.Metadata["user"])
		assert.Equal(t, "eu", a.Metadata["region"])
	})
}
