package eventlog

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink remembers the batches it was handed.
type recordingSink struct {
	batches [][]Event
}

func (s *recordingSink) Deliver(ctx context.Context, events []Event) error {
	s.batches = append(s.batches, events)
	return nil
}

// TestRegistryDefaults checks the unconfigured registry warns and drops
// instead of failing.
func TestRegistryDefaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewRegistry(WithStubOutput(&buf))

	assert.False(t, r.Configured())

	err := r.Current().Deliver(context.Background(), []Event{Info("lost")})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "no log sink configured")
	assert.Contains(t, buf.String(), `"events":1`)
}

// TestRegistryConfigure checks installation and replacement semantics.
func TestRegistryConfigure(t *testing.T) {
	t.Parallel()

	t.Run("configured sink receives deliveries", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		sink := &recordingSink{}
		r.Configure(sink)

		assert.True(t, r.Configured())

		err := r.Current().Deliver(context.Background(), []Event{Info("one")})
		require.NoError(t, err)
		require.Len(t, sink.batches, 1)
		assert.Equal(t, "one", sink.batches[0][0].Message)
	})

	t.Run("last writer wins", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		first := &recordingSink{}
		second := &recordingSink{}

		r.Configure(first)
		r.Configure(second)

		require.NoError(t, r.Current().Deliver(context.Background(), nil))
		assert.Empty(t, first.batches)
		assert.Len(t, second.batches, 1)
	})

	t.Run("configure nil reverts to the stub", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		r := NewRegistry(WithStubOutput(&buf))
		r.Configure(&recordingSink{})
		r.Configure(nil)

		assert.False(t, r.Configured())
		require.NoError(t, r.Current().Deliver(context.Background(), nil))
		assert.Contains(t, buf.String(), "no log sink configured")
	})
}
