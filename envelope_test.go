package charter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnvelopeJSON pins the wire shape: errors is always a list, data is
// an explicit null on failure.
func TestEnvelopeJSON(t *testing.T) {
	t.Parallel()

	t.Run("success carries data and an empty error list", func(t *testing.T) {
		t.Parallel()

		out, err := json.Marshal(Success(map[string]int{"count": 3}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true,"data":{"count":3},"errors":[]}`, string(out))
	})

	t.Run("failure carries null data", func(t *testing.T) {
		t.Parallel()

		out, err := json.Marshal(Failure("title: is required", "body: is required"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":false,"data":null,"errors":["title: is required","body: is required"]}`, string(out))
	})

	t.Run("success with nil data is still ok", func(t *testing.T) {
		t.Parallel()

		out, err := json.Marshal(Success(nil))
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true,"data":null,"errors":[]}`, string(out))
	})
}
