package schema

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferren/charter"
)

type createNote struct {
	Title string   `json:"title" validate:"required,min=3,max=120"`
	Body  string   `json:"body" validate:"required"`
	Tags  []string `json:"tags" validate:"max=8"`
}

type listQuery struct {
	Limit int    `schema:"limit" validate:"min=0,max=100"`
	Tag   string `schema:"tag"`
}

type noteParams struct {
	ID string `schema:"id" validate:"required,uuid"`
}

type clientHeaders struct {
	Client string `schema:"x-client-id" validate:"required"`
	Trace  string `schema:"x-trace-id"`
}

// issues unwraps a *charter.ValidationError or fails the test.
func issues(t *testing.T, err error) []charter.Issue {
	t.Helper()
	var verr *charter.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Issues
}

// TestJSON covers the body validator: decoding, the failure ladder, and
// the tag message table.
func TestJSON(t *testing.T) {
	t.Parallel()

	validateBody := JSON[createNote]()

	t.Run("valid body decodes", func(t *testing.T) {
		t.Parallel()

		payload, err := validateBody(json.RawMessage(`{"title":"groceries","body":"milk and eggs","tags":["home"]}`))
		require.NoError(t, err)
		assert.Equal(t, "groceries", payload.Title)
		assert.Equal(t, []string{"home"}, payload.Tags)
	})

	t.Run("empty body is required", func(t *testing.T) {
		t.Parallel()

		_, err := validateBody(nil)
		assert.Equal(t, []charter.Issue{{Field: "body", Message: "is required"}}, issues(t, err))
	})

	t.Run("malformed bytes are rejected before decoding", func(t *testing.T) {
		t.Parallel()

		_, err := validateBody(json.RawMessage(`{"title":`))
		assert.Equal(t, []charter.Issue{{Field: "body", Message: "must be valid JSON"}}, issues(t, err))
	})

	t.Run("wrong field type names the field", func(t *testing.T) {
		t.Parallel()

		_, err := validateBody(json.RawMessage(`{"title":7,"body":"x"}`))
		assert.Equal(t, []charter.Issue{{Field: "title", Message: "must be of type string"}}, issues(t, err))
	})

	t.Run("tag violations report one issue per field", func(t *testing.T) {
		t.Parallel()

		_, err := validateBody(json.RawMessage(`{"title":"ab","body":""}`))
		assert.Equal(t, []charter.Issue{
			{Field: "title", Message: "must be at least 3 characters"},
			{Field: "body", Message: "is required"},
		}, issues(t, err))
	})

	t.Run("max wording differs for collections", func(t *testing.T) {
		t.Parallel()

		_, err := validateBody(json.RawMessage(`{"title":"groceries","body":"milk","tags":["1","2","3","4","5","6","7","8","9"]}`))
		assert.Equal(t, []charter.Issue{{Field: "tags", Message: "must not exceed 8"}}, issues(t, err))
	})
}

// TestQuery covers weakly typed decoding of the query channel.
func TestQuery(t *testing.T) {
	t.Parallel()

	validateQuery := Query[listQuery]()

	t.Run("strings coerce into typed fields", func(t *testing.T) {
		t.Parallel()

		q, err := validateQuery(url.Values{"limit": {"7"}, "tag": {"work"}})
		require.NoError(t, err)
		assert.Equal(t, 7, q.Limit)
		assert.Equal(t, "work", q.Tag)
	})

	t.Run("missing keys leave zero values", func(t *testing.T) {
		t.Parallel()

		q, err := validateQuery(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, 0, q.Limit)
	})

	t.Run("unparseable value reports the field", func(t *testing.T) {
		t.Parallel()

		_, err := validateQuery(url.Values{"limit": {"abc"}})
		assert.Equal(t, []charter.Issue{{Field: "limit", Message: "must be a valid int"}}, issues(t, err))
	})

	t.Run("range violation uses numeric wording", func(t *testing.T) {
		t.Parallel()

		_, err := validateQuery(url.Values{"limit": {"250"}})
		assert.Equal(t, []charter.Issue{{Field: "limit", Message: "must not exceed 100"}}, issues(t, err))
	})

	t.Run("repeated keys keep the first value", func(t *testing.T) {
		t.Parallel()

		q, err := validateQuery(url.Values{"limit": {"7", "9"}})
		require.NoError(t, err)
		assert.Equal(t, 7, q.Limit)
	})
}

// TestParams covers path parameter decoding.
func TestParams(t *testing.T) {
	t.Parallel()

	validateParams := Params[noteParams]()

	t.Run("valid params decode", func(t *testing.T) {
		t.Parallel()

		p, err := validateParams(map[string]string{"id": "123e4567-e89b-12d3-a456-426614174000"})
		require.NoError(t, err)
		assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", p.ID)
	})

	t.Run("bad uuid is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := validateParams(map[string]string{"id": "nope"})
		assert.Equal(t, []charter.Issue{{Field: "id", Message: "must be a valid UUID"}}, issues(t, err))
	})

	t.Run("missing param is required", func(t *testing.T) {
		t.Parallel()

		_, err := validateParams(map[string]string{})
		assert.Equal(t, []charter.Issue{{Field: "id", Message: "is required"}}, issues(t, err))
	})
}

// TestHeaders covers header decoding, which must not care about the
// case of the schema tag versus the canonical header name.
func TestHeaders(t *testing.T) {
	t.Parallel()

	validateHeaders := Headers[clientHeaders]()

	t.Run("tags match header names case-insensitively", func(t *testing.T) {
		t.Parallel()

		h := http.Header{}
		h.Set("X-Client-Id", "ios")
		h.Set("X-Trace-Id", "t-1")

		decoded, err := validateHeaders(h)
		require.NoError(t, err)
		assert.Equal(t, "ios", decoded.Client)
		assert.Equal(t, "t-1", decoded.Trace)
	})

	t.Run("missing required header reports the field", func(t *testing.T) {
		t.Parallel()

		_, err := validateHeaders(http.Header{})
		assert.Equal(t, []charter.Issue{{Field: "client", Message: "is required"}}, issues(t, err))
	})

	t.Run("repeated headers keep the first value", func(t *testing.T) {
		t.Parallel()

		h := http.Header{}
		h.Add("X-Client-Id", "ios")
		h.Add("X-Client-Id", "android")

		decoded, err := validateHeaders(h)
		require.NoError(t, err)
		assert.Equal(t, "ios", decoded.Client)
	})
}
