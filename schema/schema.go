// Package schema builds charter channel validators from struct tags, so
// most endpoints never hand-write validation.
//
// Shape checking runs on go-playground/validator tags (`validate:"..."`).
// The string-keyed channels (query, params, headers) decode through the
// `schema` tag with weak typing, so "42" satisfies an int field and
// "true" a bool field. Bodies decode as JSON:
//
//	type CreateNote struct {
//	    Title string   `json:"title" validate:"required,min=3,max=120"`
//	    Tags  []string `json:"tags"  validate:"max=8"`
//	}
//
//	type ListQuery struct {
//	    Limit int    `schema:"limit" validate:"min=0,max=100"`
//	    Tag   string `schema:"tag"`
//	}
//
//	ct := charter.Contract[ListQuery, charter.RawParams, CreateNote, charter.RawHeaders, Note]{
//	    Query: schema.Query[ListQuery](),
//	    Body:  schema.JSON[CreateNote](),
//	    ...
//	}
//
// All failures come back as *charter.ValidationError with one issue per
// field, which the adapter renders as "field: message" envelope entries.
// The target types must be structs.
package schema

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/ferren/charter"
	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

// validate is the shared validator instance. go-playground/validator
// caches struct metadata internally, so one instance serves the process.
var validate = validator.New()

// JSON returns a body validator that decodes the request body into T and
// applies T's validator tags.
//
// Failure modes, in the order they are checked:
//   - empty body: "body: is required"
//   - bytes that are not valid JSON: "body: must be valid JSON"
//   - JSON of the wrong shape: one issue naming the mismatched field
//   - tag violations: one issue per failing field
func JSON[T any]() charter.BodyValidator[T] {
	return func(body json.RawMessage) (T, error) {
		var payload T

		if len(body) == 0 {
			return payload, charter.NewValidationError(charter.Issue{
				Field:   "body",
				Message: "is required",
			})
		}

		// gjson probes validity without building a document, which keeps
		// the malformed-input path cheap.
		if !gjson.ValidBytes(body) {
			return payload, charter.NewValidationError(charter.Issue{
				Field:   "body",
				Message: "must be valid JSON",
			})
		}

		if err := json.Unmarshal(body, &payload); err != nil {
			return payload, unmarshalIssues(err)
		}

		if err := validate.Struct(&payload); err != nil {
			return payload, tagIssues(err)
		}

		return payload, nil
	}
}

// Query returns a query validator for T.
func Query[T any]() charter.QueryValidator[T] {
	return func(values url.Values) (T, error) {
		return decodeStrings[T](flattenValues(values))
	}
}

// Params returns a path parameter validator for T.
func Params[T any]() charter.ParamsValidator[T] {
	return func(params map[string]string) (T, error) {
		return decodeStrings[T](params)
	}
}

// Headers returns a header validator for T. Headers flatten to their
// first value before decoding, and `schema` tags match header names
// case-insensitively, so `schema:"X-Client-Id"` and `schema:"x-client-id"`
// behave the same.
func Headers[T any]() charter.HeaderValidator[T] {
	return func(header http.Header) (T, error) {
		return decodeStrings[T](charter.FlattenHeaders(header))
	}
}

// flattenValues keeps the first value per query key, mirroring header
// flattening: repeated keys lose everything after the first value.
func flattenValues(values url.Values) map[string]string {
	flat := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			flat[key] = vals[0]
		}
	}
	return flat
}
