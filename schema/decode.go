package schema

import (
	"errors"
	"strings"

	"github.com/ferren/charter"
	"github.com/mitchellh/mapstructure"
)

// decodeStrings maps string key/values into T via mapstructure, then runs
// tag validation. WeaklyTypedInput is what lets "42" land in an int field
// and "true" in a bool field; everything on the wire is a string here.
func decodeStrings[T any](src map[string]string) (T, error) {
	var out T

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "schema",
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, err
	}

	if err := dec.Decode(src); err != nil {
		return out, decodeIssues(err)
	}

	if err := validate.Struct(&out); err != nil {
		return out, tagIssues(err)
	}

	return out, nil
}

// decodeIssues converts a mapstructure decode failure into field issues.
// mapstructure reports errors as strings; the field name sits in the
// first single-quoted token and the target type follows "as".
func decodeIssues(err error) error {
	var merr *mapstructure.Error
	if !errors.As(err, &merr) {
		return err
	}

	issues := make([]charter.Issue, 0, len(merr.Errors))
	for _, msg := range merr.Errors {
		issues = append(issues, charter.Issue{
			Field:   strings.ToLower(quotedField(msg)),
			Message: decodeMessage(msg),
		})
	}
	return charter.NewValidationError(issues...)
}

// quotedField pulls the first 'quoted' token out of a mapstructure error
// string.
func quotedField(msg string) string {
	start := strings.IndexByte(msg, '\'')
	if start == -1 {
		return "input"
	}
	rest := msg[start+1:]
	end := strings.IndexByte(rest, '\'')
	if end == -1 {
		return "input"
	}
	return rest[:end]
}

// decodeMessage renders a mapstructure error string as a field message.
// A typical input looks like:
//
//	cannot parse 'Limit' as int: strconv.ParseInt: parsing "abc": ...
func decodeMessage(msg string) string {
	if i := strings.Index(msg, " as "); i != -1 {
		rest := msg[i+4:]
		if j := strings.IndexByte(rest, ':'); j != -1 {
			return "must be a valid " + rest[:j]
		}
	}
	return "is not valid"
}
