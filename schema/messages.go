package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/ferren/charter"
	"github.com/go-playground/validator/v10"
)

// tagIssues converts a validator error into field-level issues via the
// message table below. A non-tag error (T is not a struct, for example)
// passes through unchanged and classifies as unexpected upstream.
func tagIssues(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	issues := make([]charter.Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, charter.Issue{
			Field:   strings.ToLower(fe.Field()),
			Message: tagMessage(fe),
		})
	}
	return charter.NewValidationError(issues...)
}

// tagMessage renders one validator tag failure as a human message.
//
// min/max mean length for strings and magnitude for numbers, so the
// wording switches on the field's kind. Tags outside the table fall back
// to naming the tag, which is at least debuggable.
func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"

	case "min":
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())

	case "max":
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())

	case "email":
		return "must be a valid email address"

	case "uuid":
		return "must be a valid UUID"

	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())

	case "url":
		return "must be a valid URL"

	default:
		if fe.Param() != "" {
			return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("must satisfy %s", fe.Tag())
	}
}

// unmarshalIssues maps JSON decoding failures onto issues. Type
// mismatches name the offending field; anything else reports on the body
// channel as a whole.
func unmarshalIssues(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := strings.ToLower(typeErr.Field)
		if field == "" {
			field = "body"
		}
		return charter.NewValidationError(charter.Issue{
			Field:   field,
			Message: "must be of type " + typeErr.Type.String(),
		})
	}

	return charter.NewValidationError(charter.Issue{
		Field:   "body",
		Message: "must be valid JSON",
	})
}
