package charter

import (
	"net/http"
	"strings"
)

// issueSeparator joins the per-field messages of a ValidationError into
// one string and splits them back apart when the envelope is built. A
// message that itself contains the separator therefore splits at that
// point too; keep field messages free of "; ".
const issueSeparator = "; "

// unexpectedMessage is the only text a caller ever sees for an error the
// adapter cannot classify. The underlying error goes to OnUnexpectedError
// and the diagnostics log, never into the response.
const unexpectedMessage = "Something went wrong"

// Issue is a single field-level validation failure.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports the shape violations found while checking one
// input channel. The adapter turns each issue into one envelope error
// entry, in the order the issues were reported.
type ValidationError struct {
	Issues []Issue
}

// NewValidationError builds a ValidationError from issues.
func NewValidationError(issues ...Issue) *ValidationError {
	return &ValidationError{Issues: issues}
}

// Error satisfies the error interface.
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), issueSeparator)
}

// Is reports whether target is also a *ValidationError, so
// errors.Is(err, &ValidationError{}) matches on type alone.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// Messages flattens the issues into "field: message" strings.
//
// The flattening joins everything on issueSeparator and splits the result
// back apart, so an issue message containing the separator comes back as
// two entries.
func (e *ValidationError) Messages() []string {
	if len(e.Issues) == 0 {
		return nil
	}

	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Message)
	}

	return strings.Split(strings.Join(parts, issueSeparator), issueSeparator)
}

// BusinessError is a domain-rule rejection raised by handler code, usually
// through Context.Fail. The message is shown to the caller verbatim. Code
// rides along for classification and logging but is not part of the
// response envelope.
type BusinessError struct {
	Message string
	Code    int
}

// NewBusinessError builds a BusinessError with the default 400 code.
func NewBusinessError(message string) *BusinessError {
	return &BusinessError{Message: message, Code: http.StatusBadRequest}
}

// Error satisfies the error interface.
func (e *BusinessError) Error() string {
	return e.Message
}

// Is reports whether target is also a *BusinessError. Like
// ValidationError.Is, this matches on type, not on message or code.
func (e *BusinessError) Is(target error) bool {
	_, ok := target.(*BusinessError)
	return ok
}
