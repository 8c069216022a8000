package charter

// Envelope is the single response shape every endpoint returns, success
// or not. Exactly one of Data and Errors is meaningful: on success Errors
// is the empty list (marshals as [], never null) and Data holds the
// handler result; on failure Data marshals as null and Errors carries at
// least one message.
type Envelope struct {
	OK     bool     `json:"ok"`
	Data   any      `json:"data"`
	Errors []string `json:"errors"`
}

// Success wraps a handler result in a positive envelope.
func Success(data any) Envelope {
	return Envelope{OK: true, Data: data, Errors: []string{}}
}

// Failure builds a negative envelope from one or more error messages.
func Failure(messages ...string) Envelope {
	return Envelope{OK: false, Data: nil, Errors: messages}
}
