package payload

import "errors"

// Error kind strings surfaced to callers in the error response. These form a
// closed taxonomy together with the engine's kinds.
const (
	KindMalformedPayload       = "MalformedPayload"
	KindMissingPrompt          = "MissingPrompt"
	KindInvalidImageEncoding   = "InvalidImageEncoding"
	KindUnsupportedImageFormat = "UnsupportedImageFormat"
	KindInvalidParameter       = "InvalidParameter"
)

// ValidationError is returned for any request rejected before model
// invocation. It terminates only the current request.
type ValidationError struct {
	kind string
	msg  string
}

func (e ValidationError) Error() string { return e.kind + ": " + e.msg }

// Kind returns the taxonomy string for the response payload.
func (e ValidationError) Kind() string { return e.kind }

// Message returns the human-readable detail for the response payload.
func (e ValidationError) Message() string { return e.msg }

func validationErr(kind, msg string) error { return ValidationError{kind: kind, msg: msg} }

// IsValidation reports whether err is a request-validation failure.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
