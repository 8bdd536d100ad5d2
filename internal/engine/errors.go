package engine

import "errors"

// Error kind strings for failures at or after model invocation.
const (
	KindImageProcessingError = "ImageProcessingError"
	KindResourceExhausted    = "ResourceExhausted"
	KindGenerationError      = "GenerationError"
)

// imageProcessingError signals that decoded image bytes could not be turned
// into the model's input representation (corrupt pixels, unsupported mode).
type imageProcessingError struct{ msg string }

func (e imageProcessingError) Error() string   { return KindImageProcessingError + ": " + e.msg }
func (e imageProcessingError) Kind() string    { return KindImageProcessingError }
func (e imageProcessingError) Message() string { return e.msg }

// ErrImageProcessing constructs an imageProcessingError.
func ErrImageProcessing(msg string) error { return imageProcessingError{msg: msg} }

// IsImageProcessing reports whether err is an image conversion failure.
func IsImageProcessing(err error) bool {
	var e imageProcessingError
	return errors.As(err, &e)
}

// resourceExhaustedError signals that the accelerator lacked memory for the
// current input. It is terminal for the request and never retried here.
type resourceExhaustedError struct{ msg string }

func (e resourceExhaustedError) Error() string   { return KindResourceExhausted + ": " + e.msg }
func (e resourceExhaustedError) Kind() string    { return KindResourceExhausted }
func (e resourceExhaustedError) Message() string { return e.msg }

// ErrResourceExhausted constructs a resourceExhaustedError.
func ErrResourceExhausted(msg string) error { return resourceExhaustedError{msg: msg} }

// IsResourceExhausted reports whether err indicates accelerator memory pressure.
func IsResourceExhausted(err error) bool {
	var e resourceExhaustedError
	return errors.As(err, &e)
}

// generationError is the catch-all for unexpected model invocation failure.
type generationError struct{ msg string }

func (e generationError) Error() string   { return KindGenerationError + ": " + e.msg }
func (e generationError) Kind() string    { return KindGenerationError }
func (e generationError) Message() string { return e.msg }

// ErrGeneration constructs a generationError.
func ErrGeneration(msg string) error { return generationError{msg: msg} }

// IsGeneration reports whether err is a model invocation failure.
func IsGeneration(err error) bool {
	var e generationError
	return errors.As(err, &e)
}
