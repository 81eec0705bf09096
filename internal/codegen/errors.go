package codegen

import "errors"

var (
	// ErrGenerationFailure covers backend errors, timeouts and unusable responses.
	ErrGenerationFailure = errors.New("code generation failed")
	ErrInvalidInput      = errors.New("invalid generation input")
	ErrEmptyResult       = errors.New("generation produced no usable content")
)
