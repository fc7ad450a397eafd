package device

import "errors"

var (
	// ErrNotFound indicates a device was not found
	ErrNotFound = errors.New("device not found")

	// ErrDuplicateControlName indicates two controls share a name
	ErrDuplicateControlName = errors.New("duplicate control name")

	// ErrProfileMismatch indicates a device does not fit its profile
	ErrProfileMismatch = errors.New("profile mismatch")

	// ErrIDMismatch indicates a payload names a different device than the request path
	ErrIDMismatch = errors.New("device id mismatch")

	// ErrInvalidCommandID indicates a command id is not of the form control.op
	ErrInvalidCommandID = errors.New("invalid command id")

	// ErrValidation indicates a device document failed schema validation
	ErrValidation = errors.New("validation error")
)
