package control

import "errors"

var (
	// ErrMissingCommand indicates an operation has no bound IR command
	ErrMissingCommand = errors.New("no command bound to operation")

	// ErrInvalidStateTransition indicates an operation would leave the control's domain
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrBoundary indicates a level control is already at the edge of its range
	ErrBoundary = errors.New("level at boundary")

	// ErrEmission indicates the IR transmission failed after validation passed
	ErrEmission = errors.New("ir emission failed")

	// ErrUnknownOperation indicates the control kind does not support an operation
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrInvalidSpec indicates a control definition is malformed
	ErrInvalidSpec = errors.New("invalid control definition")
)
