package ir

import "errors"

var (
	// ErrNotConnected indicates the IR bridge is not reachable
	ErrNotConnected = errors.New("ir bridge not connected")

	// ErrCaptureTimeout indicates no signal arrived while capturing
	ErrCaptureTimeout = errors.New("timed out waiting for ir signal")

	// ErrEmptyCommand indicates a command without pulses
	ErrEmptyCommand = errors.New("ir command has no pulses")

	// ErrInvalidPulse indicates a non-positive pulse width
	ErrInvalidPulse = errors.New("ir command has a non-positive pulse")

	// ErrBridge indicates the bridge rejected or garbled a frame
	ErrBridge = errors.New("ir bridge error")
)
