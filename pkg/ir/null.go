package ir

import "context"

// NullTransceiver is a no-op transceiver used when no IR bridge is available.
// It allows the API to serve stored devices in limited mode.
type NullTransceiver struct{}

// NewNullTransceiver creates a new NullTransceiver.
func NewNullTransceiver() *NullTransceiver {
	return &NullTransceiver{}
}

func (t *NullTransceiver) Emit(ctx context.Context, cmd Command) error {
	return ErrNotConnected
}

func (t *NullTransceiver) Capture(ctx context.Context, label string) (Command, error) {
	return Command{}, ErrNotConnected
}

func (t *NullTransceiver) IsConnected() bool {
	return false
}

func (t *NullTransceiver) Close() error {
	return nil
}
