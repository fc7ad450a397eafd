package device

import (
	"context"
	"fmt"
	"time"

	"github.com/urmzd/irhome/pkg/control"
)

// Store persists whole device records keyed by device id.
// Implementations provide last-write-wins per key.
type Store interface {
	// ListKeys returns every stored device id, sorted
	ListKeys(ctx context.Context) ([]string, error)

	// Exists reports whether a device is stored under id
	Exists(ctx context.Context, id string) (bool, error)

	// Get loads a device, failing with ErrNotFound
	Get(ctx context.Context, id string) (*Device, error)

	// Put creates or replaces the record for id; id must equal d.ID()
	Put(ctx context.Context, id string, d *Device) error

	// Delete removes a device, failing with ErrNotFound
	Delete(ctx context.Context, id string) error

	// Close releases the backend
	Close() error
}

// Controller is what the REST and MCP surfaces drive. Each mutating call
// performs at most one read-modify-write against the store and at most one
// emission.
type Controller interface {
	// ListDevices returns the ids of every stored device
	ListDevices(ctx context.Context) ([]string, error)

	// GetDevice returns a single device by id
	GetDevice(ctx context.Context, id string) (*Device, error)

	// PutDevice creates or replaces a device
	PutDevice(ctx context.Context, id string, d *Device) error

	// DeleteDevice removes a device
	DeleteDevice(ctx context.Context, id string) error

	// ExecuteCommand runs "control.op" on a device and persists the new state
	ExecuteCommand(ctx context.Context, id, commandID string) (*Device, error)

	// LearnControl captures the commands for a new control and attaches it
	LearnControl(ctx context.Context, id string, spec control.Spec) (*Device, error)

	// IsConnected returns true if the IR transceiver is reachable
	IsConnected() bool

	// Close releases the store and the transceiver
	Close() error
}

// CheckID rejects a device whose id differs from the one it is stored under.
func CheckID(id string, d *Device) error {
	if d == nil {
		return fmt.Errorf("%w: %s: no device", ErrIDMismatch, id)
	}
	if d.ID() != id {
		return fmt.Errorf("%w: path %q, payload %q", ErrIDMismatch, id, d.ID())
	}
	return nil
}

// Bounds for how long LearnControl may wait on the receiver.
const (
	DefaultLearnTimeout = 120 * time.Second
	MaxLearnTimeout     = 600 * time.Second
)

// LearnTimeout converts a requested timeout in seconds. Zero or negative
// selects DefaultLearnTimeout; anything above MaxLearnTimeout is clamped
// before conversion so large values cannot overflow.
func LearnTimeout(secs int) time.Duration {
	if secs <= 0 {
		return DefaultLearnTimeout
	}
	if limit := int(MaxLearnTimeout / time.Second); secs > limit {
		secs = limit
	}
	return time.Duration(secs) * time.Second
}
