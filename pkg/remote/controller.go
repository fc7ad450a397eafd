// Package remote drives IR devices: it loads a device from its store, runs
// the requested operation through the transceiver and writes the new state
// back.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/irhome/pkg/control"
	"github.com/urmzd/irhome/pkg/device"
	"github.com/urmzd/irhome/pkg/ir"
)

// Controller implements device.Controller over a store and a transceiver.
type Controller struct {
	store device.Store
	ir    ir.Transceiver
}

var _ device.Controller = (*Controller)(nil)

// New creates a Controller. It takes ownership of both arguments.
func New(store device.Store, tr ir.Transceiver) *Controller {
	return &Controller{store: store, ir: tr}
}

func (c *Controller) ListDevices(ctx context.Context) ([]string, error) {
	return c.store.ListKeys(ctx)
}

func (c *Controller) GetDevice(ctx context.Context, id string) (*device.Device, error) {
	return c.store.Get(ctx, id)
}

func (c *Controller) PutDevice(ctx context.Context, id string, d *device.Device) error {
	if err := device.CheckID(id, d); err != nil {
		return err
	}
	if err := c.store.Put(ctx, id, d); err != nil {
		return err
	}
	log.Info().Str("device", id).Str("profile", d.Profile()).Msg("device stored")
	return nil
}

func (c *Controller) DeleteDevice(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("device", id).Msg("device deleted")
	return nil
}

// ExecuteCommand loads the device, runs the command and persists the device
// only when the operation succeeded. Unknown devices fail before anything is
// emitted.
func (c *Controller) ExecuteCommand(ctx context.Context, id, commandID string) (*device.Device, error) {
	d, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.ExecuteCommand(ctx, c.ir, commandID); err != nil {
		if errors.Is(err, control.ErrEmission) {
			log.Warn().Err(err).Str("device", id).Str("command", commandID).Msg("emission failed")
		}
		return nil, err
	}

	if err := c.store.Put(ctx, id, d); err != nil {
		// The signal was sent; the stored state now lags the appliance.
		log.Error().Err(err).Str("device", id).Str("command", commandID).Msg("failed to persist state after emission")
		return nil, fmt.Errorf("persist %s: %w", id, err)
	}

	log.Debug().Str("device", id).Str("command", commandID).Msg("command executed")
	return d, nil
}

// LearnControl captures the commands of a new control and attaches it to an
// existing device.
func (c *Controller) LearnControl(ctx context.Context, id string, spec control.Spec) (*device.Device, error) {
	d, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := d.Control(spec.Name); ok {
		return nil, fmt.Errorf("%w: %s.%s", device.ErrDuplicateControlName, id, spec.Name)
	}

	log.Info().Str("device", id).Str("control", spec.Name).Str("kind", string(spec.Kind)).Msg("capturing control")
	ctrl, err := control.Capture(ctx, c.ir, spec)
	if err != nil {
		return nil, err
	}
	if err := d.AddControl(ctrl); err != nil {
		return nil, err
	}
	if err := c.store.Put(ctx, id, d); err != nil {
		return nil, fmt.Errorf("persist %s: %w", id, err)
	}
	return d, nil
}

func (c *Controller) IsConnected() bool {
	return c.ir.IsConnected()
}

func (c *Controller) Close() error {
	return errors.Join(c.ir.Close(), c.store.Close())
}
