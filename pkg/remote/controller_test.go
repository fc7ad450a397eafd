package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/irhome/pkg/control"
	"github.com/urmzd/irhome/pkg/device"
	"github.com/urmzd/irhome/pkg/ir"
	"github.com/urmzd/irhome/pkg/ir/irtest"
	"github.com/urmzd/irhome/pkg/store"
)

// failingStore fails every Put after the first n.
type failingStore struct {
	*store.Memory
	puts int
	n    int
}

func (s *failingStore) Put(ctx context.Context, id string, d *device.Device) error {
	s.puts++
	if s.puts > s.n {
		return errors.New("disk full")
	}
	return s.Memory.Put(ctx, id, d)
}

func fan(t *testing.T) *device.Device {
	t.Helper()
	def := device.Definition{
		DeviceID: "fan",
		Controls: []control.Spec{
			{Name: "power", Kind: control.KindToggle, Commands: map[string]ir.Command{
				control.OpOn:  {Name: "power.toggle", Pulses: []int{1300, 400}},
				control.OpOff: {Name: "power.toggle", Pulses: []int{1300, 400}},
			}},
			{Name: "speed", Kind: control.KindCyclic, Labels: []string{"low", "mid", "high"}, Commands: map[string]ir.Command{
				control.OpNext: {Name: "speed.next", Pulses: []int{1300, 400, 400, 1300}},
			}},
		},
	}
	d, err := def.Build()
	require.NoError(t, err)
	return d
}

func newController(t *testing.T, s device.Store, rec *irtest.Recorder) *Controller {
	t.Helper()
	c := New(s, rec)
	require.NoError(t, c.PutDevice(context.Background(), "fan", fan(t)))
	return c
}

func state(t *testing.T, c *Controller, name string) any {
	t.Helper()
	d, err := c.GetDevice(context.Background(), "fan")
	require.NoError(t, err)
	ctrl, ok := d.Control(name)
	require.True(t, ok)
	return ctrl.State()
}

func TestExecuteCommand_PersistsState(t *testing.T) {
	ctx := context.Background()
	rec := irtest.NewRecorder()
	c := newController(t, store.NewMemory(), rec)

	d, err := c.ExecuteCommand(ctx, "fan", "speed.next")
	require.NoError(t, err)
	speed, _ := d.Control("speed")
	assert.Equal(t, "mid", speed.State())
	assert.Equal(t, "mid", state(t, c, "speed"))

	_, err = c.ExecuteCommand(ctx, "fan", "power.toggle")
	require.NoError(t, err)
	assert.Equal(t, true, state(t, c, "power"))
	assert.Equal(t, []string{"speed.next", "power.toggle"}, rec.Emitted())
}

func TestExecuteCommand_UnknownDevice(t *testing.T) {
	rec := irtest.NewRecorder()
	c := newController(t, store.NewMemory(), rec)

	_, err := c.ExecuteCommand(context.Background(), "heater", "power.on")
	assert.ErrorIs(t, err, device.ErrNotFound)
	assert.Zero(t, rec.Count())
}

func TestExecuteCommand_EmissionFailureLeavesState(t *testing.T) {
	rec := irtest.NewRecorder()
	rec.EmitErr = errors.New("led fault")
	c := newController(t, store.NewMemory(), rec)

	_, err := c.ExecuteCommand(context.Background(), "fan", "speed.next")
	assert.ErrorIs(t, err, control.ErrEmission)
	assert.Equal(t, "low", state(t, c, "speed"))
}

func TestExecuteCommand_PersistFailure(t *testing.T) {
	s := &failingStore{Memory: store.NewMemory(), n: 1}
	rec := irtest.NewRecorder()
	c := newController(t, s, rec)

	_, err := c.ExecuteCommand(context.Background(), "fan", "speed.next")
	require.Error(t, err)
	assert.Equal(t, 1, rec.Count())
	assert.Equal(t, "low", state(t, c, "speed"))
}

func TestPutDevice_IDMismatch(t *testing.T) {
	c := New(store.NewMemory(), irtest.NewRecorder())

	err := c.PutDevice(context.Background(), "heater", fan(t))
	assert.ErrorIs(t, err, device.ErrIDMismatch)

	ids, err := c.ListDevices(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLearnControl(t *testing.T) {
	ctx := context.Background()
	rec := irtest.NewRecorder(
		ir.Command{Pulses: []int{900, 450, 560, 1690}},
		ir.Command{Pulses: []int{900, 450, 560, 560}},
	)
	c := newController(t, store.NewMemory(), rec)

	d, err := c.LearnControl(ctx, "fan", control.Spec{Name: "timer", Kind: control.KindLevel, Max: 8})
	require.NoError(t, err)
	assert.Equal(t, []string{"timer.up", "timer.down"}, rec.CaptureLabels())
	assert.Contains(t, d.CommandIDs(), "timer.up")

	_, err = c.ExecuteCommand(ctx, "fan", "timer.up")
	require.NoError(t, err)
	assert.Equal(t, 1, state(t, c, "timer"))

	// A taken name fails before anything is captured.
	_, err = c.LearnControl(ctx, "fan", control.Spec{Name: "speed", Kind: control.KindCyclic, Labels: []string{"a"}})
	assert.ErrorIs(t, err, device.ErrDuplicateControlName)
	assert.Len(t, rec.CaptureLabels(), 2)

	_, err = c.LearnControl(ctx, "fan", control.Spec{Name: "swing", Kind: control.KindSetter})
	assert.ErrorIs(t, err, ir.ErrCaptureTimeout)
	_, ok := mustGet(t, c).Control("swing")
	assert.False(t, ok)
}

func TestDeleteDevice(t *testing.T) {
	ctx := context.Background()
	c := newController(t, store.NewMemory(), irtest.NewRecorder())

	require.NoError(t, c.DeleteDevice(ctx, "fan"))
	assert.ErrorIs(t, c.DeleteDevice(ctx, "fan"), device.ErrNotFound)
	assert.True(t, c.IsConnected())
	assert.NoError(t, c.Close())
}

func mustGet(t *testing.T, c *Controller) *device.Device {
	t.Helper()
	d, err := c.GetDevice(context.Background(), "fan")
	require.NoError(t, err)
	return d
}
