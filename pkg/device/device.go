package device

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/urmzd/irhome/pkg/control"
	"github.com/urmzd/irhome/pkg/ir"
)

// PowerControl is the name the mandatory power control is registered under.
const PowerControl = "power"

// Device is an addressable appliance made of named controls. It always has a
// power control; any other controls are extras.
type Device struct {
	id       string
	profile  string
	controls map[string]control.Control
}

// New builds a device from its power control and any extra controls.
// Control names must be unique across the device.
func New(id string, power control.Control, extras ...control.Control) (*Device, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty device id", control.ErrInvalidSpec)
	}
	if power == nil || power.Name() != PowerControl {
		return nil, fmt.Errorf("%w: %s: power control must be named %q", control.ErrInvalidSpec, id, PowerControl)
	}

	d := &Device{
		id:       id,
		profile:  ProfileGeneric,
		controls: map[string]control.Control{PowerControl: power},
	}
	for _, c := range extras {
		if err := d.AddControl(c); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// ID returns the storage key of the device.
func (d *Device) ID() string { return d.id }

// Profile returns the name of the template the device was built from.
func (d *Device) Profile() string { return d.profile }

// Power returns the mandatory power control.
func (d *Device) Power() control.Control { return d.controls[PowerControl] }

// AddControl attaches a new control. It fails with ErrDuplicateControlName
// when the name is already taken.
func (d *Device) AddControl(c control.Control) error {
	if c == nil {
		return fmt.Errorf("%w: %s: nil control", control.ErrInvalidSpec, d.id)
	}
	if _, ok := d.controls[c.Name()]; ok {
		return fmt.Errorf("%w: %s.%s", ErrDuplicateControlName, d.id, c.Name())
	}
	d.controls[c.Name()] = c
	return nil
}

// Control looks up a control by name.
func (d *Device) Control(name string) (control.Control, bool) {
	c, ok := d.controls[name]
	return c, ok
}

// Controls returns every control, power first and the rest sorted by name.
func (d *Device) Controls() []control.Control {
	out := make([]control.Control, 0, len(d.controls))
	out = append(out, d.controls[PowerControl])
	for _, name := range d.extraNames() {
		out = append(out, d.controls[name])
	}
	return out
}

func (d *Device) extraNames() []string {
	names := make([]string, 0, len(d.controls)-1)
	for name := range d.controls {
		if name != PowerControl {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// CommandIDs lists every executable command as "control.op".
func (d *Device) CommandIDs() []string {
	var ids []string
	for _, c := range d.Controls() {
		for _, op := range c.Operations() {
			ids = append(ids, CommandID(c.Name(), op))
		}
	}
	return ids
}

// Execute runs op on the named control.
func (d *Device) Execute(ctx context.Context, e ir.Emitter, name, op string) error {
	c, ok := d.controls[name]
	if !ok {
		return fmt.Errorf("%w: %s has no control %q", control.ErrUnknownOperation, d.id, name)
	}
	return c.Execute(ctx, e, op)
}

// ExecuteCommand runs a command given as "control.op".
func (d *Device) ExecuteCommand(ctx context.Context, e ir.Emitter, commandID string) error {
	name, op, err := ParseCommandID(commandID)
	if err != nil {
		return err
	}
	return d.Execute(ctx, e, name, op)
}

// CommandID joins a control name and operation.
func CommandID(name, op string) string {
	return name + "." + op
}

// ParseCommandID splits "control.op" at its last dot.
func ParseCommandID(id string) (name, op string, err error) {
	i := strings.LastIndexByte(id, '.')
	if i <= 0 || i == len(id)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidCommandID, id)
	}
	return id[:i], id[i+1:], nil
}

type record struct {
	DeviceID string                    `json:"device_id"`
	Profile  string                    `json:"profile"`
	Controls map[string]control.Record `json:"controls"`
}

// MarshalJSON encodes the device as its persisted record.
func (d *Device) MarshalJSON() ([]byte, error) {
	r := record{
		DeviceID: d.id,
		Profile:  d.profile,
		Controls: make(map[string]control.Record, len(d.controls)),
	}
	for name, c := range d.controls {
		cr, err := control.Encode(c)
		if err != nil {
			return nil, err
		}
		r.Controls[name] = cr
	}
	return json.Marshal(r)
}

// UnmarshalJSON rebuilds a device from its persisted record, checking it
// against the profile it names.
func (d *Device) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}

	names := make([]string, 0, len(r.Controls))
	for name := range r.Controls {
		names = append(names, name)
	}
	sort.Strings(names)

	controls := make([]control.Control, 0, len(names))
	for _, name := range names {
		c, err := control.Decode(name, r.Controls[name])
		if err != nil {
			return err
		}
		controls = append(controls, c)
	}

	p, err := LookupProfile(r.Profile)
	if err != nil {
		return err
	}
	built, err := p.Build(r.DeviceID, controls...)
	if err != nil {
		return err
	}
	*d = *built
	return nil
}
