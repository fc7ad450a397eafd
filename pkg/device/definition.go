package device

import (
	"github.com/urmzd/irhome/pkg/control"
)

// Definition is the hand-editable form of a device used by import and export.
type Definition struct {
	DeviceID string         `json:"device_id" yaml:"device_id"`
	Profile  string         `json:"profile,omitempty" yaml:"profile,omitempty"`
	Controls []control.Spec `json:"controls" yaml:"controls"`
}

// Build turns the definition into a device.
func (def Definition) Build() (*Device, error) {
	p, err := LookupProfile(def.Profile)
	if err != nil {
		return nil, err
	}
	controls := make([]control.Control, 0, len(def.Controls))
	for _, s := range def.Controls {
		c, err := control.FromSpec(s)
		if err != nil {
			return nil, err
		}
		controls = append(controls, c)
	}
	return p.Build(def.DeviceID, controls...)
}

// DefinitionOf describes an existing device.
func DefinitionOf(d *Device) Definition {
	def := Definition{DeviceID: d.ID(), Profile: d.Profile()}
	for _, c := range d.Controls() {
		def.Controls = append(def.Controls, control.SpecOf(c))
	}
	return def
}
