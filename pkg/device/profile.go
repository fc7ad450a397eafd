package device

import (
	"fmt"
	"slices"

	"github.com/urmzd/irhome/pkg/control"
)

// Profile names.
const (
	ProfileGeneric = "generic"
	ProfileLight   = "light"
	ProfileTV      = "tv"
	ProfileAircon  = "aircon"
)

// Role is a control a profile expects, with the kinds allowed to fill it.
// An empty Kinds list accepts any kind.
type Role struct {
	Name  string         `json:"name"`
	Kinds []control.Kind `json:"kinds,omitempty"`
}

// Accepts reports whether k may fill the role.
func (r Role) Accepts(k control.Kind) bool {
	return len(r.Kinds) == 0 || slices.Contains(r.Kinds, k)
}

// Profile is a device template: the set of roles a device of that type has.
type Profile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Roles       []Role `json:"roles"`
}

var switchKinds = []control.Kind{control.KindBinary, control.KindToggle}

var profiles = []Profile{
	{
		Name:        ProfileGeneric,
		Description: "Any appliance with a power control",
		Roles:       []Role{{Name: PowerControl}},
	},
	{
		Name:        ProfileLight,
		Description: "Ceiling or desk light with brightness and colour tone",
		Roles: []Role{
			{Name: PowerControl, Kinds: switchKinds},
			{Name: "brightness", Kinds: []control.Kind{control.KindLevel}},
			{Name: "tone", Kinds: []control.Kind{control.KindLevel}},
		},
	},
	{
		Name:        ProfileTV,
		Description: "Television",
		Roles: []Role{
			{Name: PowerControl, Kinds: switchKinds},
			{Name: "volume", Kinds: []control.Kind{control.KindLevel}},
			{Name: "channel", Kinds: []control.Kind{control.KindBidirectional}},
			{Name: "input_source", Kinds: []control.Kind{control.KindCyclic}},
			{Name: "video_play", Kinds: []control.Kind{control.KindBinary}},
			{Name: "mute", Kinds: []control.Kind{control.KindToggle}},
		},
	},
	{
		Name:        ProfileAircon,
		Description: "Air conditioner",
		Roles: []Role{
			{Name: PowerControl, Kinds: switchKinds},
			{Name: "temp", Kinds: []control.Kind{control.KindLevel}},
			{Name: "fan_speed", Kinds: []control.Kind{control.KindCyclic}},
			{Name: "mode", Kinds: []control.Kind{control.KindCyclic}},
			{Name: "swing", Kinds: []control.Kind{control.KindCyclic}},
		},
	},
}

// Profiles returns every known profile.
func Profiles() []Profile {
	return slices.Clone(profiles)
}

// LookupProfile finds a profile by name. An empty name selects the generic
// profile.
func LookupProfile(name string) (Profile, error) {
	if name == "" {
		name = ProfileGeneric
	}
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: unknown profile %q", ErrProfileMismatch, name)
}

// Build assembles a device, checking that each role is filled by a control
// of an allowed kind. Controls beyond the profile's roles are kept as extras.
func (p Profile) Build(id string, controls ...control.Control) (*Device, error) {
	byName := make(map[string]control.Control, len(controls))
	var power control.Control
	extras := make([]control.Control, 0, len(controls))
	for _, c := range controls {
		if c == nil {
			return nil, fmt.Errorf("%w: %s: nil control", control.ErrInvalidSpec, id)
		}
		if _, ok := byName[c.Name()]; ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateControlName, id, c.Name())
		}
		byName[c.Name()] = c
		if c.Name() == PowerControl {
			power = c
		} else {
			extras = append(extras, c)
		}
	}

	for _, role := range p.Roles {
		c, ok := byName[role.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s: %s profile needs a %q control", ErrProfileMismatch, id, p.Name, role.Name)
		}
		if !role.Accepts(c.Kind()) {
			return nil, fmt.Errorf("%w: %s: %q must be one of %v, got %s", ErrProfileMismatch, id, role.Name, role.Kinds, c.Kind())
		}
	}

	d, err := New(id, power, extras...)
	if err != nil {
		return nil, err
	}
	d.profile = p.Name
	return d, nil
}
