package control

import (
	"encoding/json"
	"fmt"

	"github.com/urmzd/irhome/pkg/ir"
)

// Record is the persisted shape of a control. The control's name is the key
// it is stored under in its device record.
type Record struct {
	Kind           Kind                  `json:"kind"`
	State          json.RawMessage       `json:"state"`
	PossibleStates json.RawMessage       `json:"possible_states"`
	Commands       map[string]ir.Command `json:"commands"`
}

type rangeStates struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Encode converts a control into its persisted record.
func Encode(c Control) (Record, error) {
	state, err := json.Marshal(c.State())
	if err != nil {
		return Record{}, fmt.Errorf("encode %s state: %w", c.Name(), err)
	}

	d := c.Domain()
	var possible any
	switch d.Type {
	case DomainNone:
		possible = []any{nil}
	case DomainBool:
		possible = []bool{true, false}
	case DomainRange:
		possible = rangeStates{Min: d.Min, Max: d.Max}
	case DomainLabels:
		possible = d.Labels
	}
	states, err := json.Marshal(possible)
	if err != nil {
		return Record{}, fmt.Errorf("encode %s domain: %w", c.Name(), err)
	}

	return Record{
		Kind:           c.Kind(),
		State:          state,
		PossibleStates: states,
		Commands:       c.Commands(),
	}, nil
}

// Decode rebuilds the control stored under name.
func Decode(name string, r Record) (Control, error) {
	s := Spec{Name: name, Kind: r.Kind, Commands: r.Commands}

	switch r.Kind {
	case KindStateless:
	case KindSetter, KindBinary, KindToggle:
		var state *bool
		if err := unmarshalOptional(r.State, &state); err != nil {
			return nil, fmt.Errorf("%w: %s state: %w", ErrInvalidSpec, name, err)
		}
		if state != nil {
			s.State = *state
		}
	case KindLevel:
		var states rangeStates
		if err := json.Unmarshal(r.PossibleStates, &states); err != nil {
			return nil, fmt.Errorf("%w: %s possible_states: %w", ErrInvalidSpec, name, err)
		}
		s.Min, s.Max = states.Min, states.Max
		var state *int
		if err := unmarshalOptional(r.State, &state); err != nil {
			return nil, fmt.Errorf("%w: %s state: %w", ErrInvalidSpec, name, err)
		}
		if state != nil {
			s.State = *state
		}
	case KindCyclic, KindBidirectional:
		if err := json.Unmarshal(r.PossibleStates, &s.Labels); err != nil {
			return nil, fmt.Errorf("%w: %s possible_states: %w", ErrInvalidSpec, name, err)
		}
		var state *string
		if err := unmarshalOptional(r.State, &state); err != nil {
			return nil, fmt.Errorf("%w: %s state: %w", ErrInvalidSpec, name, err)
		}
		if state != nil {
			s.State = *state
		}
	}

	return FromSpec(s)
}

func unmarshalOptional(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
