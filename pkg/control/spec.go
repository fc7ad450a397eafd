package control

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/urmzd/irhome/pkg/ir"
)

// Spec is a data-only description of a control. State may be left nil to
// start from the first member of the domain (false, min or the first label).
type Spec struct {
	Name     string                `json:"name" yaml:"name"`
	Kind     Kind                  `json:"kind" yaml:"kind"`
	State    any                   `json:"state,omitempty" yaml:"state,omitempty"`
	Min      int                   `json:"min,omitempty" yaml:"min,omitempty"`
	Max      int                   `json:"max,omitempty" yaml:"max,omitempty"`
	Labels   []string              `json:"labels,omitempty" yaml:"labels,omitempty"`
	Commands map[string]ir.Command `json:"commands,omitempty" yaml:"commands,omitempty"`
}

// FromSpec builds a control from its description.
func FromSpec(s Spec) (Control, error) {
	switch s.Kind {
	case KindStateless:
		return NewStateless(s.Name, s.Commands)
	case KindSetter:
		state, err := boolValue(s)
		if err != nil {
			return nil, err
		}
		return NewSetter(s.Name, state, s.Commands)
	case KindBinary:
		state, err := boolValue(s)
		if err != nil {
			return nil, err
		}
		return NewBinary(s.Name, state, s.Commands)
	case KindToggle:
		state, err := boolValue(s)
		if err != nil {
			return nil, err
		}
		return NewToggle(s.Name, state, s.Commands)
	case KindLevel:
		state, err := intValue(s)
		if err != nil {
			return nil, err
		}
		return NewLevel(s.Name, state, s.Min, s.Max, s.Commands)
	case KindCyclic:
		state, err := labelValue(s)
		if err != nil {
			return nil, err
		}
		return NewCyclic(s.Name, state, s.Labels, s.Commands)
	case KindBidirectional:
		state, err := labelValue(s)
		if err != nil {
			return nil, err
		}
		return NewBidirectional(s.Name, state, s.Labels, s.Commands)
	}
	return nil, fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidSpec, s.Name, s.Kind)
}

// SpecOf describes an existing control.
func SpecOf(c Control) Spec {
	d := c.Domain()
	s := Spec{
		Name:     c.Name(),
		Kind:     c.Kind(),
		State:    c.State(),
		Commands: c.Commands(),
	}
	switch d.Type {
	case DomainRange:
		s.Min, s.Max = d.Min, d.Max
	case DomainLabels:
		s.Labels = d.Labels
	}
	return s
}

// Capture builds a control by recording one command per required operation
// from rx. Commands are bound as rx returns them, already normalized with the
// receiver's tolerance. Toggles record a single button and bind it to both on
// and off. Commands already present in s.Commands are kept as they are.
func Capture(ctx context.Context, rx ir.Receiver, s Spec) (Control, error) {
	if !s.Kind.Valid() {
		return nil, fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidSpec, s.Name, s.Kind)
	}
	if err := checkName(s.Name); err != nil {
		return nil, err
	}

	commands := make(map[string]ir.Command, len(s.Commands))
	for op, cmd := range s.Commands {
		commands[op] = cmd
	}

	record := func(label string) (ir.Command, error) {
		cmd, err := rx.Capture(ctx, label)
		if err != nil {
			return ir.Command{}, fmt.Errorf("capture %s: %w", label, err)
		}
		cmd.Name = label
		return cmd, nil
	}

	if s.Kind == KindToggle {
		_, hasOn := commands[OpOn]
		_, hasOff := commands[OpOff]
		if !hasOn || !hasOff {
			cmd, err := record(s.Name + "." + OpToggle)
			if err != nil {
				return nil, err
			}
			commands[OpOn] = cmd
			commands[OpOff] = cmd
		}
	} else {
		for _, op := range RequiredCommands(s.Kind) {
			if _, ok := commands[op]; ok {
				continue
			}
			cmd, err := record(s.Name + "." + op)
			if err != nil {
				return nil, err
			}
			commands[op] = cmd
		}
	}

	s.Commands = commands
	return FromSpec(s)
}

func boolValue(s Spec) (bool, error) {
	switch v := s.State.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	}
	return false, fmt.Errorf("%w: %s: state %v is not a boolean", ErrInvalidSpec, s.Name, s.State)
}

func intValue(s Spec) (int, error) {
	switch v := s.State.(type) {
	case nil:
		return s.Min, nil
	case int:
		return v, nil
	case int64:
		if v >= math.MinInt && v <= math.MaxInt {
			return int(v), nil
		}
	case uint64:
		if v <= math.MaxInt {
			return int(v), nil
		}
	case float64:
		// MaxInt is not exact as a float64, so compare against MaxInt+1.
		if v == math.Trunc(v) && v >= math.MinInt && v < math.MaxInt+1 {
			return int(v), nil
		}
	case json.Number:
		if n, err := v.Int64(); err == nil && n >= math.MinInt && n <= math.MaxInt {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("%w: %s: state %v is not an integer in range", ErrInvalidSpec, s.Name, s.State)
}

func labelValue(s Spec) (string, error) {
	switch v := s.State.(type) {
	case nil:
		if len(s.Labels) == 0 {
			return "", fmt.Errorf("%w: %s: no labels", ErrInvalidSpec, s.Name)
		}
		return s.Labels[0], nil
	case string:
		return v, nil
	}
	return "", fmt.Errorf("%w: %s: state %v is not a label", ErrInvalidSpec, s.Name, s.State)
}
