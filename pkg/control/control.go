// Package control implements the state machines that map user intents on one
// aspect of an appliance (power, volume, channel, ...) to IR emissions.
//
// Every operation follows the same order: validate the transition, resolve
// the bound command, emit it, then commit the new state. A failure at any
// step leaves the state untouched and nothing is emitted for a rejected
// transition.
package control

import (
	"context"
	"fmt"
	"slices"

	"github.com/urmzd/irhome/pkg/ir"
)

// Kind tags a control variant.
type Kind string

const (
	KindStateless     Kind = "stateless"
	KindSetter        Kind = "setter"
	KindBinary        Kind = "binary"
	KindToggle        Kind = "toggle"
	KindLevel         Kind = "level"
	KindCyclic        Kind = "cyclic"
	KindBidirectional Kind = "bidirectional"
)

// Operation names. They double as the keys of a control's command map,
// except OpToggle which reuses the on/off commands.
const (
	OpSet      = "set"
	OpOn       = "on"
	OpOff      = "off"
	OpToggle   = "toggle"
	OpUp       = "up"
	OpDown     = "down"
	OpNext     = "next"
	OpPrevious = "previous"
)

// Control is one controllable aspect of a device.
type Control interface {
	// Name is unique within the owning device
	Name() string

	// Kind returns the variant tag
	Kind() Kind

	// State returns nil, a bool, an int or a string depending on Kind
	State() any

	// Domain describes the set State belongs to
	Domain() Domain

	// Commands returns a copy of the operation -> command bindings
	Commands() map[string]ir.Command

	// BindCommand binds cmd to op, replacing any previous binding
	BindCommand(op string, cmd ir.Command)

	// Operations lists the operation names Execute accepts
	Operations() []string

	// Execute runs the named operation, emitting through e
	Execute(ctx context.Context, e ir.Emitter, op string) error
}

// DomainType tags the shape of a Domain.
type DomainType string

const (
	DomainNone   DomainType = "none"
	DomainBool   DomainType = "bool"
	DomainRange  DomainType = "range"
	DomainLabels DomainType = "labels"
)

// Domain is the finite set of states a control may hold.
type Domain struct {
	Type   DomainType `json:"type"`
	Min    int        `json:"min,omitempty"`
	Max    int        `json:"max,omitempty"`
	Labels []string   `json:"labels,omitempty"`
}

// Contains reports whether v is a member of the domain.
func (d Domain) Contains(v any) bool {
	switch d.Type {
	case DomainNone:
		return v == nil
	case DomainBool:
		_, ok := v.(bool)
		return ok
	case DomainRange:
		n, ok := v.(int)
		return ok && n >= d.Min && n <= d.Max
	case DomainLabels:
		s, ok := v.(string)
		return ok && slices.Contains(d.Labels, s)
	}
	return false
}

// base holds what every variant shares: its name and command bindings.
type base struct {
	name     string
	commands map[string]ir.Command
}

func newBase(name string, commands map[string]ir.Command) base {
	b := base{name: name, commands: make(map[string]ir.Command, len(commands))}
	for op, cmd := range commands {
		b.commands[op] = cmd.Clone()
	}
	return b
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Commands() map[string]ir.Command {
	out := make(map[string]ir.Command, len(b.commands))
	for op, cmd := range b.commands {
		out[op] = cmd.Clone()
	}
	return out
}

func (b *base) BindCommand(op string, cmd ir.Command) {
	b.commands[op] = cmd.Clone()
}

func (b *base) command(op string) (ir.Command, error) {
	cmd, ok := b.commands[op]
	if !ok {
		return ir.Command{}, fmt.Errorf("%w: %s.%s", ErrMissingCommand, b.name, op)
	}
	return cmd, nil
}

// emit resolves and transmits the command bound to op.
func (b *base) emit(ctx context.Context, e ir.Emitter, op string) error {
	cmd, err := b.command(op)
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("%w: %s.%s: no emitter", ErrEmission, b.name, op)
	}
	if err := e.Emit(ctx, cmd); err != nil {
		return fmt.Errorf("%w: %s.%s: %w", ErrEmission, b.name, op, err)
	}
	return nil
}

func (b *base) unknown(op string) error {
	return fmt.Errorf("%w: %s.%s", ErrUnknownOperation, b.name, op)
}

// RequiredCommands lists the command bindings a kind needs to operate.
func RequiredCommands(k Kind) []string {
	switch k {
	case KindStateless, KindSetter:
		return []string{OpSet}
	case KindBinary, KindToggle:
		return []string{OpOn, OpOff}
	case KindLevel:
		return []string{OpUp, OpDown}
	case KindCyclic:
		return []string{OpNext}
	case KindBidirectional:
		return []string{OpNext, OpPrevious}
	}
	return nil
}

var descriptions = map[Kind]string{
	KindStateless:     "Stateless. Registers a button without tracking any underlying state.",
	KindSetter:        "Setter. Pressing the button puts the device into one state; further presses change nothing.",
	KindToggle:        "Toggle switch. One button flips between on and off.",
	KindBinary:        "Binary switch. Separate on and off buttons track the same state.",
	KindLevel:         "Level. Two buttons raise or lower a value between a minimum and maximum, e.g. volume.",
	KindCyclic:        "List. One button selects the next item and wraps back to the first.",
	KindBidirectional: "Two-way list. Next and previous buttons move through the items and wrap, e.g. channel up and down.",
}

// Kinds returns every control kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindStateless, KindSetter, KindToggle, KindBinary, KindLevel, KindCyclic, KindBidirectional}
}

// Describe returns a human readable description of a kind.
func Describe(k Kind) string {
	return descriptions[k]
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := descriptions[k]
	return ok
}
