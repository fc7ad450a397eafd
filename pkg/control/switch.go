package control

import (
	"context"
	"fmt"

	"github.com/urmzd/irhome/pkg/ir"
)

// Stateless registers a button without tracking state.
type Stateless struct {
	base
}

// NewStateless creates a stateless control bound to a "set" command.
func NewStateless(name string, commands map[string]ir.Command) (*Stateless, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return &Stateless{base: newBase(name, commands)}, nil
}

func (c *Stateless) Kind() Kind           { return KindStateless }
func (c *Stateless) State() any           { return nil }
func (c *Stateless) Domain() Domain       { return Domain{Type: DomainNone} }
func (c *Stateless) Operations() []string { return []string{OpSet} }

// Activate emits the "set" command.
func (c *Stateless) Activate(ctx context.Context, e ir.Emitter) error {
	return c.emit(ctx, e, OpSet)
}

func (c *Stateless) Execute(ctx context.Context, e ir.Emitter, op string) error {
	if op != OpSet {
		return c.unknown(op)
	}
	return c.Activate(ctx, e)
}

// boolState is shared by the boolean variants.
type boolState struct {
	base
	state bool
}

func (b *boolState) State() any     { return b.state }
func (b *boolState) Domain() Domain { return Domain{Type: DomainBool} }

func (b *boolState) setState(v bool) {
	b.state = v
}

// force emits op and then sets the state to v.
func (b *boolState) force(ctx context.Context, e ir.Emitter, op string, v bool) error {
	if err := b.emit(ctx, e, op); err != nil {
		return err
	}
	b.setState(v)
	return nil
}

// Setter puts the device into one state; pressing again changes nothing.
type Setter struct {
	boolState
}

// NewSetter creates a setter control bound to a "set" command.
func NewSetter(name string, state bool, commands map[string]ir.Command) (*Setter, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return &Setter{boolState{base: newBase(name, commands), state: state}}, nil
}

func (c *Setter) Kind() Kind           { return KindSetter }
func (c *Setter) Operations() []string { return []string{OpSet} }

// Activate emits the "set" command and sets the state to true.
func (c *Setter) Activate(ctx context.Context, e ir.Emitter) error {
	return c.force(ctx, e, OpSet, true)
}

func (c *Setter) Execute(ctx context.Context, e ir.Emitter, op string) error {
	if op != OpSet {
		return c.unknown(op)
	}
	return c.Activate(ctx, e)
}

// Binary has separate on and off commands tracking one boolean.
type Binary struct {
	boolState
}

// NewBinary creates a binary control bound to "on" and "off" commands.
func NewBinary(name string, state bool, commands map[string]ir.Command) (*Binary, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return &Binary{boolState{base: newBase(name, commands), state: state}}, nil
}

func (c *Binary) Kind() Kind           { return KindBinary }
func (c *Binary) Operations() []string { return []string{OpOff, OpOn} }

// TurnOn emits "on" and sets the state to true.
func (c *Binary) TurnOn(ctx context.Context, e ir.Emitter) error {
	return c.force(ctx, e, OpOn, true)
}

// TurnOff emits "off" and sets the state to false.
func (c *Binary) TurnOff(ctx context.Context, e ir.Emitter) error {
	return c.force(ctx, e, OpOff, false)
}

func (c *Binary) Execute(ctx context.Context, e ir.Emitter, op string) error {
	return executeSwitch(ctx, e, &c.boolState, op)
}

// Toggle is a binary control usually driven by a single button. Its on and
// off operations may share one command.
type Toggle struct {
	boolState
}

// NewToggle creates a toggle control bound to "on" and "off" commands.
func NewToggle(name string, state bool, commands map[string]ir.Command) (*Toggle, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return &Toggle{boolState{base: newBase(name, commands), state: state}}, nil
}

func (c *Toggle) Kind() Kind           { return KindToggle }
func (c *Toggle) Operations() []string { return []string{OpOff, OpOn, OpToggle} }

// TurnOn emits "on" and sets the state to true.
func (c *Toggle) TurnOn(ctx context.Context, e ir.Emitter) error {
	return c.force(ctx, e, OpOn, true)
}

// TurnOff emits "off" and sets the state to false.
func (c *Toggle) TurnOff(ctx context.Context, e ir.Emitter) error {
	return c.force(ctx, e, OpOff, false)
}

// Toggle runs the operation opposite to the current state.
func (c *Toggle) Toggle(ctx context.Context, e ir.Emitter) error {
	if c.state {
		return c.TurnOff(ctx, e)
	}
	return c.TurnOn(ctx, e)
}

func (c *Toggle) Execute(ctx context.Context, e ir.Emitter, op string) error {
	if op == OpToggle {
		return c.Toggle(ctx, e)
	}
	return executeSwitch(ctx, e, &c.boolState, op)
}

func executeSwitch(ctx context.Context, e ir.Emitter, b *boolState, op string) error {
	switch op {
	case OpOn:
		return b.force(ctx, e, OpOn, true)
	case OpOff:
		return b.force(ctx, e, OpOff, false)
	}
	return b.unknown(op)
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidSpec)
	}
	return nil
}
