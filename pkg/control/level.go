package control

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/urmzd/irhome/pkg/ir"
)

// Level holds an integer in [min, max] moved one step at a time.
type Level struct {
	ordered
	min int
}

// NewLevel creates a level control bound to "up" and "down" commands.
func NewLevel(name string, state, min, max int, commands map[string]ir.Command) (*Level, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if min > max {
		return nil, fmt.Errorf("%w: %s: min %d greater than max %d", ErrInvalidSpec, name, min, max)
	}
	// The domain size max-min+1 must fit in an int.
	if span := max - min; span < 0 || span == math.MaxInt {
		return nil, fmt.Errorf("%w: %s: range [%d, %d] too wide", ErrInvalidSpec, name, min, max)
	}
	if state < min || state > max {
		return nil, fmt.Errorf("%w: %s: state %d outside [%d, %d]", ErrInvalidSpec, name, state, min, max)
	}
	return &Level{
		ordered: ordered{base: newBase(name, commands), pos: state - min, size: max - min + 1},
		min:     min,
	}, nil
}

func (c *Level) Kind() Kind           { return KindLevel }
func (c *Level) State() any           { return c.Value() }
func (c *Level) Operations() []string { return []string{OpDown, OpUp} }

// Value returns the current level.
func (c *Level) Value() int {
	return c.min + c.pos
}

func (c *Level) Domain() Domain {
	return Domain{Type: DomainRange, Min: c.min, Max: c.min + c.size - 1}
}

// Increase raises the level by one, failing with ErrBoundary at max.
func (c *Level) Increase(ctx context.Context, e ir.Emitter) error {
	return c.move(ctx, e, OpUp, 1, Clamp)
}

// Decrease lowers the level by one, failing with ErrBoundary at min.
func (c *Level) Decrease(ctx context.Context, e ir.Emitter) error {
	return c.move(ctx, e, OpDown, -1, Clamp)
}

func (c *Level) Execute(ctx context.Context, e ir.Emitter, op string) error {
	switch op {
	case OpUp:
		return c.Increase(ctx, e)
	case OpDown:
		return c.Decrease(ctx, e)
	}
	return c.unknown(op)
}

// selectable is an ordered list of labels walked with wraparound.
type selectable struct {
	ordered
	labels []string
}

func newSelectable(name, state string, labels []string, commands map[string]ir.Command) (selectable, error) {
	if err := checkName(name); err != nil {
		return selectable{}, err
	}
	if len(labels) == 0 {
		return selectable{}, fmt.Errorf("%w: %s: no labels", ErrInvalidSpec, name)
	}
	for i, l := range labels {
		if slices.Contains(labels[:i], l) {
			return selectable{}, fmt.Errorf("%w: %s: duplicate label %q", ErrInvalidSpec, name, l)
		}
	}
	pos := slices.Index(labels, state)
	if pos < 0 {
		return selectable{}, fmt.Errorf("%w: %s: state %q not in %v", ErrInvalidSpec, name, state, labels)
	}
	return selectable{
		ordered: ordered{base: newBase(name, commands), pos: pos, size: len(labels)},
		labels:  slices.Clone(labels),
	}, nil
}

func (s *selectable) State() any { return s.Label() }

// Label returns the selected label.
func (s *selectable) Label() string {
	return s.labels[s.pos]
}

func (s *selectable) Domain() Domain {
	return Domain{Type: DomainLabels, Labels: slices.Clone(s.labels)}
}

// Cyclic selects the next label on each press, wrapping to the first.
type Cyclic struct {
	selectable
}

// NewCyclic creates a cyclic selectable bound to a "next" command.
func NewCyclic(name, state string, labels []string, commands map[string]ir.Command) (*Cyclic, error) {
	s, err := newSelectable(name, state, labels, commands)
	if err != nil {
		return nil, err
	}
	return &Cyclic{s}, nil
}

func (c *Cyclic) Kind() Kind           { return KindCyclic }
func (c *Cyclic) Operations() []string { return []string{OpNext} }

// Next advances to the following label.
func (c *Cyclic) Next(ctx context.Context, e ir.Emitter) error {
	return c.move(ctx, e, OpNext, 1, Wrap)
}

func (c *Cyclic) Execute(ctx context.Context, e ir.Emitter, op string) error {
	if op != OpNext {
		return c.unknown(op)
	}
	return c.Next(ctx, e)
}

// Bidirectional moves through its labels in both directions, wrapping at
// either end.
type Bidirectional struct {
	selectable
}

// NewBidirectional creates a selectable bound to "next" and "previous" commands.
func NewBidirectional(name, state string, labels []string, commands map[string]ir.Command) (*Bidirectional, error) {
	s, err := newSelectable(name, state, labels, commands)
	if err != nil {
		return nil, err
	}
	return &Bidirectional{s}, nil
}

func (c *Bidirectional) Kind() Kind           { return KindBidirectional }
func (c *Bidirectional) Operations() []string { return []string{OpNext, OpPrevious} }

// Next advances to the following label.
func (c *Bidirectional) Next(ctx context.Context, e ir.Emitter) error {
	return c.move(ctx, e, OpNext, 1, Wrap)
}

// Previous steps back to the preceding label.
func (c *Bidirectional) Previous(ctx context.Context, e ir.Emitter) error {
	return c.move(ctx, e, OpPrevious, -1, Wrap)
}

func (c *Bidirectional) Execute(ctx context.Context, e ir.Emitter, op string) error {
	switch op {
	case OpNext:
		return c.Next(ctx, e)
	case OpPrevious:
		return c.Previous(ctx, e)
	}
	return c.unknown(op)
}
