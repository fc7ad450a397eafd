package control

import (
	"context"
	"fmt"

	"github.com/urmzd/irhome/pkg/ir"
)

// BoundaryPolicy decides what happens when a cursor steps past either end of
// an ordered domain.
type BoundaryPolicy int

const (
	// Clamp rejects the step with ErrBoundary
	Clamp BoundaryPolicy = iota
	// Wrap continues from the opposite end
	Wrap
)

// step moves a cursor over an ordered domain of the given size.
func step(pos, delta, size int, policy BoundaryPolicy) (int, error) {
	if size <= 0 || pos < 0 || pos >= size {
		return pos, fmt.Errorf("%w: cursor %d outside domain of size %d", ErrInvalidStateTransition, pos, size)
	}

	next := pos + delta
	switch policy {
	case Wrap:
		return ((next % size) + size) % size, nil
	default:
		if next < 0 || next >= size {
			return pos, ErrBoundary
		}
		return next, nil
	}
}

// ordered is the cursor shared by level and selectable controls.
type ordered struct {
	base
	pos  int
	size int
}

func (o *ordered) setState(pos int) {
	o.pos = pos
}

// move validates the step, emits op and only then commits the new position.
func (o *ordered) move(ctx context.Context, e ir.Emitter, op string, delta int, policy BoundaryPolicy) error {
	next, err := step(o.pos, delta, o.size, policy)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", o.name, op, err)
	}
	if err := o.emit(ctx, e, op); err != nil {
		return err
	}
	o.setState(next)
	return nil
}
