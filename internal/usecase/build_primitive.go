package usecase

import (
	"fmt"

	"github.com/hrntsm/dmkit/internal/domain"
)

// PrimitiveBuilder owns the pending shape. It is driven from a single event
// loop and is not safe for concurrent use.
type PrimitiveBuilder struct {
	center  domain.Point3
	pending *domain.PendingShape
}

func NewPrimitiveBuilder(center domain.Point3) *PrimitiveBuilder {
	return &PrimitiveBuilder{center: center}
}

// SetRadius replaces the pending shape with a sphere of radius r around the
// configured center. An invalid radius keeps the previous shape.
func (b *PrimitiveBuilder) SetRadius(r float64) error {
	if !domain.ValidRadius(r) {
		return &domain.OpError{
			Op:   "builder.set_radius",
			Kind: domain.KindInvalidParameter,
			Err:  fmt.Errorf("radius %v must be greater than zero: %w", r, domain.ErrInvalidParameter),
		}
	}

	b.pending = &domain.PendingShape{
		Kind:   domain.ShapeSphere,
		Center: b.center,
		Radius: r,
	}
	return nil
}

// PendingShape returns a copy of the current shape; ok is false until the
// first successful SetRadius.
func (b *PrimitiveBuilder) PendingShape() (shape domain.PendingShape, ok bool) {
	if b.pending == nil {
		return domain.PendingShape{}, false
	}
	return *b.pending, true
}

// Pending returns a pointer to a copy of the shape, or nil.
func (b *PrimitiveBuilder) Pending() *domain.PendingShape {
	s, ok := b.PendingShape()
	if !ok {
		return nil
	}
	return &s
}
