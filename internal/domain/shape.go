package domain

import (
	"fmt"
	"math"
)

// ShapeKind identifies a parametric primitive.
type ShapeKind uint8

const (
	ShapeUnknown ShapeKind = iota
	ShapeSphere
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Point3 is a point in model space.
type Point3 struct {
	X, Y, Z float64
}

func (p Point3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// PendingShape is the primitive currently held by the builder, waiting to be
// exported.
type PendingShape struct {
	Kind   ShapeKind
	Center Point3
	Radius float64
}

func (s PendingShape) Diameter() float64 {
	return 2 * s.Radius
}

// ValidRadius reports whether r can size a primitive.
func ValidRadius(r float64) bool {
	return r > 0 && !math.IsInf(r, 0) && !math.IsNaN(r)
}

// Geometry is a primitive stored in a document's object table.
type Geometry interface {
	Kind() ShapeKind
}

// Sphere is the only primitive dmkit builds today.
type Sphere struct {
	Center Point3
	Radius float64
}

func (Sphere) Kind() ShapeKind { return ShapeSphere }

func (s Sphere) Diameter() float64 { return 2 * s.Radius }
