package domain

import (
	"math"
	"testing"
)

func TestValidRadius(t *testing.T) {
	cases := []struct {
		in   float64
		want bool
	}{
		{16, true},
		{0.001, true},
		{0, false},
		{-1, false},
		{math.NaN(), false},
		{math.Inf(1), false},
		{math.Inf(-1), false},
	}
	for _, c := range cases {
		if got := ValidRadius(c.in); got != c.want {
			t.Errorf("ValidRadius(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestPendingShapeDiameter(t *testing.T) {
	s := PendingShape{Kind: ShapeSphere, Radius: 16}
	if s.Diameter() != 32 {
		t.Fatalf("expected 32, got %v", s.Diameter())
	}
}

func TestShapeKindString(t *testing.T) {
	if ShapeSphere.String() != "sphere" {
		t.Fatalf("unexpected %q", ShapeSphere.String())
	}
	if ShapeKind(9).String() != "kind(9)" {
		t.Fatalf("unexpected %q", ShapeKind(9).String())
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Sphere.Center != (Point3{1, 2, 3}) {
		t.Fatalf("unexpected center %v", cfg.Sphere.Center)
	}
	if cfg.Sphere.DefaultRadius != 16 {
		t.Fatalf("unexpected default radius %v", cfg.Sphere.DefaultRadius)
	}
	if cfg.Export.Filename != "sphere.3dm" {
		t.Fatalf("unexpected filename %q", cfg.Export.Filename)
	}
	if cfg.Kernel.LoadTimeout <= 0 {
		t.Fatalf("expected positive load timeout")
	}
}
