// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geometry

import (
	"testing"

	"github.com/cpmech/gosl/utl"
)

func uniformGrid(t *testing.T, n int, periodic [3]bool) *Grid[float64] {
	centers := utl.LinSpace(0.05, 0.95, n)
	axes := [3]Axis[float64]{}
	for i := 0; i < 3; i++ {
		a, err := NewAxis(centers, periodic[i])
		if err != nil {
			t.Fatalf("NewAxis failed: %v", err)
		}
		axes[i] = a
	}
	return NewGrid(axes[0], axes[1], axes[2])
}

// TestWrapRoundTrip checks P1: wrapping is idempotent and lands in [lo,hi)
func TestWrapRoundTrip(t *testing.T) {
	g := uniformGrid(t, 10, [3]bool{true, true, false})
	pts := []Point3[float64]{
		{1.3, -0.2, 0.5},
		{-0.05, 1.8, 0.2},
		{0.5, 0.5, 0.5},
	}
	for _, p := range pts {
		w1, ok1 := g.WrapPoint(p)
		if !ok1 {
			t.Fatalf("expected in-bounds wrap for %v", p)
		}
		w2, ok2 := g.WrapPoint(w1)
		if !ok2 || w1 != w2 {
			t.Fatalf("wrap not idempotent for %v: %v vs %v", p, w1, w2)
		}
		if w1.X < g.Axes[0].Lower || w1.X >= g.Axes[0].Upper {
			t.Fatalf("x=%v out of [lo,hi) for periodic axis", w1.X)
		}
		if w1.Y < g.Axes[1].Lower || w1.Y >= g.Axes[1].Upper {
			t.Fatalf("y=%v out of [lo,hi) for periodic axis", w1.Y)
		}
	}
}

// TestWrapNonPeriodicOutside checks that a non-periodic out-of-range axis fails
func TestWrapNonPeriodicOutside(t *testing.T) {
	g := uniformGrid(t, 10, [3]bool{true, true, false})
	_, ok := g.WrapPoint(Point3[float64]{0.5, 0.5, 1.5})
	if ok {
		t.Fatalf("expected out-of-bounds failure on non-periodic z")
	}
}

// TestFindCellCenters checks that the center of every cell resolves to that cell
func TestFindCellCenters(t *testing.T) {
	g := uniformGrid(t, 10, [3]bool{true, true, false})
	shape := g.Shape()
	for i := 0; i < shape.I; i++ {
		for j := 0; j < shape.J; j++ {
			for k := 0; k < shape.K; k++ {
				want := Idx3{i, j, k}
				c := g.CellCenter(want)
				got, ok := g.FindCell(c)
				if !ok {
					t.Fatalf("cell center %v unexpectedly out of bounds", c)
				}
				if got != want {
					t.Fatalf("FindCell(%v) = %v, want %v", c, got, want)
				}
			}
		}
	}
}
