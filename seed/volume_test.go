// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seed

import (
	"testing"

	"github.com/lars-frogner/BifRust/synth"
	"github.com/lars-frogner/BifRust/vec3"
)

func TestRandomVolumeSeederStaysInBounds(t *testing.T) {
	bounds := VolumeBounds{Lower: vec3.New(0.2, 0.2, 0.2), Upper: vec3.New(0.8, 0.8, 0.8)}
	s, err := RandomVolumeSeeder(200, bounds)
	if err != nil {
		t.Fatalf("seeder: %v", err)
	}
	for i := 0; i < s.Len(); i++ {
		p := s.Start(i)
		if p.X < bounds.Lower.X || p.X > bounds.Upper.X ||
			p.Y < bounds.Lower.Y || p.Y > bounds.Upper.Y ||
			p.Z < bounds.Lower.Z || p.Z > bounds.Upper.Z {
			t.Fatalf("point %v escaped bounds %v..%v", p, bounds.Lower, bounds.Upper)
		}
	}
}

func TestRandomVolumeSeederRejectsInvertedBounds(t *testing.T) {
	bounds := VolumeBounds{Lower: vec3.New(0.8, 0.2, 0.2), Upper: vec3.New(0.2, 0.8, 0.8)}
	if _, err := RandomVolumeSeeder(10, bounds); err == nil {
		t.Fatalf("expected an error for inverted x bounds")
	}
}

func TestRegularVolumeSeederCountAndExtent(t *testing.T) {
	bounds := VolumeBounds{Lower: vec3.New(0, 0, 0), Upper: vec3.New(1, 1, 1)}
	s, err := RegularVolumeSeeder(3, 2, 2, bounds)
	if err != nil {
		t.Fatalf("seeder: %v", err)
	}
	if s.Len() != 12 {
		t.Fatalf("expected 12 points, got %d", s.Len())
	}
	sawLower, sawUpper := false, false
	for i := 0; i < s.Len(); i++ {
		p := s.Start(i)
		if p.X == bounds.Lower.X {
			sawLower = true
		}
		if p.X == bounds.Upper.X {
			sawUpper = true
		}
	}
	if !sawLower || !sawUpper {
		t.Fatalf("expected the lattice to touch both extremes of x")
	}
}

func TestBoundsFromGridMatchesGridExtent(t *testing.T) {
	grid, err := synth.UniformCubeGrid(8, [3]bool{true, true, true})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	b := BoundsFromGrid(grid)
	lo := grid.LowerBounds()
	hi := grid.UpperBounds()
	if b.Lower.X != lo.X || b.Upper.X != hi.X {
		t.Fatalf("bounds mismatch: got %v..%v want %v..%v", b.Lower, b.Upper, lo, hi)
	}
}
