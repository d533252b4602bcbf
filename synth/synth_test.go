// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package synth

import (
	"testing"

	"github.com/lars-frogner/BifRust/geometry"
)

func TestUniformCubeGrid(t *testing.T) {
	g, err := UniformCubeGrid(10, [3]bool{true, true, false})
	if err != nil {
		t.Fatalf("UniformCubeGrid failed: %v", err)
	}
	shape := g.Shape()
	if shape.I != 10 || shape.J != 10 || shape.K != 10 {
		t.Fatalf("unexpected shape: %v", shape)
	}
}

func TestBuildScalarField(t *testing.T) {
	g, err := UniformCubeGrid(8, [3]bool{false, false, false})
	if err != nil {
		t.Fatalf("UniformCubeGrid failed: %v", err)
	}
	f, err := BuildScalarField("linear", g, Linear(1, 2, 3, 0.5))
	if err != nil {
		t.Fatalf("BuildScalarField failed: %v", err)
	}
	idx := geometry.Idx3{I: 3, J: 4, K: 5}
	c := g.CellCenter(idx)
	want := Linear(1, 2, 3, 0.5)(c.X, c.Y, c.Z)
	got := f.At(idx)
	if got != want {
		t.Fatalf("At(%v) = %v, want %v", idx, got, want)
	}
}
