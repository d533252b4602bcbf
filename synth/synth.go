// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package synth builds analytic scalar/vector fields over a grid, in the
// absence of a real snapshot reader (out of core scope per spec §1/§6).
// Grounded on BifRust's `snapshot synthesize` CLI command and used for
// regression tests (P3, P4, P7) and the worked examples (E1-E4).
package synth

import (
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/utl"

	"github.com/lars-frogner/BifRust/field"
	"github.com/lars-frogner/BifRust/geometry"
)

// UniformAxis builds a periodic-or-not axis of n cells evenly covering
// [lo, hi) using gosl's LinSpace, the same helper the teacher's example
// plots use to lay out sample grids.
func UniformAxis(lo, hi float64, n int, periodic bool) (geometry.Axis[float64], error) {
	step := (hi - lo) / float64(n)
	centers := utl.LinSpace(lo+step/2, hi-step/2, n)
	return geometry.NewAxis(centers, periodic)
}

// UniformCubeGrid builds an n x n x n grid covering [0,1)^3 with the given
// per-axis periodicity, the grid used throughout the spec's worked
// scenarios (E1-E3).
func UniformCubeGrid(n int, periodic [3]bool) (*geometry.Grid[float64], error) {
	axes := [3]geometry.Axis[float64]{}
	for i := 0; i < 3; i++ {
		a, err := UniformAxis(0, 1, n, periodic[i])
		if err != nil {
			return nil, err
		}
		axes[i] = a
	}
	return geometry.NewGrid(axes[0], axes[1], axes[2]), nil
}

// ScalarGenerator evaluates an analytic scalar field at a grid point
type ScalarGenerator func(x, y, z float64) float64

// VectorGenerator evaluates an analytic vector field at a grid point
type VectorGenerator func(x, y, z float64) (vx, vy, vz float64)

// BuildScalarField samples gen at every cell center of grid
func BuildScalarField(name string, grid *geometry.Grid[float64], gen ScalarGenerator) (*field.ScalarField[float64], error) {
	shape := grid.Shape()
	values := make([][][]float64, shape.I)
	for i := 0; i < shape.I; i++ {
		values[i] = make([][]float64, shape.J)
		for j := 0; j < shape.J; j++ {
			values[i][j] = make([]float64, shape.K)
			for k := 0; k < shape.K; k++ {
				c := grid.CellCenter(geometry.Idx3{I: i, J: j, K: k})
				values[i][j][k] = gen(c.X, c.Y, c.Z)
			}
		}
	}
	return field.NewScalarField(name, grid, values)
}

// BuildVectorField samples gen at every cell center of grid, producing
// three co-named component scalar fields suffixed _x, _y, _z
func BuildVectorField(name string, grid *geometry.Grid[float64], gen VectorGenerator) (*field.VectorField[float64], error) {
	fx, err := BuildScalarField(name+"_x", grid, func(x, y, z float64) float64 { vx, _, _ := gen(x, y, z); return vx })
	if err != nil {
		return nil, err
	}
	fy, err := BuildScalarField(name+"_y", grid, func(x, y, z float64) float64 { _, vy, _ := gen(x, y, z); return vy })
	if err != nil {
		return nil, err
	}
	fz, err := BuildScalarField(name+"_z", grid, func(x, y, z float64) float64 { _, _, vz := gen(x, y, z); return vz })
	if err != nil {
		return nil, err
	}
	return field.NewVectorField(name, fx, fy, fz)
}

// Linear returns F(x,y,z) = a*x + b*y + c*z + d, the analytic field used by
// testable property P3.
func Linear(a, b, c, d float64) ScalarGenerator {
	return func(x, y, z float64) float64 { return a*x + b*y + c*z + d }
}

// UniformFlow returns f = (vx, vy, vz) everywhere, the field used in
// scenario E1 and the dense-output monotonicity/periodic-wrap checks
// (P5, P6).
func UniformFlow(vx, vy, vz float64) VectorGenerator {
	return func(x, y, z float64) (float64, float64, float64) { return vx, vy, vz }
}

// RadialSink returns f = (-x, -y, -z), the sink field used by scenario E2
// and the sink-detection property P7.
func RadialSink() VectorGenerator {
	return func(x, y, z float64) (float64, float64, float64) { return -x, -y, -z }
}

// CircularFlow returns f = (-y, x, 0), a circulation about the z-axis
// through the origin whose speed equals the distance from that axis, used
// by the error-controlled step-bound regression test P4.
func CircularFlow() VectorGenerator {
	return func(x, y, z float64) (float64, float64, float64) { return -y, x, 0 }
}

// RampedScalar builds a scalar generator whose value is the gosl/fun ramp
// profile (fun.Ramp, max(0, x): zero below x0 and linear above, continuous
// with a kink at x0) applied to the displacement from x0 along one axis and
// scaled by slope, mirroring the teacher's use of fun.Ramp for
// boundary-condition profiles (fem/e_pp.go, ele/seepage/liquid.go); here it
// gives regression fixtures a field that is continuous in space, without
// the jump a hard step would introduce into the polynomial fit.
func RampedScalar(axis int, x0, slope float64) ScalarGenerator {
	return func(x, y, z float64) float64 {
		var c float64
		switch axis {
		case 0:
			c = x
		case 1:
			c = y
		default:
			c = z
		}
		return slope * fun.Ramp(c-x0)
	}
}
