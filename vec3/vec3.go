// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package vec3 implements the tracing-precision 3-vector used throughout the
// interpolation, stepping and swarm-reduction packages. Grid and field data
// are kept in a separate, possibly lower, storage precision (see geometry
// and field); conversion to vec3.Vec3 happens only at the interpolator
// boundary.
package vec3

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// Vec3 is a point or direction in tracing precision (always float64)
type Vec3 struct {
	X, Y, Z float64
}

// New returns a new Vec3
func New(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Array returns the component array, suitable for gosl/la vector routines
func (v Vec3) Array() []float64 {
	return []float64{v.X, v.Y, v.Z}
}

// FromArray builds a Vec3 from a 3-component slice
func FromArray(a []float64) Vec3 {
	return Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// Add returns v + u
func (v Vec3) Add(u Vec3) Vec3 {
	r := make([]float64, 3)
	la.VecAdd(r, 1, v.Array(), 1, u.Array())
	return FromArray(r)
}

// Sub returns v - u
func (v Vec3) Sub(u Vec3) Vec3 {
	r := make([]float64, 3)
	la.VecAdd(r, 1, v.Array(), -1, u.Array())
	return FromArray(r)
}

// Scale returns s*v
func (v Vec3) Scale(s float64) Vec3 {
	r := make([]float64, 3)
	la.VecCopy(r, s, v.Array())
	return FromArray(r)
}

// AddScaled returns v + s*u
func (v Vec3) AddScaled(s float64, u Vec3) Vec3 {
	r := make([]float64, 3)
	la.VecAdd(r, 1, v.Array(), s, u.Array())
	return FromArray(r)
}

// Dot returns the dot product v.u
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// Norm returns the Euclidean length of v
func (v Vec3) Norm() float64 {
	return la.VecNorm(v.Array())
}

// Normalize returns v scaled to unit length; the zero vector is returned
// unchanged (callers must treat a near-zero field sample as a degenerate
// direction before calling this)
func (v Vec3) Normalize() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Component returns the axis-th component (0=x, 1=y, 2=z)
func (v Vec3) Component(axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// WithComponent returns a copy of v with the axis-th component replaced
func (v Vec3) WithComponent(axis int, value float64) Vec3 {
	switch axis {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

// Zero is the zero vector
var Zero = Vec3{}

// IsFinite reports whether all components are finite numbers
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
