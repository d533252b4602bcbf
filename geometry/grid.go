// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package geometry implements the regular-in-topology 3-D grid that
// underlies every field provider: an ordered triple of 1-D coordinate axes,
// each carrying cell centers, cell faces, per-cell widths and a periodicity
// flag.
package geometry

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Real is the storage precision of grid coordinates and gridded field
// arrays; kept as its own type parameter so a caller may choose float32 to
// match a snapshot file's on-disk precision without touching the tracing
// math in package interp/stepper, which always runs in float64.
type Real interface {
	~float32 | ~float64
}

// Point3 is a point in storage precision
type Point3[S Real] struct {
	X, Y, Z S
}

// Idx3 is a cell index triple
type Idx3 struct {
	I, J, K int
}

// Axis is one coordinate direction of a Grid
type Axis[S Real] struct {
	Centers  []S  // cell-center coordinates, length n
	Faces    []S  // cell-face coordinates, length n+1
	Widths   []S  // per-cell widths, length n
	Lower    S    // lower extent (first face)
	Upper    S    // upper extent (last face)
	Periodic bool // periodicity flag
}

// NewAxis builds an Axis from cell-center coordinates and a periodicity
// flag. Faces are placed at the midpoints between consecutive centers, with
// the outermost faces mirrored from the first/last cell width (the
// standard "ghost-free" convention used when a mesh reader has already
// trimmed ghost cells).
func NewAxis[S Real](centers []S, periodic bool) (a Axis[S], err error) {
	n := len(centers)
	if n < 1 {
		return a, chk.Err("axis must have at least one cell; got %d", n)
	}
	faces := make([]S, n+1)
	for i := 1; i < n; i++ {
		faces[i] = (centers[i-1] + centers[i]) / 2
	}
	if n == 1 {
		faces[0] = centers[0]
		faces[1] = centers[0]
	} else {
		faces[0] = centers[0] - (faces[1] - centers[0])
		faces[n] = centers[n-1] + (centers[n-1] - faces[n-1])
	}
	widths := make([]S, n)
	for i := 0; i < n; i++ {
		widths[i] = faces[i+1] - faces[i]
	}
	a = Axis[S]{
		Centers:  centers,
		Faces:    faces,
		Widths:   widths,
		Lower:    faces[0],
		Upper:    faces[n],
		Periodic: periodic,
	}
	return a, nil
}

// Grid is a 3-D regular-in-topology grid: an ordered triple of axes
type Grid[S Real] struct {
	Axes [3]Axis[S]
}

// NewGrid builds a Grid from three axes, one per coordinate direction
func NewGrid[S Real](x, y, z Axis[S]) *Grid[S] {
	return &Grid[S]{Axes: [3]Axis[S]{x, y, z}}
}

// LowerBounds returns the lower extent of the non-ghost region
func (g *Grid[S]) LowerBounds() Point3[S] {
	return Point3[S]{g.Axes[0].Lower, g.Axes[1].Lower, g.Axes[2].Lower}
}

// UpperBounds returns the upper extent of the non-ghost region
func (g *Grid[S]) UpperBounds() Point3[S] {
	return Point3[S]{g.Axes[0].Upper, g.Axes[1].Upper, g.Axes[2].Upper}
}

// IsPeriodic reports whether the given axis (0=x,1=y,2=z) is periodic
func (g *Grid[S]) IsPeriodic(axis int) bool {
	return g.Axes[axis].Periodic
}

// component extracts the axis-th coordinate of p
func component[S Real](p Point3[S], axis int) S {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// withComponent returns p with its axis-th coordinate replaced
func withComponent[S Real](p Point3[S], axis int, v S) Point3[S] {
	switch axis {
	case 0:
		p.X = v
	case 1:
		p.Y = v
	default:
		p.Z = v
	}
	return p
}

// WrapPoint reduces each periodic coordinate of p into [lower, upper); it
// returns ok=false if any non-periodic coordinate lies outside the grid's
// extent.
func (g *Grid[S]) WrapPoint(p Point3[S]) (wrapped Point3[S], ok bool) {
	wrapped = p
	for axis := 0; axis < 3; axis++ {
		a := g.Axes[axis]
		c := component(wrapped, axis)
		if a.Periodic {
			span := a.Upper - a.Lower
			if span <= 0 {
				return wrapped, false
			}
			for c < a.Lower {
				c += span
			}
			for c >= a.Upper {
				c -= span
			}
			wrapped = withComponent(wrapped, axis, c)
		} else {
			if c < a.Lower || c > a.Upper {
				return wrapped, false
			}
		}
	}
	return wrapped, true
}

// FindCell locates the cell owning p via per-axis binary search on face
// coordinates, after wrapping periodic axes. It returns ok=false exactly
// when WrapPoint would.
func (g *Grid[S]) FindCell(p Point3[S]) (idx Idx3, ok bool) {
	wrapped, ok := g.WrapPoint(p)
	if !ok {
		return idx, false
	}
	indices := [3]int{}
	for axis := 0; axis < 3; axis++ {
		a := g.Axes[axis]
		c := component(wrapped, axis)
		// sort.Search finds the first face index i such that faces[i] > c;
		// the owning cell is i-1, clamped into [0, n-1] to absorb the
		// "== last face" boundary case.
		i := sort.Search(len(a.Faces), func(i int) bool { return a.Faces[i] > c })
		cell := i - 1
		if cell < 0 {
			cell = 0
		}
		if cell > len(a.Centers)-1 {
			cell = len(a.Centers) - 1
		}
		indices[axis] = cell
	}
	return Idx3{indices[0], indices[1], indices[2]}, true
}

// CellCenter returns the center coordinates of cell idx
func (g *Grid[S]) CellCenter(idx Idx3) Point3[S] {
	return Point3[S]{
		g.Axes[0].Centers[idx.I],
		g.Axes[1].Centers[idx.J],
		g.Axes[2].Centers[idx.K],
	}
}

// WrapVec3 wraps a tracing-precision point the same way WrapPoint wraps a
// storage-precision one; it lets the stepper package depend only on a
// small consumer-defined interface (stepper.GridWrapper) instead of on
// Grid's storage-precision type parameter.
func (g *Grid[S]) WrapVec3(p Vec3Like) (Vec3Like, bool) {
	storage := Point3[S]{X: S(p.X), Y: S(p.Y), Z: S(p.Z)}
	wrapped, ok := g.WrapPoint(storage)
	if !ok {
		return p, false
	}
	return Vec3Like{X: float64(wrapped.X), Y: float64(wrapped.Y), Z: float64(wrapped.Z)}, true
}

// Vec3Like is a tracing-precision (float64) point, structurally identical
// to vec3.Vec3; geometry does not import package vec3 (vec3 has no grid
// dependency, so no cycle exists today, and keeping geometry leaf-level
// avoids one forming later), so WrapVec3's callers convert at the
// boundary.
type Vec3Like struct {
	X, Y, Z float64
}

// Shape returns the number of cells along each axis
func (g *Grid[S]) Shape() Idx3 {
	return Idx3{len(g.Axes[0].Centers), len(g.Axes[1].Centers), len(g.Axes[2].Centers)}
}
