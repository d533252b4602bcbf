// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package seed implements swarm.Seeder producers: a random volume seeder, a
// regular-lattice volume seeder and a manual reconnection-site snapper, the
// three seeding capabilities carried
// over from the distillation's source material that the core tracing
// packages deliberately leave out.
package seed

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/rnd"

	"github.com/lars-frogner/BifRust/geometry"
	"github.com/lars-frogner/BifRust/swarm"
	"github.com/lars-frogner/BifRust/vec3"
)

// VolumeBounds is an axis-aligned sub-box of a grid's extent
type VolumeBounds struct {
	Lower, Upper vec3.Vec3
}

// Validate reports whether every upper bound exceeds its lower bound
func (b VolumeBounds) Validate() error {
	if b.Upper.X <= b.Lower.X || b.Upper.Y <= b.Lower.Y || b.Upper.Z <= b.Lower.Z {
		return chk.Err("seed: volume upper bounds must exceed lower bounds; got lower=%v upper=%v", b.Lower, b.Upper)
	}
	return nil
}

// BoundsFromGrid returns the full extent of grid as a VolumeBounds
func BoundsFromGrid[S geometry.Real](g *geometry.Grid[S]) VolumeBounds {
	lo := g.LowerBounds()
	hi := g.UpperBounds()
	return VolumeBounds{
		Lower: vec3.New(float64(lo.X), float64(lo.Y), float64(lo.Z)),
		Upper: vec3.New(float64(hi.X), float64(hi.Y), float64(hi.Z)),
	}
}

// RandomVolumeSeeder draws uniformly distributed points inside bounds
func RandomVolumeSeeder(n int, bounds VolumeBounds) (swarm.Seeder, error) {
	if n <= 0 {
		return nil, chk.Err("seed: n must be positive; got %d", n)
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	rnd.Init(0)
	points := make(swarm.SliceSeeder, n)
	for i := range points {
		points[i] = vec3.New(
			rnd.Float64(bounds.Lower.X, bounds.Upper.X),
			rnd.Float64(bounds.Lower.Y, bounds.Upper.Y),
			rnd.Float64(bounds.Lower.Z, bounds.Upper.Z),
		)
	}
	return points, nil
}

// RegularVolumeSeeder lays out an nx*ny*nz lattice of points spanning bounds,
// the deterministic counterpart to RandomVolumeSeeder.
func RegularVolumeSeeder(nx, ny, nz int, bounds VolumeBounds) (swarm.Seeder, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, chk.Err("seed: nx, ny, nz must be positive; got %d, %d, %d", nx, ny, nz)
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	points := make(swarm.SliceSeeder, 0, nx*ny*nz)
	step := func(lo, hi float64, n int) func(i int) float64 {
		if n == 1 {
			return func(int) float64 { return (lo + hi) / 2 }
		}
		d := (hi - lo) / float64(n-1)
		return func(i int) float64 { return lo + float64(i)*d }
	}
	xAt := step(bounds.Lower.X, bounds.Upper.X, nx)
	yAt := step(bounds.Lower.Y, bounds.Upper.Y, ny)
	zAt := step(bounds.Lower.Z, bounds.Upper.Z, nz)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				points = append(points, vec3.New(xAt(i), yAt(j), zAt(k)))
			}
		}
	}
	return points, nil
}
