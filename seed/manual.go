// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seed

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/gm"

	"github.com/lars-frogner/BifRust/geometry"
	"github.com/lars-frogner/BifRust/swarm"
	"github.com/lars-frogner/BifRust/vec3"
)

// ManualSites snaps a user-supplied list of points to the nearest grid cell
// center, standing in for automatic reconnection-site detection (out of
// scope here): it builds a spatial bin index over every cell center once and
// resolves each query point against it, rather than running FindCell's
// owning-cell search per point. The bins span only the grid's lower to
// upper bounds, so a point outside the grid is not matched and
// ManualSites returns an error for it.
func ManualSites[S geometry.Real](g *geometry.Grid[S], points []vec3.Vec3) (swarm.Seeder, error) {
	if len(points) == 0 {
		return nil, chk.Err("seed: no manual sites given")
	}

	shape := g.Shape()
	lo := g.LowerBounds()
	hi := g.UpperBounds()

	var bins gm.Bins
	bins.Init(
		[]float64{float64(lo.X), float64(lo.Y), float64(lo.Z)},
		[]float64{float64(hi.X), float64(hi.Y), float64(hi.Z)},
		maxDim(shape.I, shape.J, shape.K),
	)

	centers := make([]geometry.Idx3, 0, shape.I*shape.J*shape.K)
	for i := 0; i < shape.I; i++ {
		for j := 0; j < shape.J; j++ {
			for k := 0; k < shape.K; k++ {
				idx := geometry.Idx3{I: i, J: j, K: k}
				c := g.CellCenter(idx)
				id := len(centers)
				centers = append(centers, idx)
				if err := bins.Append([]float64{float64(c.X), float64(c.Y), float64(c.Z)}, id); err != nil {
					return nil, chk.Err("seed: indexing cell centers: %v", err)
				}
			}
		}
	}

	snapped := make(swarm.SliceSeeder, len(points))
	for n, p := range points {
		id := bins.Find([]float64{p.X, p.Y, p.Z})
		if id < 0 {
			return nil, chk.Err("seed: manual site %v could not be matched to any grid cell", p)
		}
		idx := centers[id]
		c := g.CellCenter(idx)
		snapped[n] = vec3.New(float64(c.X), float64(c.Y), float64(c.Z))
	}
	return snapped, nil
}

func maxDim(a, b, c int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
