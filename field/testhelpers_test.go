// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"github.com/cpmech/gosl/utl"

	"github.com/lars-frogner/BifRust/geometry"
)

func testGrid() (*geometry.Grid[float64], error) {
	centers := utl.LinSpace(0.05, 0.95, 10)
	axes := [3]geometry.Axis[float64]{}
	for i := 0; i < 3; i++ {
		a, err := geometry.NewAxis(centers, false)
		if err != nil {
			return nil, err
		}
		axes[i] = a
	}
	return geometry.NewGrid(axes[0], axes[1], axes[2]), nil
}

func testValues(g *geometry.Grid[float64]) [][][]float64 {
	shape := g.Shape()
	v := make([][][]float64, shape.I)
	for i := range v {
		v[i] = make([][]float64, shape.J)
		for j := range v[i] {
			v[i][j] = make([]float64, shape.K)
		}
	}
	return v
}
