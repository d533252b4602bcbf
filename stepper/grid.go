// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stepper

import "github.com/lars-frogner/BifRust/vec3"

// GridWrapper is the subset of geometry.Grid the stepper needs: periodic
// wrapping of a tracing-precision point. Defined here, on the consumer
// side, so the stepper stays free of the grid's storage-precision type
// parameter; package geometry's *Grid[S] satisfies it through a small
// adapter (see geometry.Grid.WrapVec3 / interp.GridWrapper).
type GridWrapper interface {
	WrapVec3(p vec3.Vec3) (wrapped vec3.Vec3, ok bool)
}
