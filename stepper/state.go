// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stepper

import "github.com/lars-frogner/BifRust/vec3"

// State is the stepper's full carried state (§3 SteppingState)
type State struct {
	Position  vec3.Vec3 // current point
	Direction vec3.Vec3 // unit vector field sample at Position
	Distance  float64   // arc length traveled from placement

	StepSize         float64 // current trial step
	Error            float64 // previous accepted step's error estimate
	nSuddenReversals int

	PreviousPosition         vec3.Vec3
	PreviousDirection        vec3.Vec3
	PreviousStepSize         float64
	PreviousStepDisplacement vec3.Vec3
	PreviousStepWrapped      bool

	intermediateDirections []vec3.Vec3 // K-stages of the current attempt

	NextOutputDistance float64 // first dense-output checkpoint, set by Place and not advanced by later steps

	placed bool
}

// NSuddenReversals returns the current consecutive-reversal count, exposed
// read-only for diagnostics.
func (s *State) NSuddenReversals() int { return s.nSuddenReversals }
