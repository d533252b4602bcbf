// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swarm

import (
	"github.com/lars-frogner/BifRust/field"
	"github.com/lars-frogner/BifRust/geometry"
	"github.com/lars-frogner/BifRust/interp"
	"github.com/lars-frogner/BifRust/stepper"
	"github.com/lars-frogner/BifRust/vec3"
)

// TraceData is one trajectory's contribution to the swarm result (§3): a
// fixed (one value per trajectory) and a varying (one value per recorded
// point) set of named scalar and vector series.
type TraceData struct {
	FixedScalars   map[string]float64
	FixedVectors   map[string]vec3.Vec3
	VaryingScalars map[string][]float64
	VaryingVectors map[string][]vec3.Vec3
}

// NewTraceData returns an empty TraceData with all maps allocated
func NewTraceData() TraceData {
	return TraceData{
		FixedScalars:   make(map[string]float64),
		FixedVectors:   make(map[string]vec3.Vec3),
		VaryingScalars: make(map[string][]float64),
		VaryingVectors: make(map[string][]vec3.Vec3),
	}
}

// StepperFactory builds a fresh Stepper for one trajectory; workers call it
// once per seed so each trajectory gets its own stepper state (§5, "each
// worker owns its stepper").
type StepperFactory func() (*stepper.Stepper, error)

// Tracer is the only part of the pipeline that knows the physics of the
// downstream product (field-line segment, electron-beam trajectory, cork
// advection); the core only specifies this interface (§4.5, §6).
type Tracer[S geometry.Real] interface {
	Trace(fieldName string, provider field.Provider[S], ip *interp.Interpolator[S], newStepper StepperFactory, start vec3.Vec3) (TraceData, bool)
}
