// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fieldline implements the thinnest possible swarm.Tracer: it
// traces one field line per seed and records only coordinates plus
// whatever extra series the caller configured, with no physics beyond
// §4.4 (SPEC_FULL.md supplemented feature 5).
package fieldline

import (
	"github.com/lars-frogner/BifRust/field"
	"github.com/lars-frogner/BifRust/geometry"
	"github.com/lars-frogner/BifRust/interp"
	"github.com/lars-frogner/BifRust/swarm"
	"github.com/lars-frogner/BifRust/trajectory"
	"github.com/lars-frogner/BifRust/vec3"
)

// Tracer traces a single vector field, optionally both directions from the
// seed, recording x,y,z plus any extra sampled scalar fields by name.
type Tracer[S geometry.Real] struct {
	Direction    trajectory.Direction
	Mode         trajectory.StepMode
	ScalarFields []string // extra scalar fields sampled and recorded at every point
	NmaxSteps    int
}

// Trace implements swarm.Tracer
func (t Tracer[S]) Trace(fieldName string, provider field.Provider[S], ip *interp.Interpolator[S], newStepper swarm.StepperFactory, start vec3.Vec3) (swarm.TraceData, bool) {
	vf, err := provider.ProvideVectorField(fieldName)
	if err != nil {
		return swarm.TraceData{}, false
	}
	gw := interp.GridWrapper[S]{Grid: provider.Grid()}
	vs := ip.VectorSamplerFor(vf)

	st, err := newStepper()
	if err != nil {
		return swarm.TraceData{}, false
	}

	drv := &trajectory.Driver{
		Stepper:   st,
		Grid:      gw,
		Field:     vs,
		Mode:      t.Mode,
		NmaxSteps: t.NmaxSteps,
	}
	for _, name := range t.ScalarFields {
		sf, err := provider.ProvideScalarField(name)
		if err != nil {
			continue
		}
		ss := ip.ScalarSamplerFor(sf)
		drv.ScalarSamples = append(drv.ScalarSamples, trajectory.ScalarSample{Name: name, Sample: ss.Sample})
	}

	out, err := drv.Run(start, t.Direction)
	if err != nil {
		return swarm.TraceData{}, false
	}

	data := swarm.NewTraceData()
	n := out.Trajectory.Len()
	if n == 0 {
		return swarm.TraceData{}, false
	}
	data.VaryingScalars["x"] = out.Trajectory.X
	data.VaryingScalars["y"] = out.Trajectory.Y
	data.VaryingScalars["z"] = out.Trajectory.Z
	for name, series := range out.Trajectory.ScalarSeries {
		data.VaryingScalars[name] = series
	}
	for name, series := range out.Trajectory.VectorSeries {
		data.VaryingVectors[name] = series
	}
	data.FixedScalars["x0"] = out.Trajectory.X[0]
	data.FixedScalars["y0"] = out.Trajectory.Y[0]
	data.FixedScalars["z0"] = out.Trajectory.Z[0]
	return data, true
}
