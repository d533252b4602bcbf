// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package cork implements the passive-tracer advection pipeline (SPEC_FULL.md
// supplemented feature 4, grounded on src/cli/snapshot/corks.rs): a single
// cork step is one accepted stepper step through one snapshot's field;
// SnapshotSequenceDriver calls the swarm driver once per snapshot in a
// time-ordered sequence, seeding each snapshot's run from the previous
// snapshot's final positions, so the core's single-snapshot Driver is
// composed across time rather than extended to know about time itself.
package cork

import (
	"github.com/cpmech/gosl/chk"

	"github.com/lars-frogner/BifRust/field"
	"github.com/lars-frogner/BifRust/geometry"
	"github.com/lars-frogner/BifRust/interp"
	"github.com/lars-frogner/BifRust/swarm"
	"github.com/lars-frogner/BifRust/trajectory"
	"github.com/lars-frogner/BifRust/vec3"
)

// Tracer advances one cork by exactly one accepted stepper step through the
// current snapshot's field (the teacher's ConstantCorkAdvector/
// HeunCorkStepper pairing, generalized to whatever stepper the caller
// configures). A cork that cannot take a step this snapshot (out of bounds,
// a sink) simply keeps its previous position, the "frozen" passive-tracer
// behavior that lets SnapshotSequenceDriver assume every cork survives every
// snapshot.
type Tracer[S geometry.Real] struct {
	ScalarFields []string
	VectorFields []string
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

	drv := &trajectory.Driver{Stepper: st, Grid: gw, Field: vs, Mode: trajectory.Plain, NmaxSteps: 1}
	out, err := drv.Run(start, trajectory.Forward)

	pos := start
	if err == nil && out.Trajectory.Len() >= 2 {
		n := out.Trajectory.Len()
		pos = vec3.New(out.Trajectory.X[n-1], out.Trajectory.Y[n-1], out.Trajectory.Z[n-1])
	}

	data := swarm.NewTraceData()
	data.VaryingScalars["x"] = []float64{pos.X}
	data.VaryingScalars["y"] = []float64{pos.Y}
	data.VaryingScalars["z"] = []float64{pos.Z}
	for _, name := range t.ScalarFields {
		sf, err := provider.ProvideScalarField(name)
		if err != nil {
			continue
		}
		if v, ok := ip.ScalarSamplerFor(sf).Sample(pos); ok {
			data.VaryingScalars[name] = []float64{v}
		}
	}
	for _, name := range t.VectorFields {
		vfield, err := provider.ProvideVectorField(name)
		if err != nil {
			continue
		}
		if v, ok := ip.VectorSamplerFor(vfield).Sample(pos); ok {
			data.VaryingVectors[name] = []vec3.Vec3{v}
		}
	}
	return data, true
}

// SnapshotSequenceDriver threads one swarm.Driver run per snapshot,
// re-seeding from the previous run's final positions and concatenating each
// cork's per-snapshot contribution into its full time history.
type SnapshotSequenceDriver[S geometry.Real] struct {
	Providers     []field.Provider[S] // one per snapshot, in time order
	Interp        *interp.Interpolator[S]
	NewStepper    swarm.StepperFactory
	FieldName     string
	Tracer        Tracer[S]
	InitialSeeder swarm.Seeder
}

// Validate checks the driver is fully wired before Run
func (d *SnapshotSequenceDriver[S]) Validate() error {
	if len(d.Providers) == 0 {
		return chk.Err("cork driver: at least one snapshot provider is required")
	}
	if d.Interp == nil {
		return chk.Err("cork driver: Interp is required")
	}
	if d.NewStepper == nil {
		return chk.Err("cork driver: NewStepper is required")
	}
	if d.InitialSeeder == nil {
		return chk.Err("cork driver: InitialSeeder is required")
	}
	return nil
}

// Run advects every cork across every snapshot in order. Each per-snapshot
// pass runs with a single worker: unlike a one-shot field-line swarm, a
// cork's identity must survive from one snapshot's output to the next
// snapshot's input, and the reduction across workers is explicitly
// order-unspecified (§4.5), so the sequence forces Workers: 1 to keep each
// snapshot's result rows aligned 1:1 with its seed list.
func (d *SnapshotSequenceDriver[S]) Run() (swarm.FieldLineSetProperties, error) {
	if err := d.Validate(); err != nil {
		return swarm.FieldLineSetProperties{}, err
	}

	n := d.InitialSeeder.Len()
	history := make([]swarm.TraceData, n)
	for i := range history {
		history[i] = swarm.NewTraceData()
		start := d.InitialSeeder.Start(i)
		history[i].FixedScalars["x0"] = start.X
		history[i].FixedScalars["y0"] = start.Y
		history[i].FixedScalars["z0"] = start.Z
	}

	seeder := d.InitialSeeder
	for _, provider := range d.Providers {
		sd := &swarm.Driver[S]{
			Seeder:     seeder,
			Provider:   provider,
			Interp:     d.Interp,
			Tracer:     d.Tracer,
			NewStepper: d.NewStepper,
			FieldName:  d.FieldName,
			Workers:    1,
		}
		result, err := sd.Run()
		if err != nil {
			return swarm.FieldLineSetProperties{}, err
		}
		if result.NumberOfFieldLines != n {
			return swarm.FieldLineSetProperties{}, chk.Err("cork driver: snapshot produced %d corks, expected %d", result.NumberOfFieldLines, n)
		}

		next := make(swarm.SliceSeeder, n)
		for name, outer := range result.VaryingScalarValues {
			for i := 0; i < n; i++ {
				history[i].VaryingScalars[name] = append(history[i].VaryingScalars[name], outer[i][0])
			}
		}
		for name, outer := range result.VaryingVectorValues {
			for i := 0; i < n; i++ {
				history[i].VaryingVectors[name] = append(history[i].VaryingVectors[name], outer[i][0])
			}
		}
		for i := 0; i < n; i++ {
			next[i] = vec3.New(
				result.VaryingScalarValues["x"][i][0],
				result.VaryingScalarValues["y"][i][0],
				result.VaryingScalarValues["z"][i][0],
			)
		}
		seeder = next
	}

	locals := make([]swarm.FieldLineSetProperties, n)
	for i, d := range history {
		locals[i] = oneTrajectoryProperties(d)
	}
	return swarm.Merge(locals), nil
}

// oneTrajectoryProperties wraps a single cork's accumulated TraceData as a
// one-trajectory FieldLineSetProperties, so swarm.Merge's existing
// concatenation/padding logic assembles the final result without
// duplicating it here.
func oneTrajectoryProperties(d swarm.TraceData) swarm.FieldLineSetProperties {
	p := swarm.FieldLineSetProperties{
		NumberOfFieldLines:  1,
		FixedScalarValues:   make(map[string][]float64, len(d.FixedScalars)),
		FixedVectorValues:   make(map[string][]vec3.Vec3, len(d.FixedVectors)),
		VaryingScalarValues: make(map[string][][]float64, len(d.VaryingScalars)),
		VaryingVectorValues: make(map[string][][]vec3.Vec3, len(d.VaryingVectors)),
	}
	for name, v := range d.FixedScalars {
		p.FixedScalarValues[name] = []float64{v}
	}
	for name, v := range d.FixedVectors {
		p.FixedVectorValues[name] = []vec3.Vec3{v}
	}
	for name, v := range d.VaryingScalars {
		p.VaryingScalarValues[name] = [][]float64{v}
	}
	for name, v := range d.VaryingVectors {
		p.VaryingVectorValues[name] = [][]vec3.Vec3{v}
	}
	return p
}
