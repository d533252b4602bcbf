// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trajectory

import (
	"math"
	"testing"

	"github.com/lars-frogner/BifRust/interp"
	"github.com/lars-frogner/BifRust/stepper"
	"github.com/lars-frogner/BifRust/synth"
	"github.com/lars-frogner/BifRust/vec3"
)

func buildCircularDriver(t *testing.T, maxDistance float64) (*Driver, vec3.Vec3) {
	t.Helper()
	grid, err := synth.UniformCubeGrid(24, [3]bool{true, true, true})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	vf, err := synth.BuildVectorField("flow", grid, synth.CircularFlow())
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	ip, err := interp.New[float64](interp.DefaultConfig())
	if err != nil {
		t.Fatalf("interpolator: %v", err)
	}
	if err := ip.VerifyGrid(grid); err != nil {
		t.Fatalf("verify grid: %v", err)
	}

	cfg := stepper.DefaultConfig()
	cfg.MaxDistance = maxDistance
	st, err := stepper.NewRKF45(cfg)
	if err != nil {
		t.Fatalf("stepper: %v", err)
	}

	d := &Driver{
		Stepper: st,
		Grid:    interp.GridWrapper[float64]{Grid: grid},
		Field:   ip.VectorSamplerFor(vf),
		Mode:    Plain,
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	start := vec3.New(0.2, 0, 0.5)
	return d, start
}

func TestDriverForwardTraceReturnsToStart(t *testing.T) {
	d, start := buildCircularDriver(t, 2*math.Pi*0.2*1.01)
	out, err := d.Run(start, Forward)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Termination != stepper.MaxDistanceReached {
		t.Fatalf("expected max_distance_reached, got %v", out.Termination)
	}
	if out.Trajectory.Len() < 2 {
		t.Fatalf("expected multiple recorded points, got %d", out.Trajectory.Len())
	}
	last := vec3.New(
		out.Trajectory.X[out.Trajectory.Len()-1],
		out.Trajectory.Y[out.Trajectory.Len()-1],
		out.Trajectory.Z[out.Trajectory.Len()-1],
	)
	if last.Sub(start).Norm() > 1e-2 {
		t.Fatalf("trace did not return near start: got %v", last)
	}
}

func TestDriverBothDirectionsConcatenates(t *testing.T) {
	d, start := buildCircularDriver(t, math.Pi*0.2)
	out, err := d.Run(start, Both)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Trajectory.Len() < 4 {
		t.Fatalf("expected a two-sided trace with several points, got %d", out.Trajectory.Len())
	}
	if err := out.Trajectory.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestDriverSinkTerminatesOnReversal(t *testing.T) {
	grid, err := synth.UniformCubeGrid(16, [3]bool{false, false, false})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	vf, err := synth.BuildVectorField("sink", grid, synth.RadialSink())
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	ip, err := interp.New[float64](interp.DefaultConfig())
	if err != nil {
		t.Fatalf("interpolator: %v", err)
	}
	cfg := stepper.DefaultConfig()
	cfg.SuddenReversalsForSink = 1
	st, err := stepper.NewRKF45(cfg)
	if err != nil {
		t.Fatalf("stepper: %v", err)
	}
	d := &Driver{
		Stepper: st,
		Grid:    interp.GridWrapper[float64]{Grid: grid},
		Field:   ip.VectorSamplerFor(vf),
		Mode:    Plain,
	}
	start := vec3.New(0.51, 0.51, 0.51)
	out, err := d.Run(start, Forward)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Termination != stepper.Sink && out.Termination != stepper.OutOfBounds {
		t.Fatalf("expected a sink or an out-of-bounds termination approaching the origin, got %v", out.Termination)
	}
}
