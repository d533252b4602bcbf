// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cork_test

import (
	"math"
	"testing"

	"github.com/lars-frogner/BifRust/field"
	"github.com/lars-frogner/BifRust/interp"
	"github.com/lars-frogner/BifRust/pipeline/cork"
	"github.com/lars-frogner/BifRust/stepper"
	"github.com/lars-frogner/BifRust/swarm"
	"github.com/lars-frogner/BifRust/synth"
	"github.com/lars-frogner/BifRust/vec3"
)

func buildSnapshotProvider(t *testing.T, vx float64) field.Provider[float64] {
	t.Helper()
	grid, err := synth.UniformCubeGrid(16, [3]bool{true, true, true})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	vf, err := synth.BuildVectorField("v", grid, synth.UniformFlow(vx, 0, 0))
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	p := field.NewStaticProvider[float64](grid)
	p.AddVectorField(vf)
	return p
}

func buildSequenceDriver(t *testing.T, n int) *cork.SnapshotSequenceDriver[float64] {
	t.Helper()
	ip, err := interp.New[float64](interp.DefaultConfig())
	if err != nil {
		t.Fatalf("interpolator: %v", err)
	}
	grid, err := synth.UniformCubeGrid(16, [3]bool{true, true, true})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	if err := ip.VerifyGrid(grid); err != nil {
		t.Fatalf("verify grid: %v", err)
	}

	providers := make([]field.Provider[float64], n)
	for i := range providers {
		providers[i] = buildSnapshotProvider(t, 0.02)
	}

	cfg := stepper.DefaultConfig()
	cfg.MaxDistance = 1 // effectively unbounded; the single NmaxSteps=1 cap limits the step count

	return &cork.SnapshotSequenceDriver[float64]{
		Providers: providers,
		Interp:    ip,
		NewStepper: func() (*stepper.Stepper, error) {
			return stepper.NewRKF45(cfg)
		},
		FieldName:     "v",
		Tracer:        cork.Tracer[float64]{},
		InitialSeeder: swarm.SliceSeeder{vec3.New(0.1, 0.5, 0.5), vec3.New(0.2, 0.5, 0.5)},
	}
}

func TestSnapshotSequenceDriverAccumulatesHistory(t *testing.T) {
	n := 4
	d := buildSequenceDriver(t, n)
	result, err := d.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.NumberOfFieldLines != 2 {
		t.Fatalf("expected 2 corks, got %d", result.NumberOfFieldLines)
	}
	xs, ok := result.VaryingScalarValues["x"]
	if !ok {
		t.Fatalf("expected varying x series")
	}
	for i, line := range xs {
		if len(line) != n {
			t.Fatalf("cork %d: expected %d snapshot points, got %d", i, n, len(line))
		}
	}
	x0 := result.FixedScalarValues["x0"]
	if len(x0) != 2 {
		t.Fatalf("expected x0 fixed scalar for both corks")
	}
}

func TestSnapshotSequenceDriverAdvectsDownstream(t *testing.T) {
	d := buildSequenceDriver(t, 3)
	result, err := d.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	xs := result.VaryingScalarValues["x"]
	for i, line := range xs {
		last := line[len(line)-1]
		first := result.FixedScalarValues["x0"][i]
		if last <= first {
			t.Fatalf("cork %d: expected net downstream advection, start=%v end=%v", i, first, last)
		}
		if math.IsNaN(last) {
			t.Fatalf("cork %d: got NaN position", i)
		}
	}
}

func TestSnapshotSequenceDriverRejectsNilInitialSeeder(t *testing.T) {
	d := buildSequenceDriver(t, 1)
	d.InitialSeeder = nil
	if _, err := d.Run(); err == nil {
		t.Fatalf("expected an error for a nil initial seeder")
	}
}
