// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ebeam_test

import (
	"testing"

	"github.com/lars-frogner/BifRust/field"
	"github.com/lars-frogner/BifRust/interp"
	"github.com/lars-frogner/BifRust/pipeline/ebeam"
	"github.com/lars-frogner/BifRust/stepper"
	"github.com/lars-frogner/BifRust/swarm"
	"github.com/lars-frogner/BifRust/synth"
	"github.com/lars-frogner/BifRust/trajectory"
	"github.com/lars-frogner/BifRust/vec3"
)

func buildBeamFixture(t *testing.T) (*swarm.Driver[float64], ebeam.Tracer[float64]) {
	t.Helper()
	grid, err := synth.UniformCubeGrid(16, [3]bool{true, true, true})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	vf, err := synth.BuildVectorField("b", grid, synth.UniformFlow(1, 0, 0))
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	bstrength, err := synth.BuildScalarField("bstrength", grid, synth.Linear(0, 1, 0, 0))
	if err != nil {
		t.Fatalf("scalar field: %v", err)
	}
	provider := field.NewStaticProvider[float64](grid)
	provider.AddVectorField(vf)
	provider.AddScalarField(bstrength)

	ip, err := interp.New[float64](interp.DefaultConfig())
	if err != nil {
		t.Fatalf("interpolator: %v", err)
	}
	if err := ip.VerifyGrid(grid); err != nil {
		t.Fatalf("verify grid: %v", err)
	}

	cfg := stepper.DefaultConfig()
	cfg.MaxDistance = 0.2

	tracer := ebeam.Tracer[float64]{
		Direction:         trajectory.Forward,
		Mode:              trajectory.Plain,
		FieldStrengthName: "bstrength",
		Accelerator: ebeam.SimplePowerLawAccelerator{
			PowerLawIndex:          4,
			LowerCutoffEnergy:      1,
			EnergyPerFieldStrength: 10,
		},
		Propagator: ebeam.AnalyticalPropagator{DepositionLengthScale: 0.05},
	}

	d := &swarm.Driver[float64]{
		Seeder:    swarm.SliceSeeder{vec3.New(0.5, 0.5, 0.5)},
		Provider:  provider,
		Interp:    ip,
		Tracer:    tracer,
		FieldName: "b",
		NewStepper: func() (*stepper.Stepper, error) {
			return stepper.NewRKF45(cfg)
		},
	}
	return d, tracer
}

func TestEbeamTracerProducesDepositedEnergySeries(t *testing.T) {
	d, _ := buildBeamFixture(t)
	result, err := d.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.NumberOfFieldLines != 1 {
		t.Fatalf("expected 1 beam, got %d", result.NumberOfFieldLines)
	}
	deposited, ok := result.VaryingScalarValues["deposited_energy"]
	if !ok || len(deposited) != 1 {
		t.Fatalf("expected one deposited_energy series")
	}
	xs := result.VaryingScalarValues["x"][0]
	if len(deposited[0]) != len(xs) {
		t.Fatalf("deposited_energy length %d does not match trajectory length %d", len(deposited[0]), len(xs))
	}
	total, ok := result.FixedScalarValues["total_energy"]
	if !ok || total[0] <= 0 {
		t.Fatalf("expected a positive total_energy, got %v", total)
	}
	var sum float64
	for _, v := range deposited[0] {
		sum += v
	}
	if sum <= 0 {
		t.Fatalf("expected some energy to be deposited along the line")
	}
}

func TestAnalyticalPropagatorMonotonicDecay(t *testing.T) {
	line := newLine(0, 0.01, 0.02, 0.03)
	p := ebeam.AnalyticalPropagator{DepositionLengthScale: 0.01}
	deposited := p.Propagate(line, ebeam.Distribution{TotalEnergy: 1})
	for i := 1; i < len(deposited); i++ {
		if deposited[i] > deposited[i-1] {
			t.Fatalf("expected monotonically non-increasing deposition, got %v", deposited)
		}
	}
}

func newLine(xs ...float64) *trajectory.Trajectory {
	line := trajectory.New()
	for _, x := range xs {
		line.X = append(line.X, x)
		line.Y = append(line.Y, 0)
		line.Z = append(line.Z, 0)
	}
	return line
}
