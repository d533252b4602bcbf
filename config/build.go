// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"github.com/cpmech/gosl/chk"

	"github.com/lars-frogner/BifRust/field"
	"github.com/lars-frogner/BifRust/geometry"
	"github.com/lars-frogner/BifRust/seed"
	"github.com/lars-frogner/BifRust/stepper"
	"github.com/lars-frogner/BifRust/swarm"
	"github.com/lars-frogner/BifRust/synth"
	"github.com/lars-frogner/BifRust/trajectory"
	"github.com/lars-frogner/BifRust/vec3"
)

// ParseDirection resolves the Config.Direction string to a trajectory.Direction
func ParseDirection(s string) (trajectory.Direction, error) {
	switch s {
	case "forward", "":
		return trajectory.Forward, nil
	case "both":
		return trajectory.Both, nil
	default:
		return 0, chk.Err("config: unknown direction %q, want forward or both", s)
	}
}

// ParseMode resolves the Config.Mode string to a trajectory.StepMode
func ParseMode(s string) (trajectory.StepMode, error) {
	switch s {
	case "plain", "":
		return trajectory.Plain, nil
	case "dense":
		return trajectory.Dense, nil
	default:
		return 0, chk.Err("config: unknown mode %q, want plain or dense", s)
	}
}

// BuildProvider synthesizes one snapshot's field.Provider from a
// SnapshotConfig, the CLI's stand-in for reading a real snapshot file (out
// of scope per field/field.go's Provider doc comment).
func BuildProvider(s SnapshotConfig) (field.Provider[float64], error) {
	grid, err := synth.UniformCubeGrid(s.Grid.N, s.Grid.Periodic)
	if err != nil {
		return nil, err
	}
	p := field.NewStaticProvider[float64](grid)

	vgen, err := vectorGenerator(s.Vector)
	if err != nil {
		return nil, err
	}
	vf, err := synth.BuildVectorField(s.Vector.Name, grid, vgen)
	if err != nil {
		return nil, err
	}
	p.AddVectorField(vf)

	for _, sc := range s.Scalars {
		sgen, err := scalarGenerator(sc)
		if err != nil {
			return nil, err
		}
		f, err := synth.BuildScalarField(sc.Name, grid, sgen)
		if err != nil {
			return nil, err
		}
		p.AddScalarField(f)
	}
	return p, nil
}

// vectorGenerator resolves a FieldConfig's Generator name to one of synth's
// VectorGenerator constructors
func vectorGenerator(f FieldConfig) (synth.VectorGenerator, error) {
	switch f.Generator {
	case "uniform_flow":
		p, err := floats(f.Params, 3)
		if err != nil {
			return nil, err
		}
		return synth.UniformFlow(p[0], p[1], p[2]), nil
	case "radial_sink":
		return synth.RadialSink(), nil
	case "circular_flow":
		return synth.CircularFlow(), nil
	default:
		return nil, chk.Err("config: unknown vector field generator %q for field %q", f.Generator, f.Name)
	}
}

// scalarGenerator resolves a FieldConfig's Generator name to one of synth's
// ScalarGenerator constructors
func scalarGenerator(f FieldConfig) (synth.ScalarGenerator, error) {
	switch f.Generator {
	case "linear":
		p, err := floats(f.Params, 4)
		if err != nil {
			return nil, err
		}
		return synth.Linear(p[0], p[1], p[2], p[3]), nil
	case "ramped_scalar":
		p, err := floats(f.Params, 3)
		if err != nil {
			return nil, err
		}
		return synth.RampedScalar(int(p[0]), p[1], p[2]), nil
	default:
		return nil, chk.Err("config: unknown scalar field generator %q for field %q", f.Generator, f.Name)
	}
}

func floats(p []float64, n int) ([]float64, error) {
	if len(p) != n {
		return nil, chk.Err("config: generator expects %d params, got %d", n, len(p))
	}
	return p, nil
}

// BuildSeeder resolves a SeedingConfig into a swarm.Seeder over grid's
// extent, dispatching to one of seed's three producers (seed/volume.go,
// seed/manual.go).
func BuildSeeder(sc SeedingConfig, grid *geometry.Grid[float64]) (swarm.Seeder, error) {
	switch sc.Mode {
	case "random":
		return seed.RandomVolumeSeeder(sc.N, sc.Bounds.resolve(grid))
	case "regular":
		nx, ny, nz := sc.Nx, sc.Ny, sc.Nz
		if nx == 0 {
			nx = 1
		}
		if ny == 0 {
			ny = 1
		}
		if nz == 0 {
			nz = 1
		}
		return seed.RegularVolumeSeeder(nx, ny, nz, sc.Bounds.resolve(grid))
	case "manual":
		points := make([]vec3.Vec3, len(sc.Manual))
		for i, p := range sc.Manual {
			points[i] = vec3.New(p[0], p[1], p[2])
		}
		return seed.ManualSites(grid, points)
	default:
		return nil, chk.Err("config: unknown seeding mode %q", sc.Mode)
	}
}

// resolve returns an explicit bounds box, or grid's full extent when b is
// nil (the common case: most configs want the whole snapshot volume)
func (b *BoundsConfig) resolve(grid *geometry.Grid[float64]) seed.VolumeBounds {
	if b == nil {
		return seed.BoundsFromGrid(grid)
	}
	return seed.VolumeBounds{
		Lower: vec3.New(b.Lower[0], b.Lower[1], b.Lower[2]),
		Upper: vec3.New(b.Upper[0], b.Upper[1], b.Upper[2]),
	}
}

// BuildStepperFactory resolves the -stepping-scheme selection (Open
// Question 2) into a swarm.StepperFactory
func BuildStepperFactory(sc SteppingConfig) (swarm.StepperFactory, error) {
	if err := sc.Tuning.Validate(); err != nil {
		return nil, err
	}
	switch sc.Scheme {
	case "rkf23":
		return func() (*stepper.Stepper, error) { return stepper.NewRKF23(sc.Tuning) }, nil
	case "rkf45":
		return func() (*stepper.Stepper, error) { return stepper.NewRKF45(sc.Tuning) }, nil
	default:
		return nil, chk.Err("config: unknown stepping scheme %q, want rkf23 or rkf45", sc.Scheme)
	}
}
