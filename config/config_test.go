// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lars-frogner/BifRust/config"
	"github.com/lars-frogner/BifRust/stepper"
)

const sampleJSON = `{
  "field_name": "v",
  "snapshots": [
    {
      "grid": {"n": 8, "periodic": [true, true, true]},
      "vector": {"name": "v", "generator": "uniform_flow", "params": [1, 0, 0]},
      "scalars": [{"name": "density", "generator": "linear", "params": [0, 0, 0, 2]}]
    }
  ],
  "seeding": {"mode": "random", "n": 5},
  "stepping": {"scheme": "rkf23"},
  "output": {"format": "json", "path": "/tmp/bifrust-test-out"}
}`

func writeSample(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write sample config: %v", err)
	}
	return path
}

func TestLoadJSONAppliesDefaults(t *testing.T) {
	path := writeSample(t, "cfg.json", sampleJSON)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Interp.Order == 0 {
		t.Fatalf("expected interp defaults to be applied")
	}
	if cfg.Stepping.Tuning.DenseStepLength == 0 {
		t.Fatalf("expected stepping tuning defaults to be applied")
	}
	if cfg.Stepping.Scheme != "rkf23" {
		t.Fatalf("expected configured scheme to survive defaulting, got %q", cfg.Stepping.Scheme)
	}
	if cfg.Direction != "forward" || cfg.Mode != "plain" {
		t.Fatalf("expected direction/mode defaults, got %q/%q", cfg.Direction, cfg.Mode)
	}
}

func TestLoadYAMLMatchesJSON(t *testing.T) {
	yamlSample := `
field_name: v
snapshots:
  - grid: {n: 8, periodic: [true, true, true]}
    vector: {name: v, generator: uniform_flow, params: [1, 0, 0]}
seeding: {mode: random, n: 5}
stepping: {scheme: rkf45}
output: {format: binary, path: /tmp/bifrust-test-out}
`
	path := writeSample(t, "cfg.yaml", yamlSample)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FieldName != "v" {
		t.Fatalf("expected field_name to decode from YAML, got %q", cfg.FieldName)
	}
	if cfg.Snapshots[0].Grid.N != 8 {
		t.Fatalf("expected grid.n to decode from YAML, got %d", cfg.Snapshots[0].Grid.N)
	}
}

func TestBuildProviderRejectsUnknownGenerator(t *testing.T) {
	s := config.SnapshotConfig{
		Grid:   config.GridConfig{N: 8, Periodic: [3]bool{true, true, true}},
		Vector: config.FieldConfig{Name: "v", Generator: "not_a_real_generator"},
	}
	if _, err := config.BuildProvider(s); err == nil {
		t.Fatalf("expected an error for an unknown vector generator")
	}
}

func TestBuildProviderWiresScalarsAndVector(t *testing.T) {
	s := config.SnapshotConfig{
		Grid:    config.GridConfig{N: 8, Periodic: [3]bool{true, true, true}},
		Vector:  config.FieldConfig{Name: "v", Generator: "uniform_flow", Params: []float64{1, 0, 0}},
		Scalars: []config.FieldConfig{{Name: "density", Generator: "linear", Params: []float64{0, 0, 0, 2}}},
	}
	p, err := config.BuildProvider(s)
	if err != nil {
		t.Fatalf("build provider: %v", err)
	}
	if _, err := p.ProvideVectorField("v"); err != nil {
		t.Fatalf("expected vector field v: %v", err)
	}
	if _, err := p.ProvideScalarField("density"); err != nil {
		t.Fatalf("expected scalar field density: %v", err)
	}
}

func TestBuildSeederDispatchesByMode(t *testing.T) {
	s := config.SnapshotConfig{
		Grid:   config.GridConfig{N: 8, Periodic: [3]bool{true, true, true}},
		Vector: config.FieldConfig{Name: "v", Generator: "uniform_flow", Params: []float64{1, 0, 0}},
	}
	p, err := config.BuildProvider(s)
	if err != nil {
		t.Fatalf("build provider: %v", err)
	}
	seeder, err := config.BuildSeeder(config.SeedingConfig{Mode: "regular", Nx: 2, Ny: 2, Nz: 2}, p.Grid())
	if err != nil {
		t.Fatalf("build seeder: %v", err)
	}
	if seeder.Len() != 8 {
		t.Fatalf("expected 2x2x2=8 seeds, got %d", seeder.Len())
	}
}

func TestBuildStepperFactoryRejectsUnknownScheme(t *testing.T) {
	_, err := config.BuildStepperFactory(config.SteppingConfig{Scheme: "euler", Tuning: stepper.DefaultConfig()})
	if err == nil {
		t.Fatalf("expected an error for an unknown stepping scheme")
	}
}

func TestBuildStepperFactoryBuildsConfiguredScheme(t *testing.T) {
	factory, err := config.BuildStepperFactory(config.SteppingConfig{Scheme: "rkf23", Tuning: stepper.DefaultConfig()})
	if err != nil {
		t.Fatalf("build stepper factory: %v", err)
	}
	if _, err := factory(); err != nil {
		t.Fatalf("factory: %v", err)
	}
}
