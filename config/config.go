// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package config implements the JSON/YAML input-file decoding the
// cmd/bifrust CLI reads before wiring any pipeline, grounded on
// inp.ReadSim's read-file-then-unmarshal-then-apply-defaults pattern
// (inp/sim.go). No real snapshot reader exists (field.Provider's
// implementations are in-memory only, per field/field.go), so a Config
// describes a synthetic snapshot sequence built from the synth package
// rather than a path to an external mesh file.
package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"
	"gopkg.in/yaml.v3"

	"encoding/json"

	"github.com/lars-frogner/BifRust/interp"
	"github.com/lars-frogner/BifRust/stepper"
)

// GridConfig describes one synth.UniformCubeGrid
type GridConfig struct {
	N        int     `json:"n" yaml:"n"`               // cells per axis
	Periodic [3]bool `json:"periodic" yaml:"periodic"` // per-axis periodicity
}

// FieldConfig names one analytic field and the parameters its generator
// takes, keyed to the synth.ScalarGenerator/VectorGenerator constructors
type FieldConfig struct {
	Name      string    `json:"name" yaml:"name"`
	Generator string    `json:"generator" yaml:"generator"` // "uniform_flow", "radial_sink", "circular_flow", "linear", "ramped_scalar"
	Params    []float64 `json:"params" yaml:"params"`
}

// SnapshotConfig is one time slice of a synthetic field set: the vector
// field the tracer follows and any extra scalar fields recorded along the
// way (§4.2's "additional scalar quantities sampled at each point").
type SnapshotConfig struct {
	Grid    GridConfig    `json:"grid" yaml:"grid"`
	Vector  FieldConfig   `json:"vector" yaml:"vector"`
	Scalars []FieldConfig `json:"scalars" yaml:"scalars"`
}

// SeedingConfig selects one of the three seeding capabilities (random
// volume, regular lattice, manual sites), grounded on seed/volume.go and
// seed/manual.go.
type SeedingConfig struct {
	Mode    string      `json:"mode" yaml:"mode"` // "random", "regular", "manual"
	N       int         `json:"n" yaml:"n"`        // random mode's point count
	Nx      int         `json:"nx" yaml:"nx"`      // regular mode's lattice shape
	Ny      int         `json:"ny" yaml:"ny"`
	Nz      int         `json:"nz" yaml:"nz"`
	Bounds  *BoundsConfig `json:"bounds" yaml:"bounds"` // nil selects the grid's full extent
	Manual  [][3]float64  `json:"manual" yaml:"manual"` // manual mode's query points
}

// BoundsConfig is an explicit axis-aligned sub-box, overriding a seeder's
// default of the whole grid extent
type BoundsConfig struct {
	Lower [3]float64 `json:"lower" yaml:"lower"`
	Upper [3]float64 `json:"upper" yaml:"upper"`
}

// SteppingConfig wraps stepper.Config with the scheme selector the CLI's
// -stepping-scheme flag resolves (SPEC_FULL.md Open Question 2)
type SteppingConfig struct {
	Scheme string        `json:"scheme" yaml:"scheme"` // "rkf23" or "rkf45"
	Tuning stepper.Config `json:"tuning" yaml:"tuning"`
}

// Config is the full decoded input file for any of the three pipelines.
// Every pipeline reads the fields it needs and ignores the rest, the same
// permissive shape inp.Simulation uses for its per-element-type data.
type Config struct {
	Snapshots []SnapshotConfig `json:"snapshots" yaml:"snapshots"` // one entry for fieldline/ebeam, N in time order for cork
	Interp    interp.Config    `json:"interp" yaml:"interp"`
	Stepping  SteppingConfig   `json:"stepping" yaml:"stepping"`
	Seeding   SeedingConfig    `json:"seeding" yaml:"seeding"`

	FieldName string `json:"field_name" yaml:"field_name"` // traced vector field's name
	Direction string `json:"direction" yaml:"direction"`   // "forward" or "both"; fieldline/ebeam only
	Mode      string `json:"mode" yaml:"mode"`             // "plain" or "dense"; fieldline/ebeam only
	NmaxSteps int    `json:"nmax_steps" yaml:"nmax_steps"` // 0 disables the step-count cap

	// ebeam-only
	FieldStrengthName string  `json:"field_strength_name" yaml:"field_strength_name"`
	DensityName       string  `json:"density_name" yaml:"density_name"`
	PowerLawIndex     float64 `json:"power_law_index" yaml:"power_law_index"`
	LowerCutoffEnergy float64 `json:"lower_cutoff_energy" yaml:"lower_cutoff_energy"`
	EnergyPerField    float64 `json:"energy_per_field_strength" yaml:"energy_per_field_strength"`
	DepositionScale   float64 `json:"deposition_length_scale" yaml:"deposition_length_scale"`

	// cork-only
	CorkScalarFields []string `json:"cork_scalar_fields" yaml:"cork_scalar_fields"`
	CorkVectorFields []string `json:"cork_vector_fields" yaml:"cork_vector_fields"`

	Output OutputConfig `json:"output" yaml:"output"`
}

// OutputConfig selects the result encoding (§6/§7) and where to write it
type OutputConfig struct {
	Format string `json:"format" yaml:"format"` // "binary", "json", "h5part"
	Path   string `json:"path" yaml:"path"`     // binary/json: one file; h5part: path prefix
	Verbose bool  `json:"verbose" yaml:"verbose"`
	PlotDir string `json:"plot_dir" yaml:"plot_dir"` // non-empty enables diagnostics.PlotTrajectories
}

// Load reads and decodes a config file, choosing YAML or JSON by extension
// the way inp.ReadSim chooses gob/json by the simulation's Encoder field,
// except here the caller doesn't have to say which: .yaml/.yml is YAML,
// anything else is JSON.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("config: cannot read %q: %v", path, err)
	}
	var cfg Config
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, chk.Err("config: cannot parse YAML %q: %v", path, err)
		}
	} else {
		if err := json.Unmarshal(b, &cfg); err != nil {
			return nil, chk.Err("config: cannot parse JSON %q: %v", path, err)
		}
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills in defaults the same way inp.ReadSim calls
// Solver.SetDefault/LinSol.SetDefault before decoding. Blocks are replaced
// whole: a zero Interp.Order replaces the entire Interp block with
// interp.DefaultConfig(), and a zero Tuning.DenseStepLength replaces the
// entire stepping Tuning block with stepper.DefaultConfig(), keeping only a
// non-zero MaxDistance; other zero tuning knobs are not filled one by one.
func (c *Config) applyDefaults() {
	if c.Interp.Order == 0 {
		c.Interp = interp.DefaultConfig()
	}
	if isZero(c.Stepping.Tuning.DenseStepLength) {
		dflt := stepper.DefaultConfig()
		if c.Stepping.Tuning.MaxDistance != 0 {
			dflt.MaxDistance = c.Stepping.Tuning.MaxDistance
		}
		c.Stepping.Tuning = dflt
	}
	if c.Stepping.Scheme == "" {
		c.Stepping.Scheme = "rkf45"
	}
	if c.Seeding.Mode == "" {
		c.Seeding.Mode = "random"
	}
	if c.Seeding.N == 0 {
		c.Seeding.N = 1
	}
	if c.Direction == "" {
		c.Direction = "forward"
	}
	if c.Mode == "" {
		c.Mode = "plain"
	}
}

// isZero reports whether x is indistinguishable from zero within gosl's
// shared floating-point tolerance, the same num.EPS the teacher's
// nonlinear solvers use as a default Newton tolerance (msolid/hyperelast1.go).
func isZero(x float64) bool {
	return math.Abs(x) < num.EPS
}
