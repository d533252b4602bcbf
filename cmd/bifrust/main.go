// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/lars-frogner/BifRust/config"
	"github.com/lars-frogner/BifRust/diagnostics"
	"github.com/lars-frogner/BifRust/field"
	"github.com/lars-frogner/BifRust/format"
	"github.com/lars-frogner/BifRust/interp"
	"github.com/lars-frogner/BifRust/pipeline/cork"
	"github.com/lars-frogner/BifRust/pipeline/ebeam"
	"github.com/lars-frogner/BifRust/pipeline/fieldline"
	"github.com/lars-frogner/BifRust/swarm"
)

func main() {

	pipelineName := flag.String("pipeline", "fieldline", "pipeline to run: fieldline, ebeam, or cork")
	steppingScheme := flag.String("stepping-scheme", "", "override the config's stepping scheme: rkf23 or rkf45")
	workers := flag.Int("workers", 0, "swarm worker count; 0 selects GOMAXPROCS")
	verbose := flag.Bool("verbose", false, "print a per-line summary and write a CSV alongside the result")

	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	io.PfWhite("\nBifRust -- electron-beam and field-line tracing over MHD snapshot cubes\n\n")

	flag.Parse()
	if len(flag.Args()) < 1 {
		chk.Panic("Please provide a config file. Ex.: bifrust -pipeline=fieldline config.json")
	}
	cfgPath := flag.Arg(0)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		chk.Panic("%v", err)
	}
	if *steppingScheme != "" {
		cfg.Stepping.Scheme = *steppingScheme
	}
	if *verbose {
		cfg.Output.Verbose = true
	}

	if len(cfg.Snapshots) == 0 {
		chk.Panic("config: at least one snapshot is required")
	}

	var result swarm.FieldLineSetProperties
	switch *pipelineName {
	case "fieldline":
		result, err = runFieldline(cfg, *workers)
	case "ebeam":
		result, err = runEbeam(cfg, *workers)
	case "cork":
		result, err = runCork(cfg)
	default:
		err = chk.Err("unknown pipeline %q, want fieldline, ebeam, or cork", *pipelineName)
	}
	if err != nil {
		chk.Panic("%v", err)
	}

	if err := writeOutput(cfg, &result); err != nil {
		chk.Panic("%v", err)
	}

	if cfg.Output.Verbose {
		io.Pf("traced %d lines\n", result.NumberOfFieldLines)
		for _, row := range diagnostics.Summarize(&result) {
			io.Pf("  line %d: %d points, start=(%.4g,%.4g,%.4g) end=(%.4g,%.4g,%.4g)\n",
				row.Index, row.NumPoints, row.StartX, row.StartY, row.StartZ, row.EndX, row.EndY, row.EndZ)
		}
	}
}

// buildCommon wires the first snapshot's provider, the shared interpolator,
// the stepping-scheme stepper factory, and a seeder over the snapshot's
// grid, the wiring every single-snapshot pipeline (fieldline, ebeam) needs
func buildCommon(cfg *config.Config) (field.Provider[float64], *interp.Interpolator[float64], swarm.StepperFactory, swarm.Seeder, error) {
	provider, err := config.BuildProvider(cfg.Snapshots[0])
	if err != nil {
		return nil, nil, nil, nil, err
	}
	ip, err := interp.New[float64](cfg.Interp)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if err := ip.VerifyGrid(provider.Grid()); err != nil {
		return nil, nil, nil, nil, err
	}
	newStepper, err := config.BuildStepperFactory(cfg.Stepping)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	seeder, err := config.BuildSeeder(cfg.Seeding, provider.Grid())
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return provider, ip, newStepper, seeder, nil
}

// runFieldline wires the fieldline pipeline (SPEC_FULL.md supplemented
// feature 5) from a single-snapshot config
func runFieldline(cfg *config.Config, workers int) (swarm.FieldLineSetProperties, error) {
	provider, ip, newStepper, seeder, err := buildCommon(cfg)
	if err != nil {
		return swarm.FieldLineSetProperties{}, err
	}
	dir, err := config.ParseDirection(cfg.Direction)
	if err != nil {
		return swarm.FieldLineSetProperties{}, err
	}
	mode, err := config.ParseMode(cfg.Mode)
	if err != nil {
		return swarm.FieldLineSetProperties{}, err
	}
	tracer := fieldline.Tracer[float64]{
		Direction:    dir,
		Mode:         mode,
		NmaxSteps:    cfg.NmaxSteps,
		ScalarFields: scalarNames(cfg.Snapshots[0]),
	}
	d := &swarm.Driver[float64]{
		Seeder:     seeder,
		Provider:   provider,
		Interp:     ip,
		Tracer:     tracer,
		NewStepper: newStepper,
		FieldName:  cfg.FieldName,
		Workers:    workers,
		Verbose:    cfg.Output.Verbose,
	}
	return d.Run()
}

// runEbeam wires the electron-beam pipeline (SPEC_FULL.md supplemented
// feature 6) from a single-snapshot config
func runEbeam(cfg *config.Config, workers int) (swarm.FieldLineSetProperties, error) {
	provider, ip, newStepper, seeder, err := buildCommon(cfg)
	if err != nil {
		return swarm.FieldLineSetProperties{}, err
	}
	dir, err := config.ParseDirection(cfg.Direction)
	if err != nil {
		return swarm.FieldLineSetProperties{}, err
	}
	mode, err := config.ParseMode(cfg.Mode)
	if err != nil {
		return swarm.FieldLineSetProperties{}, err
	}
	tracer := ebeam.Tracer[float64]{
		Direction:         dir,
		Mode:              mode,
		NmaxSteps:         cfg.NmaxSteps,
		FieldStrengthName: cfg.FieldStrengthName,
		DensityName:       cfg.DensityName,
		Accelerator: ebeam.SimplePowerLawAccelerator{
			PowerLawIndex:          cfg.PowerLawIndex,
			LowerCutoffEnergy:      cfg.LowerCutoffEnergy,
			EnergyPerFieldStrength: cfg.EnergyPerField,
		},
		Propagator: ebeam.AnalyticalPropagator{DepositionLengthScale: cfg.DepositionScale},
	}
	d := &swarm.Driver[float64]{
		Seeder:     seeder,
		Provider:   provider,
		Interp:     ip,
		Tracer:     tracer,
		NewStepper: newStepper,
		FieldName:  cfg.FieldName,
		Workers:    workers,
		Verbose:    cfg.Output.Verbose,
	}
	return d.Run()
}

// runCork wires the passive-tracer advection pipeline (SPEC_FULL.md
// supplemented feature 4) across every configured snapshot in time order
func runCork(cfg *config.Config) (swarm.FieldLineSetProperties, error) {
	ip, err := interp.New[float64](cfg.Interp)
	if err != nil {
		return swarm.FieldLineSetProperties{}, err
	}
	newStepper, err := config.BuildStepperFactory(cfg.Stepping)
	if err != nil {
		return swarm.FieldLineSetProperties{}, err
	}

	providers := make([]field.Provider[float64], len(cfg.Snapshots))
	for i, s := range cfg.Snapshots {
		p, err := config.BuildProvider(s)
		if err != nil {
			return swarm.FieldLineSetProperties{}, err
		}
		providers[i] = p
		if err := ip.VerifyGrid(p.Grid()); err != nil {
			return swarm.FieldLineSetProperties{}, err
		}
	}
	seeder, err := config.BuildSeeder(cfg.Seeding, providers[0].Grid())
	if err != nil {
		return swarm.FieldLineSetProperties{}, err
	}

	d := &cork.SnapshotSequenceDriver[float64]{
		Providers:  providers,
		Interp:     ip,
		NewStepper: newStepper,
		FieldName:  cfg.FieldName,
		Tracer: cork.Tracer[float64]{
			ScalarFields: cfg.CorkScalarFields,
			VectorFields: cfg.CorkVectorFields,
		},
		InitialSeeder: seeder,
	}
	return d.Run()
}

// scalarNames reports the extra scalar fields configured on one snapshot,
// the fieldline pipeline's recorded-series selection
func scalarNames(s config.SnapshotConfig) []string {
	names := make([]string, len(s.Scalars))
	for i, f := range s.Scalars {
		names[i] = f.Name
	}
	return names
}

// writeOutput encodes result per cfg.Output.Format and, when configured,
// writes the optional diagnostic plot and CSV summary alongside it
func writeOutput(cfg *config.Config, result *swarm.FieldLineSetProperties) error {
	switch cfg.Output.Format {
	case "json":
		if err := format.WriteJSONFile(cfg.Output.Path, result); err != nil {
			return err
		}
	case "h5part":
		if err := format.WriteH5PartFiles(cfg.Output.Path+".traj.h5part", cfg.Output.Path+".seed.h5part", result, true); err != nil {
			return err
		}
	case "binary", "":
		if err := format.WriteBinaryFile(cfg.Output.Path, result, 8); err != nil {
			return err
		}
	default:
		return chk.Err("config: unknown output format %q", cfg.Output.Format)
	}
	if cfg.Output.Verbose {
		if err := diagnostics.WriteSummaryCSV(cfg.Output.Path+".summary.csv", result); err != nil {
			return err
		}
	}
	if cfg.Output.PlotDir != "" {
		if err := diagnostics.PlotTrajectories(cfg.Output.PlotDir, "bifrust_trajectories", result); err != nil {
			return err
		}
	}
	return nil
}
