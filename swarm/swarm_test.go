// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swarm_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lars-frogner/BifRust/field"
	"github.com/lars-frogner/BifRust/geometry"
	"github.com/lars-frogner/BifRust/interp"
	"github.com/lars-frogner/BifRust/pipeline/fieldline"
	"github.com/lars-frogner/BifRust/stepper"
	"github.com/lars-frogner/BifRust/swarm"
	"github.com/lars-frogner/BifRust/synth"
	"github.com/lars-frogner/BifRust/vec3"
)

// arclenTracer wraps fieldline.Tracer and records the traced arc length as
// a fixed scalar, the E4 scenario's tracer behavior.
type arclenTracer struct {
	inner fieldline.Tracer[float64]
}

func (t arclenTracer) Trace(fieldName string, provider field.Provider[float64], ip *interp.Interpolator[float64], newStepper swarm.StepperFactory, start vec3.Vec3) (swarm.TraceData, bool) {
	data, ok := t.inner.Trace(fieldName, provider, ip, newStepper, start)
	if !ok {
		return data, false
	}
	n := len(data.VaryingScalars["x"])
	xs, ys := data.VaryingScalars["x"], data.VaryingScalars["y"]
	arclen := 0.0
	for i := 1; i < n; i++ {
		dx := xs[i] - xs[i-1]
		dy := ys[i] - ys[i-1]
		arclen += math.Hypot(dx, dy)
	}
	data.FixedScalars["arclen"] = arclen
	return data, true
}

func buildSwarmFixture(t *testing.T, n int, maxDistance float64) *swarm.Driver[float64] {
	t.Helper()
	grid, err := synth.UniformCubeGrid(32, [3]bool{true, true, true})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	// a circular flow centered on the grid's midpoint, rather than
	// synth.CircularFlow's origin-centered one, so small-radius seeds stay
	// well clear of the periodic boundary and their traced arc length can
	// be checked against a straight chord-length accumulation.
	centered := func(x, y, z float64) (float64, float64, float64) {
		return -(y - 0.5), x - 0.5, 0
	}
	vf, err := synth.BuildVectorField("flow", grid, centered)
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	provider := field.NewStaticProvider[float64](grid)
	provider.AddVectorField(vf)

	ip, err := interp.New[float64](interp.DefaultConfig())
	if err != nil {
		t.Fatalf("interpolator: %v", err)
	}
	if err := ip.VerifyGrid(grid); err != nil {
		t.Fatalf("verify grid: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	starts := make(swarm.SliceSeeder, n)
	for i := range starts {
		angle := rng.Float64() * 2 * math.Pi
		r := 0.05 + 0.05*rng.Float64()
		starts[i] = vec3.New(0.5+r*math.Cos(angle), 0.5+r*math.Sin(angle), 0.5)
	}

	cfg := stepper.DefaultConfig()
	cfg.MaxDistance = maxDistance
	tracer := arclenTracer{inner: fieldline.Tracer[float64]{}}

	return &swarm.Driver[float64]{
		Seeder:    starts,
		Provider:  provider,
		Interp:    ip,
		Tracer:    tracer,
		FieldName: "flow",
		NewStepper: func() (*stepper.Stepper, error) {
			return stepper.NewRKF45(cfg)
		},
	}
}

// P8: every outer array has length N; varying series agree in length
// within each trajectory; every fixed scalar series has length N.
func TestSwarmReductionInvariants(t *testing.T) {
	n := 50
	d := buildSwarmFixture(t, n, 0.3)
	result, err := d.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.NumberOfFieldLines != n {
		t.Fatalf("expected %d field lines, got %d", n, result.NumberOfFieldLines)
	}
	for name, vals := range result.FixedScalarValues {
		if len(vals) != n {
			t.Fatalf("fixed scalar %q has length %d, want %d", name, len(vals), n)
		}
	}
	for name, vals := range result.FixedVectorValues {
		if len(vals) != n {
			t.Fatalf("fixed vector %q has length %d, want %d", name, len(vals), n)
		}
	}
	xs, ok := result.VaryingScalarValues["x"]
	if !ok || len(xs) != n {
		t.Fatalf("expected varying x series of length %d", n)
	}
	for i := range xs {
		want := len(xs[i])
		for name, outer := range result.VaryingScalarValues {
			if len(outer[i]) != want {
				t.Fatalf("trajectory %d: series %q has length %d, want %d", i, name, len(outer[i]), want)
			}
		}
		for name, outer := range result.VaryingVectorValues {
			if len(outer[i]) != want {
				t.Fatalf("trajectory %d: vector series %q has length %d, want %d", i, name, len(outer[i]), want)
			}
		}
	}
}

// E4: swarm of 1000 seeds on a uniform circular field, tracer returns the
// traversed arc length; the mean should sit within 1% of the configured
// termination cap.
func TestSwarmCircleArcLengthMean(t *testing.T) {
	maxDistance := 0.25
	d := buildSwarmFixture(t, 1000, maxDistance)
	result, err := d.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	arclens, ok := result.FixedScalarValues["arclen"]
	if !ok || len(arclens) != 1000 {
		t.Fatalf("expected 1000 arclen values, got %d (ok=%v)", len(arclens), ok)
	}
	sum := 0.0
	for _, v := range arclens {
		sum += v
	}
	mean := sum / float64(len(arclens))
	if math.Abs(mean-maxDistance)/maxDistance > 0.01 {
		t.Fatalf("mean arc length %v not within 1%% of cap %v", mean, maxDistance)
	}
}
