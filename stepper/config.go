// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package stepper implements the adaptive Runge-Kutta-Fehlberg state
// machine (§4.3): two embedded pairs (RKF23, RKF45) sharing one error
// control policy, sink detector and cubic-Hermite dense-output strategy.
// The stepper never touches storage precision or the grid directly; it is
// driven entirely through the ScalarSampler/VectorSampler interfaces,
// matching the teacher's "cyclic references" design note (§9): no
// reference to the field is held between calls.
package stepper

import (
	"github.com/cpmech/gosl/chk"

	"github.com/lars-frogner/BifRust/vec3"
)

// ScalarSampler samples a scalar field at a point in tracing precision
type ScalarSampler interface {
	Sample(p vec3.Vec3) (value float64, inside bool)
}

// VectorSampler samples a vector field at a point in tracing precision
type VectorSampler interface {
	Sample(p vec3.Vec3) (value vec3.Vec3, inside bool)
}

// Config holds the RKF stepper's tuning parameters (§4.3.1)
type Config struct {
	DenseStepLength        float64 `json:"dense_step_length"`         // arc-length spacing of dense output
	MaxStepAttempts        int     `json:"max_step_attempts"`         // per-step retry budget
	AbsoluteTolerance      float64 `json:"absolute_tolerance"`        // absolute error tolerance
	RelativeTolerance      float64 `json:"relative_tolerance"`        // relative error tolerance
	SafetyFactor           float64 `json:"safety_factor"`             // step-scale safety factor
	MinStepScale           float64 `json:"min_step_scale"`            // lower clamp on step_size scale
	MaxStepScale           float64 `json:"max_step_scale"`            // upper clamp on step_size scale
	InitialError           float64 `json:"initial_error"`             // seed value for PI control's prev_err
	InitialStepLength      float64 `json:"initial_step_length"`       // first trial step size
	SuddenReversalsForSink int     `json:"sudden_reversals_for_sink"` // consecutive reversals before declaring a sink
	UsePIControl           bool    `json:"use_pi_control"`             // proportional-integral step control
	MinAbsoluteStepSize    float64 `json:"min_absolute_step_size"`    // 0 disables
	MaxAbsoluteStepSize    float64 `json:"max_absolute_step_size"`    // 0 disables
	MaxDistance            float64 `json:"max_distance"`              // 0 disables the arc-length cap
}

// DefaultConfig returns the spec's default RKF configuration (§4.3.1)
func DefaultConfig() Config {
	return Config{
		DenseStepLength:        0.01,
		MaxStepAttempts:        16,
		AbsoluteTolerance:      1e-6,
		RelativeTolerance:      1e-6,
		SafetyFactor:           0.9,
		MinStepScale:           0.2,
		MaxStepScale:           10.0,
		InitialError:           1e-4,
		InitialStepLength:      1e-4,
		SuddenReversalsForSink: 3,
		UsePIControl:           true,
	}
}

// Validate checks Config's bounds (§4.3.1)
func (c Config) Validate() error {
	positive := map[string]float64{
		"dense_step_length":   c.DenseStepLength,
		"absolute_tolerance":  c.AbsoluteTolerance,
		"relative_tolerance":  c.RelativeTolerance,
		"safety_factor":       c.SafetyFactor,
		"min_step_scale":      c.MinStepScale,
		"max_step_scale":      c.MaxStepScale,
		"initial_error":       c.InitialError,
		"initial_step_length": c.InitialStepLength,
	}
	for name, v := range positive {
		if v <= 0 {
			return chk.Err("stepper config: %s must be strictly positive; got %v", name, v)
		}
	}
	if c.MaxStepAttempts < 1 {
		return chk.Err("stepper config: max_step_attempts must be >= 1; got %d", c.MaxStepAttempts)
	}
	if !(c.MinStepScale < 1 && 1 < c.MaxStepScale) {
		return chk.Err("stepper config: need min_step_scale < 1 < max_step_scale; got %v, %v", c.MinStepScale, c.MaxStepScale)
	}
	if c.SuddenReversalsForSink < 1 {
		return chk.Err("stepper config: sudden_reversals_for_sink must be >= 1; got %d", c.SuddenReversalsForSink)
	}
	return nil
}
