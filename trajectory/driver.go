// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trajectory

import (
	"github.com/cpmech/gosl/chk"

	"github.com/lars-frogner/BifRust/stepper"
	"github.com/lars-frogner/BifRust/vec3"
)

// StepMode selects which of the stepper's two step entry points the driver
// uses (§4.3.7)
type StepMode int

const (
	// Plain fires the callback once per accepted point
	Plain StepMode = iota
	// Dense fires the callback at every dense-output checkpoint plus the
	// accepted point
	Dense
)

// Direction selects whether the driver traces one way from the seed or
// both (§4.4)
type Direction int

const (
	Forward Direction = iota
	Both
)

// ScalarSample is an extra named scalar series evaluated at every recorded
// point, e.g. a density or temperature field sampled alongside the
// coordinates.
type ScalarSample struct {
	Name   string
	Sample func(p vec3.Vec3) (float64, bool)
}

// VectorSample is an extra named vector series evaluated at every recorded
// point.
type VectorSample struct {
	Name   string
	Sample func(p vec3.Vec3) (vec3.Vec3, bool)
}

// Driver composes a stepper, a grid wrapper, a vector field sampler and any
// number of extra sampled series into the per-trajectory integration loop
// (§4.4). NmaxSteps bounds the number of accepted steps per direction as a
// defensive cap (0 disables it), mirroring the teacher's NmaxIt guard on
// its own iterative solver (inp.SolverData.NmaxIt).
type Driver struct {
	Stepper       *stepper.Stepper
	Grid          stepper.GridWrapper
	Field         stepper.VectorSampler
	Mode          StepMode
	ScalarSamples []ScalarSample
	VectorSamples []VectorSample
	NmaxSteps     int
}

// Outcome is the per-trajectory result handed back to the swarm reducer
type Outcome struct {
	Trajectory  *Trajectory
	Termination stepper.Termination
}

// Run traces one trajectory starting at p0 (§4.4). For dir==Both it runs
// the forward half, then a second stepper instance with reversed direction,
// concatenating the reversed-backward half ahead of the forward one.
func (d *Driver) Run(p0 vec3.Vec3, dir Direction) (Outcome, error) {
	forward, err := d.runOneWay(p0, d.Stepper)
	if err != nil {
		return Outcome{}, err
	}
	if dir == Forward {
		return forward, nil
	}

	backStepper := *d.Stepper // shallow copy: fresh State, same Config/method
	backStepper.State = stepper.State{}
	backStepper.ReverseDirection()
	backward, err := d.runOneWay(p0, &backStepper)
	if err != nil {
		return Outcome{}, err
	}

	backward.Trajectory.Reverse()
	backward.Trajectory.Append(forward.Trajectory)
	return Outcome{Trajectory: backward.Trajectory, Termination: forward.Termination}, nil
}

func (d *Driver) runOneWay(p0 vec3.Vec3, s *stepper.Stepper) (Outcome, error) {
	tr := New()

	record := func(p vec3.Vec3) stepper.CallbackAction {
		tr.PushPoint(p)
		for _, ss := range d.ScalarSamples {
			v, ok := ss.Sample(p)
			if !ok {
				v = 0
			}
			tr.PushScalar(ss.Name, v)
		}
		for _, vs := range d.VectorSamples {
			v, ok := vs.Sample(p)
			if !ok {
				v = vec3.Zero
			}
			tr.PushVector(vs.Name, v)
		}
		return stepper.Continue
	}

	res := s.Place(d.Field, p0, record)
	if res.Stopped {
		tr.StopReason = res.Termination.String()
		if err := tr.CheckInvariants(); err != nil {
			return Outcome{}, err
		}
		return Outcome{Trajectory: tr, Termination: res.Termination}, nil
	}

	steps := 0
	for {
		if d.NmaxSteps > 0 && steps >= d.NmaxSteps {
			tr.StopReason = "max_steps_reached"
			break
		}
		var stepRes stepper.Result
		switch d.Mode {
		case Dense:
			stepRes = s.StepDenseOutput(d.Grid, d.Field, record)
		default:
			stepRes = s.Step(d.Grid, d.Field, record)
		}
		steps++
		if stepRes.Stopped {
			tr.StopReason = stepRes.Termination.String()
			if err := tr.CheckInvariants(); err != nil {
				return Outcome{}, err
			}
			return Outcome{Trajectory: tr, Termination: stepRes.Termination}, nil
		}
	}
	if err := tr.CheckInvariants(); err != nil {
		return Outcome{}, err
	}
	return Outcome{Trajectory: tr, Termination: stepper.Continuing}, nil
}

// Validate checks the driver is fully wired before use
func (d *Driver) Validate() error {
	if d.Stepper == nil {
		return chk.Err("trajectory driver: Stepper is required")
	}
	if d.Grid == nil {
		return chk.Err("trajectory driver: Grid is required")
	}
	if d.Field == nil {
		return chk.Err("trajectory driver: Field is required")
	}
	return nil
}
