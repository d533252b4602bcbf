// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stepper

import (
	"math"

	"github.com/lars-frogner/BifRust/vec3"
)

// Termination enumerates why a trajectory stopped (§4.3.8)
type Termination int

const (
	// Continuing indicates the stepper has not stopped
	Continuing Termination = iota
	OutOfBounds
	TooManyAttempts
	Sink
	StoppedByCallback
	MaxDistanceReached
)

func (t Termination) String() string {
	switch t {
	case Continuing:
		return "continuing"
	case OutOfBounds:
		return "out_of_bounds"
	case TooManyAttempts:
		return "too_many_attempts"
	case Sink:
		return "sink"
	case StoppedByCallback:
		return "stopped_by_callback"
	case MaxDistanceReached:
		return "max_distance_reached"
	default:
		return "unknown"
	}
}

// Result is the outcome of one step call: either Continuing (accepted
// step(s) were taken, or dense output emitted, without hitting a
// termination condition) or Stopped(kind).
type Result struct {
	Stopped     bool
	Termination Termination
}

// ok builds a non-stopped Result
func ok() Result { return Result{} }

// stop builds a Stopped Result
func stop(kind Termination) Result { return Result{Stopped: true, Termination: kind} }

// CallbackAction is returned by a per-point callback to control whether
// the trajectory continues
type CallbackAction int

const (
	Continue CallbackAction = iota
	Terminate
)

// Callback is invoked once per accepted (or dense-output) point
type Callback func(p vec3.Vec3) CallbackAction

// Stepper drives one embedded RKF pair (§4.3)
type Stepper struct {
	cfg     Config
	method  tableau
	State   State
	reverse bool // reverse_direction() toggle, §4.4
}

// NewRKF23 returns a Stepper using the Bogacki-Shampine 3(2) pair
func NewRKF23(cfg Config) (*Stepper, error) {
	return newStepper(cfg, rkf23Tableau)
}

// NewRKF45 returns a Stepper using the Cash-Karp 5(4) pair
func NewRKF45(cfg Config) (*Stepper, error) {
	return newStepper(cfg, rkf45Tableau)
}

func newStepper(cfg Config, method tableau) (*Stepper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Stepper{cfg: cfg, method: method}, nil
}

// ReverseDirection flips the sign of the sampled direction, used by the
// trajectory driver to trace the backward half of a two-sided trace
// (§4.4).
func (s *Stepper) ReverseDirection() {
	s.reverse = !s.reverse
}

func (s *Stepper) sampledDirection(vf VectorSampler, p vec3.Vec3) (vec3.Vec3, bool) {
	d, inside := vf.Sample(p)
	if !inside {
		return vec3.Zero, false
	}
	d = d.Normalize()
	if s.reverse {
		d = d.Scale(-1)
	}
	return d, true
}

// Place sets the stepper's initial state at p0, per §4.3.6. It returns
// Stopped(OutOfBounds) if the field cannot be sampled at p0.
func (s *Stepper) Place(vf VectorSampler, p0 vec3.Vec3, cb Callback) Result {
	d, inside := s.sampledDirection(vf, p0)
	if !inside {
		return stop(OutOfBounds)
	}
	s.State = State{
		Position:           p0,
		Direction:           d,
		Distance:            0,
		StepSize:            s.cfg.InitialStepLength,
		Error:               s.cfg.InitialError,
		NextOutputDistance:  s.cfg.DenseStepLength,
		placed:              true,
	}
	if cb(p0) == Terminate {
		return stop(StoppedByCallback)
	}
	return ok()
}

// attemptOutcome is the internal result of one step-attempt cycle
type attemptOutcome int

const (
	accepted attemptOutcome = iota
	rejected
	outOfBounds
)

// attempt performs one step attempt at the current state with trial step
// h, returning the candidate next position/direction/displacement and the
// scaled error norm (§4.3.2-4.3.3).
func (s *Stepper) attempt(gw GridWrapper, vf VectorSampler, h float64) (attemptOutcome, vec3.Vec3, vec3.Vec3, vec3.Vec3, bool, float64, []vec3.Vec3) {
	x := s.State.Position
	m := s.method
	ks := make([]vec3.Vec3, m.stages)
	ks[0] = s.State.Direction
	for i := 1; i < m.stages; i++ {
		xi := x
		for j := 0; j < i; j++ {
			aij := m.a[i][j]
			if aij == 0 {
				continue
			}
			xi = xi.AddScaled(h*aij, ks[j])
		}
		d, inside := s.sampledDirection(vf, xi)
		if !inside {
			return outOfBounds, vec3.Zero, vec3.Zero, vec3.Zero, false, 0, ks
		}
		ks[i] = d
	}

	displacement := vec3.Zero
	for i := 0; i < m.stages; i++ {
		if m.b[i] == 0 {
			continue
		}
		displacement = displacement.AddScaled(h*m.b[i], ks[i])
	}
	candidate := x.AddScaled(1, displacement)

	wrapped, ok := gw.WrapVec3(candidate)
	wasWrapped := wrapped != candidate
	if !ok {
		return outOfBounds, vec3.Zero, vec3.Zero, vec3.Zero, false, 0, ks
	}

	nextDir, inside := s.sampledDirection(vf, wrapped)
	if !inside {
		return outOfBounds, vec3.Zero, vec3.Zero, vec3.Zero, false, 0, ks
	}

	errEst := [3]float64{}
	for i := 0; i < m.stages; i++ {
		ei := m.e[i]
		if ei == 0 {
			continue
		}
		errEst[0] += h * ei * ks[i].X
		errEst[1] += h * ei * ks[i].Y
		errEst[2] += h * ei * ks[i].Z
	}
	sum := 0.0
	xc := [3]float64{x.X, x.Y, x.Z}
	xnc := [3]float64{candidate.X, candidate.Y, candidate.Z}
	for c := 0; c < 3; c++ {
		scale := s.cfg.AbsoluteTolerance + s.cfg.RelativeTolerance*math.Max(math.Abs(xc[c]), math.Abs(xnc[c]))
		term := errEst[c] / scale
		sum += term * term
	}
	errNorm := math.Sqrt(sum / 3.0)

	if errNorm > 1 {
		return rejected, wrapped, nextDir, displacement, wasWrapped, errNorm, ks
	}
	return accepted, wrapped, nextDir, displacement, wasWrapped, errNorm, ks
}

// nextStepScale applies §4.3.3's step-scaling policy
func (s *Stepper) nextStepScale(errNorm float64) float64 {
	p := float64(s.method.order)
	var scale float64
	if s.cfg.UsePIControl {
		alpha := 0.7 / p
		beta := 0.4 / p
		prevErr := s.State.Error
		if prevErr < 1e-4 {
			prevErr = 1e-4
		}
		scale = s.cfg.SafetyFactor * math.Pow(errNorm, -alpha) * math.Pow(prevErr, beta)
	} else {
		scale = s.cfg.SafetyFactor * math.Pow(errNorm, -1/p)
	}
	if scale < s.cfg.MinStepScale {
		scale = s.cfg.MinStepScale
	}
	if scale > s.cfg.MaxStepScale {
		scale = s.cfg.MaxStepScale
	}
	return scale
}

func (s *Stepper) clampAbsoluteStep(h float64) float64 {
	if s.cfg.MinAbsoluteStepSize > 0 && h < s.cfg.MinAbsoluteStepSize {
		h = s.cfg.MinAbsoluteStepSize
	}
	if s.cfg.MaxAbsoluteStepSize > 0 && h > s.cfg.MaxAbsoluteStepSize {
		h = s.cfg.MaxAbsoluteStepSize
	}
	return h
}

// runStepAttempts performs the attempt/accept/reject loop (§4.3.2-4.3.3),
// returning the accepted candidate and updating s.State.StepSize/Error for
// the *next* trial, or a Stopped result on exhaustion/out-of-bounds.
func (s *Stepper) runStepAttempts(gw GridWrapper, vf VectorSampler) (Result, vec3.Vec3, vec3.Vec3, vec3.Vec3, bool, float64) {
	h := s.State.StepSize
	for attemptN := 0; attemptN < s.cfg.MaxStepAttempts; attemptN++ {
		outcome, candidate, nextDir, displacement, wasWrapped, errNorm, ks := s.attempt(gw, vf, h)
		switch outcome {
		case outOfBounds:
			return stop(OutOfBounds), vec3.Zero, vec3.Zero, vec3.Zero, false, 0
		case rejected:
			scale := s.nextStepScale(errNorm)
			h = s.clampAbsoluteStep(h * scale)
			continue
		case accepted:
			s.State.intermediateDirections = ks
			usedH := h
			scale := s.nextStepScale(errNorm)
			s.State.Error = errNorm
			s.State.StepSize = s.clampAbsoluteStep(h * scale)
			return ok(), candidate, nextDir, displacement, wasWrapped, usedH
		}
	}
	return stop(TooManyAttempts), vec3.Zero, vec3.Zero, vec3.Zero, false, 0
}

// checkSink updates the sudden-reversal counter and reports Sink once the
// configured threshold is reached (§4.3.4)
func (s *Stepper) checkSink(prevDir, newDir vec3.Vec3) bool {
	if prevDir.Dot(newDir) < 0 {
		s.State.nSuddenReversals++
	} else {
		s.State.nSuddenReversals = 0
	}
	return s.State.nSuddenReversals >= s.cfg.SuddenReversalsForSink
}

// Step performs one attempt-accept cycle and fires cb once on the accepted
// point (§4.3.7, plain mode).
func (s *Stepper) Step(gw GridWrapper, vf VectorSampler, cb Callback) Result {
	return s.step(gw, vf, cb, false)
}

// StepDenseOutput performs one attempt-accept cycle, then fires cb at
// every dense-output checkpoint inside the accepted interval before firing
// it at the accepted point itself (§4.3.5, §4.3.7).
func (s *Stepper) StepDenseOutput(gw GridWrapper, vf VectorSampler, cb Callback) Result {
	return s.step(gw, vf, cb, true)
}

func (s *Stepper) step(gw GridWrapper, vf VectorSampler, cb Callback, dense bool) Result {
	if !s.State.placed {
		return stop(OutOfBounds)
	}
	if s.cfg.MaxDistance > 0 && s.State.Distance >= s.cfg.MaxDistance {
		return stop(MaxDistanceReached)
	}

	res, candidate, nextDir, displacement, wasWrapped, usedH := s.runStepAttempts(gw, vf)
	if res.Stopped {
		return res
	}

	s0 := s.State.Distance
	s1 := s0 + usedH

	if dense {
		if action := s.emitDenseOutput(gw, s0, s1, displacement, s.State.Direction, nextDir, wasWrapped, cb); action == Terminate {
			s.commitAcceptedStep(candidate, nextDir, displacement, wasWrapped, s1)
			return stop(StoppedByCallback)
		}
	}

	reversed := s.checkSink(s.State.Direction, nextDir)
	s.commitAcceptedStep(candidate, nextDir, displacement, wasWrapped, s1)

	// the final accepted point is always handed to the callback, whatever
	// termination condition is subsequently raised, so the trajectory
	// driver's accumulator keeps the point that triggered termination
	if cb(s.State.Position) == Terminate {
		return stop(StoppedByCallback)
	}
	if s.cfg.MaxDistance > 0 && s.State.Distance >= s.cfg.MaxDistance {
		return stop(MaxDistanceReached)
	}
	if reversed {
		return stop(Sink)
	}
	return ok()
}

func (s *Stepper) commitAcceptedStep(candidate, nextDir, displacement vec3.Vec3, wasWrapped bool, s1 float64) {
	s.State.PreviousPosition = s.State.Position
	s.State.PreviousDirection = s.State.Direction
	s.State.PreviousStepSize = s1 - s.State.Distance
	s.State.PreviousStepDisplacement = displacement
	s.State.PreviousStepWrapped = wasWrapped
	s.State.Position = candidate
	s.State.Direction = nextDir
	s.State.Distance = s1
}

// emitDenseOutput emits every dense-output checkpoint strictly inside
// (s0, s1) using the cubic Hermite interpolant (§4.3.5); the accepted point
// at s1 is emitted afterwards by the caller. Re-wraps each emitted point when
// the accepted step wrapped. Returns Terminate if the callback asked to
// stop early.
func (s *Stepper) emitDenseOutput(gw GridWrapper, s0, s1 float64, displacement, d0, d1 vec3.Vec3, wasWrapped bool, cb Callback) CallbackAction {
	step := s.cfg.DenseStepLength
	h := s1 - s0
	if h <= 0 {
		return Continue
	}
	first := math.Floor(s0/step+1) * step
	for sCheckpoint := first; sCheckpoint < s1-1e-12; sCheckpoint += step {
		theta := (sCheckpoint - s0) / h
		p := hermite(s.State.Position, displacement, d0, d1, h, theta)
		if wasWrapped {
			if wrapped, ok := gw.WrapVec3(p); ok {
				p = wrapped
			}
		}
		if cb(p) == Terminate {
			return Terminate
		}
	}
	return Continue
}

// hermite evaluates the cubic Hermite dense-output polynomial (§4.3.5)
func hermite(x0, displacement, d0, d1 vec3.Vec3, h, theta float64) vec3.Vec3 {
	// P(theta) = x0 + theta*Delta + theta*(theta-1)*[ -(2theta-1)*Delta + (theta-1)*h*d0 + theta*h*d1 ]
	bracket := displacement.Scale(-(2*theta - 1)).
		Add(d0.Scale((theta - 1) * h)).
		Add(d1.Scale(theta * h))
	return x0.AddScaled(theta, displacement).AddScaled(theta*(theta-1), bracket)
}
