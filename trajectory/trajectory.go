// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package trajectory implements the growing point sequence produced by one
// stepper run, together with any named scalar/vector series the caller
// chose to accumulate alongside the coordinates (§3 Trajectory, §4.4).
package trajectory

import (
	"github.com/cpmech/gosl/chk"

	"github.com/lars-frogner/BifRust/vec3"
)

// Trajectory is a growing sequence of points plus named series, all kept
// the same length after every accepted step (§3 invariant).
type Trajectory struct {
	X, Y, Z        []float64
	ScalarSeries   map[string][]float64
	VectorSeries   map[string][]vec3.Vec3
	StopReason     string
}

// New returns an empty Trajectory
func New() *Trajectory {
	return &Trajectory{
		ScalarSeries: make(map[string][]float64),
		VectorSeries: make(map[string][]vec3.Vec3),
	}
}

// Len returns the number of points recorded so far
func (t *Trajectory) Len() int { return len(t.X) }

// PushPoint appends p's coordinates to the x,y,z series
func (t *Trajectory) PushPoint(p vec3.Vec3) {
	t.X = append(t.X, p.X)
	t.Y = append(t.Y, p.Y)
	t.Z = append(t.Z, p.Z)
}

// PushScalar appends a value to a named scalar series
func (t *Trajectory) PushScalar(name string, v float64) {
	t.ScalarSeries[name] = append(t.ScalarSeries[name], v)
}

// PushVector appends a value to a named vector series
func (t *Trajectory) PushVector(name string, v vec3.Vec3) {
	t.VectorSeries[name] = append(t.VectorSeries[name], v)
}

// CheckInvariants verifies every series has the trajectory's current
// length, the §3 Trajectory invariant
func (t *Trajectory) CheckInvariants() error {
	n := t.Len()
	for name, s := range t.ScalarSeries {
		if len(s) != n {
			return chk.Err("trajectory scalar series %q has length %d, want %d", name, len(s), n)
		}
	}
	for name, s := range t.VectorSeries {
		if len(s) != n {
			return chk.Err("trajectory vector series %q has length %d, want %d", name, len(s), n)
		}
	}
	return nil
}

// Reverse reverses every series in place, used when concatenating a
// backward half-trace ahead of a forward one (§4.4)
func (t *Trajectory) Reverse() {
	reverseFloats(t.X)
	reverseFloats(t.Y)
	reverseFloats(t.Z)
	for _, s := range t.ScalarSeries {
		reverseFloats(s)
	}
	for _, s := range t.VectorSeries {
		reverseVecs(s)
	}
}

// Append concatenates other onto the end of t
func (t *Trajectory) Append(other *Trajectory) {
	t.X = append(t.X, other.X...)
	t.Y = append(t.Y, other.Y...)
	t.Z = append(t.Z, other.Z...)
	for name, s := range other.ScalarSeries {
		t.ScalarSeries[name] = append(t.ScalarSeries[name], s...)
	}
	for name, s := range other.VectorSeries {
		t.VectorSeries[name] = append(t.VectorSeries[name], s...)
	}
}

func reverseFloats(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseVecs(s []vec3.Vec3) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
