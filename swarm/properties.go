// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swarm

import "github.com/lars-frogner/BifRust/vec3"

// FieldLineSetProperties is the swarm fan-out's columnar result (§3)
type FieldLineSetProperties struct {
	NumberOfFieldLines  int
	FixedScalarValues   map[string][]float64
	FixedVectorValues   map[string][]vec3.Vec3
	VaryingScalarValues map[string][][]float64
	VaryingVectorValues map[string][][]vec3.Vec3
}

// empty returns a zero-trajectory FieldLineSetProperties with all maps
// allocated
func empty() FieldLineSetProperties {
	return FieldLineSetProperties{
		FixedScalarValues:   make(map[string][]float64),
		FixedVectorValues:   make(map[string][]vec3.Vec3),
		VaryingScalarValues: make(map[string][][]float64),
		VaryingVectorValues: make(map[string][][]vec3.Vec3),
	}
}

// localAccumulator mirrors the output schema for one worker (§4.5 "a
// per-thread local accumulator mirrors the output schema"); it exclusively
// owns its slice of trajectories until finalize merges it into the
// FieldLineSetProperties shape.
type localAccumulator struct {
	entries []TraceData
	lengths []int // canonical per-trajectory length, used to pad missing varying keys
}

func newLocalAccumulator() *localAccumulator {
	return &localAccumulator{}
}

// add records one trajectory's TraceData
func (a *localAccumulator) add(d TraceData) {
	a.entries = append(a.entries, d)
	a.lengths = append(a.lengths, canonicalLength(d))
}

// canonicalLength picks the length every varying series in a trajectory
// must agree with, preferring the "x" series per the §3 invariant that
// every trajectory has at least x, y, z among varying_scalar_values.
func canonicalLength(d TraceData) int {
	if xs, ok := d.VaryingScalars["x"]; ok {
		return len(xs)
	}
	for _, s := range d.VaryingScalars {
		return len(s)
	}
	for _, v := range d.VaryingVectors {
		return len(v)
	}
	return 0
}

// finalize reduces the local accumulator into one FieldLineSetProperties,
// padding any key absent from a given trajectory's TraceData with the
// per-trajectory default of matching inner length (§4.5 reduction algebra).
func (a *localAccumulator) finalize() FieldLineSetProperties {
	out := empty()
	out.NumberOfFieldLines = len(a.entries)

	fixedScalarKeys := map[string]bool{}
	fixedVectorKeys := map[string]bool{}
	varyingScalarKeys := map[string]bool{}
	varyingVectorKeys := map[string]bool{}
	for _, e := range a.entries {
		for k := range e.FixedScalars {
			fixedScalarKeys[k] = true
		}
		for k := range e.FixedVectors {
			fixedVectorKeys[k] = true
		}
		for k := range e.VaryingScalars {
			varyingScalarKeys[k] = true
		}
		for k := range e.VaryingVectors {
			varyingVectorKeys[k] = true
		}
	}

	for k := range fixedScalarKeys {
		vals := make([]float64, len(a.entries))
		for i, e := range a.entries {
			vals[i] = e.FixedScalars[k]
		}
		out.FixedScalarValues[k] = vals
	}
	for k := range fixedVectorKeys {
		vals := make([]vec3.Vec3, len(a.entries))
		for i, e := range a.entries {
			vals[i] = e.FixedVectors[k]
		}
		out.FixedVectorValues[k] = vals
	}
	for k := range varyingScalarKeys {
		outer := make([][]float64, len(a.entries))
		for i, e := range a.entries {
			if v, ok := e.VaryingScalars[k]; ok {
				outer[i] = v
			} else {
				outer[i] = make([]float64, a.lengths[i])
			}
		}
		out.VaryingScalarValues[k] = outer
	}
	for k := range varyingVectorKeys {
		outer := make([][]vec3.Vec3, len(a.entries))
		for i, e := range a.entries {
			if v, ok := e.VaryingVectors[k]; ok {
				outer[i] = v
			} else {
				outer[i] = make([]vec3.Vec3, a.lengths[i])
			}
		}
		out.VaryingVectorValues[k] = outer
	}
	return out
}

// Merge concatenates per-worker FieldLineSetProperties into the swarm's
// final result. Order across workers is unspecified (§4.5); within each
// worker's contribution, trajectory order and per-trajectory series
// alignment is preserved. A key present in only some workers' results is
// padded, for the workers lacking it, with per-trajectory defaults of
// matching inner length.
func Merge(locals []FieldLineSetProperties) FieldLineSetProperties {
	out := empty()
	for _, l := range locals {
		out.NumberOfFieldLines += l.NumberOfFieldLines
	}

	fixedScalarKeys := map[string]bool{}
	fixedVectorKeys := map[string]bool{}
	varyingScalarKeys := map[string]bool{}
	varyingVectorKeys := map[string]bool{}
	for _, l := range locals {
		for k := range l.FixedScalarValues {
			fixedScalarKeys[k] = true
		}
		for k := range l.FixedVectorValues {
			fixedVectorKeys[k] = true
		}
		for k := range l.VaryingScalarValues {
			varyingScalarKeys[k] = true
		}
		for k := range l.VaryingVectorValues {
			varyingVectorKeys[k] = true
		}
	}

	for k := range fixedScalarKeys {
		var vals []float64
		for _, l := range locals {
			if v, ok := l.FixedScalarValues[k]; ok {
				vals = append(vals, v...)
			} else {
				vals = append(vals, make([]float64, l.NumberOfFieldLines)...)
			}
		}
		out.FixedScalarValues[k] = vals
	}
	for k := range fixedVectorKeys {
		var vals []vec3.Vec3
		for _, l := range locals {
			if v, ok := l.FixedVectorValues[k]; ok {
				vals = append(vals, v...)
			} else {
				vals = append(vals, make([]vec3.Vec3, l.NumberOfFieldLines)...)
			}
		}
		out.FixedVectorValues[k] = vals
	}
	for k := range varyingScalarKeys {
		var outer [][]float64
		for _, l := range locals {
			if v, ok := l.VaryingScalarValues[k]; ok {
				outer = append(outer, v...)
			} else {
				outer = append(outer, padVaryingScalar(l)...)
			}
		}
		out.VaryingScalarValues[k] = outer
	}
	for k := range varyingVectorKeys {
		var outer [][]vec3.Vec3
		for _, l := range locals {
			if v, ok := l.VaryingVectorValues[k]; ok {
				outer = append(outer, v...)
			} else {
				outer = append(outer, padVaryingVector(l)...)
			}
		}
		out.VaryingVectorValues[k] = outer
	}
	return out
}

// padVaryingScalar builds default-length placeholders for a worker that
// never reported a given key, one per trajectory, sized to match that
// trajectory's "x" series (present on every trajectory per the §3
// invariant).
func padVaryingScalar(l FieldLineSetProperties) [][]float64 {
	xs, ok := l.VaryingScalarValues["x"]
	if !ok {
		return make([][]float64, l.NumberOfFieldLines)
	}
	out := make([][]float64, len(xs))
	for i, x := range xs {
		out[i] = make([]float64, len(x))
	}
	return out
}

func padVaryingVector(l FieldLineSetProperties) [][]vec3.Vec3 {
	xs, ok := l.VaryingScalarValues["x"]
	if !ok {
		return make([][]vec3.Vec3, l.NumberOfFieldLines)
	}
	out := make([][]vec3.Vec3, len(xs))
	for i, x := range xs {
		out[i] = make([]vec3.Vec3, len(x))
	}
	return out
}
