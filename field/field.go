// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package field implements named gridded scalar and vector field samples,
// and the Provider contract that decouples the tracing core from
// snapshot-reading and caching concerns.
package field

import (
	"github.com/cpmech/gosl/chk"

	"github.com/lars-frogner/BifRust/geometry"
)

// ScalarField is a named gridded sample, immutable after construction. The
// Values array is indexed [i][j][k] matching the owning grid's cell shape.
type ScalarField[S geometry.Real] struct {
	Name   string
	Grid   *geometry.Grid[S]
	Values [][][]S
}

// NewScalarField validates that Values matches Grid's shape and returns a
// ScalarField
func NewScalarField[S geometry.Real](name string, grid *geometry.Grid[S], values [][][]S) (*ScalarField[S], error) {
	shape := grid.Shape()
	if len(values) != shape.I {
		return nil, chk.Err("scalar field %q: i-dimension mismatch: got %d, want %d", name, len(values), shape.I)
	}
	for i, plane := range values {
		if len(plane) != shape.J {
			return nil, chk.Err("scalar field %q: j-dimension mismatch at i=%d: got %d, want %d", name, i, len(plane), shape.J)
		}
		for j, row := range plane {
			if len(row) != shape.K {
				return nil, chk.Err("scalar field %q: k-dimension mismatch at i=%d,j=%d: got %d, want %d", name, i, j, len(row), shape.K)
			}
		}
	}
	return &ScalarField[S]{Name: name, Grid: grid, Values: values}, nil
}

// At returns the stored value at cell idx
func (f *ScalarField[S]) At(idx geometry.Idx3) S {
	return f.Values[idx.I][idx.J][idx.K]
}

// VectorField is three scalar fields sharing the same grid, iterated
// together as X, Y, Z components
type VectorField[S geometry.Real] struct {
	Name string
	Grid *geometry.Grid[S]
	X, Y, Z *ScalarField[S]
}

// NewVectorField validates that the three components share the same grid
// and returns a VectorField
func NewVectorField[S geometry.Real](name string, x, y, z *ScalarField[S]) (*VectorField[S], error) {
	if x.Grid != y.Grid || y.Grid != z.Grid {
		return nil, chk.Err("vector field %q: components do not share the same grid", name)
	}
	return &VectorField[S]{Name: name, Grid: x.Grid, X: x, Y: y, Z: z}, nil
}

// At returns the stored vector value at cell idx as (vx, vy, vz)
func (f *VectorField[S]) At(idx geometry.Idx3) (S, S, S) {
	return f.X.At(idx), f.Y.At(idx), f.Z.At(idx)
}

// Provider decouples the tracing core from snapshot ingestion: it is the
// only abstraction through which the core learns about named fields and
// the grid they live on. Implementations include a direct in-memory
// provider (StaticProvider, below) and the LRU-memoizing
// CachedFieldProvider in package cache.
type Provider[S geometry.Real] interface {
	Grid() *geometry.Grid[S]
	ProvideScalarField(name string) (*ScalarField[S], error)
	ProvideVectorField(name string) (*VectorField[S], error)
	DropScalarField(name string)
	DropAllFields()
}

// StaticProvider is the simplest Provider: a fixed, already-resident set of
// fields over one grid. It is used directly by tests and by pipelines that
// synthesize their own fields (package synth) rather than reading a
// snapshot file.
type StaticProvider[S geometry.Real] struct {
	grid    *geometry.Grid[S]
	scalars map[string]*ScalarField[S]
	vectors map[string]*VectorField[S]
}

// NewStaticProvider returns a Provider backed by the given grid with no
// fields registered yet
func NewStaticProvider[S geometry.Real](grid *geometry.Grid[S]) *StaticProvider[S] {
	return &StaticProvider[S]{
		grid:    grid,
		scalars: make(map[string]*ScalarField[S]),
		vectors: make(map[string]*VectorField[S]),
	}
}

// AddScalarField registers a scalar field under its own name
func (p *StaticProvider[S]) AddScalarField(f *ScalarField[S]) {
	p.scalars[f.Name] = f
}

// AddVectorField registers a vector field under its own name
func (p *StaticProvider[S]) AddVectorField(f *VectorField[S]) {
	p.vectors[f.Name] = f
}

// Grid implements Provider
func (p *StaticProvider[S]) Grid() *geometry.Grid[S] { return p.grid }

// ProvideScalarField implements Provider
func (p *StaticProvider[S]) ProvideScalarField(name string) (*ScalarField[S], error) {
	f, ok := p.scalars[name]
	if !ok {
		return nil, chk.Err("scalar field %q unavailable", name)
	}
	return f, nil
}

// ProvideVectorField implements Provider
func (p *StaticProvider[S]) ProvideVectorField(name string) (*VectorField[S], error) {
	f, ok := p.vectors[name]
	if !ok {
		return nil, chk.Err("vector field %q unavailable", name)
	}
	return f, nil
}

// DropScalarField implements Provider
func (p *StaticProvider[S]) DropScalarField(name string) { delete(p.scalars, name) }

// DropAllFields implements Provider
func (p *StaticProvider[S]) DropAllFields() {
	p.scalars = make(map[string]*ScalarField[S])
	p.vectors = make(map[string]*VectorField[S])
}
