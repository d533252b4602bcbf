// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cache

import (
	"sync"
	"testing"

	"github.com/lars-frogner/BifRust/field"
	"github.com/lars-frogner/BifRust/geometry"
	"github.com/lars-frogner/BifRust/synth"
)

// fakeLoader counts how many times each field is actually loaded, so tests
// can assert the cache avoids redundant loads and honors eviction.
type fakeLoader struct {
	grid    *geometry.Grid[float64]
	loads   map[string]int
	mu      sync.Mutex
}

func newFakeLoader(t *testing.T, n int) *fakeLoader {
	t.Helper()
	grid, err := synth.UniformCubeGrid(n, [3]bool{true, true, true})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return &fakeLoader{grid: grid, loads: make(map[string]int)}
}

func (l *fakeLoader) Grid() *geometry.Grid[float64] { return l.grid }

func (l *fakeLoader) LoadScalarField(name string) (*field.ScalarField[float64], error) {
	l.mu.Lock()
	l.loads[name]++
	l.mu.Unlock()
	return synth.BuildScalarField(name, l.grid, synth.Linear(1, 0, 0, 0))
}

func (l *fakeLoader) LoadVectorField(name string) (*field.VectorField[float64], error) {
	l.mu.Lock()
	l.loads[name]++
	l.mu.Unlock()
	return synth.BuildVectorField(name, l.grid, synth.UniformFlow(1, 0, 0))
}

func (l *fakeLoader) loadCount(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads[name]
}

func TestProvideScalarFieldLoadsOnce(t *testing.T) {
	loader := newFakeLoader(t, 8)
	c := New[float64](loader, DefaultByteBudget)
	for i := 0; i < 5; i++ {
		if _, err := c.ProvideScalarField("temperature"); err != nil {
			t.Fatalf("provide: %v", err)
		}
	}
	if got := loader.loadCount("temperature"); got != 1 {
		t.Fatalf("expected 1 load, got %d", got)
	}
}

func TestDropScalarFieldForcesReload(t *testing.T) {
	loader := newFakeLoader(t, 8)
	c := New[float64](loader, DefaultByteBudget)
	if _, err := c.ProvideScalarField("temperature"); err != nil {
		t.Fatalf("provide: %v", err)
	}
	c.DropScalarField("temperature")
	if _, err := c.ProvideScalarField("temperature"); err != nil {
		t.Fatalf("provide: %v", err)
	}
	if got := loader.loadCount("temperature"); got != 2 {
		t.Fatalf("expected 2 loads after drop, got %d", got)
	}
}

func TestEvictsLeastRecentlyUsedUnderBudget(t *testing.T) {
	loader := newFakeLoader(t, 8)
	// one field's worth of bytes: n^3 cells * 8 bytes
	oneFieldBytes := int64(8 * 8 * 8 * 8)
	c := New[float64](loader, oneFieldBytes+1) // room for a little over one field

	if _, err := c.ProvideScalarField("a"); err != nil {
		t.Fatalf("provide a: %v", err)
	}
	if _, err := c.ProvideScalarField("b"); err != nil {
		t.Fatalf("provide b: %v", err)
	}
	// loading b should have evicted a (budget holds ~one field)
	if _, err := c.ProvideScalarField("a"); err != nil {
		t.Fatalf("re-provide a: %v", err)
	}
	if got := loader.loadCount("a"); got != 2 {
		t.Fatalf("expected a to be reloaded after eviction, got %d loads", got)
	}
}

func TestDropAllFieldsClearsBudget(t *testing.T) {
	loader := newFakeLoader(t, 8)
	c := New[float64](loader, DefaultByteBudget)
	if _, err := c.ProvideScalarField("a"); err != nil {
		t.Fatalf("provide: %v", err)
	}
	if _, err := c.ProvideVectorField("flow"); err != nil {
		t.Fatalf("provide vector: %v", err)
	}
	c.DropAllFields()
	if c.used != 0 {
		t.Fatalf("expected used bytes to reset to 0, got %d", c.used)
	}
	if len(c.scalars) != 0 || len(c.vectors) != 0 {
		t.Fatalf("expected caches to be empty after DropAllFields")
	}
}

func TestGridIsPassthrough(t *testing.T) {
	loader := newFakeLoader(t, 8)
	c := New[float64](loader, DefaultByteBudget)
	if c.Grid() != loader.grid {
		t.Fatalf("expected Grid() to return the loader's grid")
	}
}
