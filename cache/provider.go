// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package cache implements the LRU-memoizing field provider facade that
// sits between the snapshot reader and the tracing core (§4.6): it loads
// named fields on demand under a byte budget, evicting least-recently-used
// entries first. A hit on a field already resident takes only the shared
// read lock, so concurrent hits do not block one another; a hit still waits
// while a load, drop or eviction holds the write lock.
package cache

import (
	"sync"
	"sync/atomic"

	"github.com/cpmech/gosl/chk"

	"github.com/lars-frogner/BifRust/field"
	"github.com/lars-frogner/BifRust/geometry"
)

// DefaultByteBudget is used when no explicit budget is configured. Unlike
// the original implementation's "80% of system RAM" default, no library in
// the retrieved corpus exposes total system memory (gosl does not, and no
// other pack dependency covers it), so the default here is a conservative
// fixed size; callers that want OS-aware sizing compute their own budget
// and pass it to New.
const DefaultByteBudget = int64(1) << 30 // 1 GiB

// Loader loads named fields from their backing store (a snapshot file
// reader, in the out-of-core-scope sense of §1/§6) and reports the grid
// they live on.
type Loader[S geometry.Real] interface {
	Grid() *geometry.Grid[S]
	LoadScalarField(name string) (*field.ScalarField[S], error)
	LoadVectorField(name string) (*field.VectorField[S], error)
}

type cacheEntry[S geometry.Real] struct {
	scalar   *field.ScalarField[S]
	vector   *field.VectorField[S]
	bytes    int64
	lastUsed int64 // atomic LRU stamp
}

// CachedFieldProvider implements field.Provider, memoizing loaded fields in
// memory under a byte budget (§4.6). Safe for concurrent use by many
// trajectory workers: the loading path is mutex-protected, but a field
// already resident is served without taking the write lock.
type CachedFieldProvider[S geometry.Real] struct {
	loader Loader[S]
	budget int64

	mu      sync.RWMutex
	used    int64
	clock   int64
	scalars map[string]*cacheEntry[S]
	vectors map[string]*cacheEntry[S]
}

// New returns a CachedFieldProvider wrapping loader with the given byte
// budget; budget <= 0 selects DefaultByteBudget.
func New[S geometry.Real](loader Loader[S], budget int64) *CachedFieldProvider[S] {
	if budget <= 0 {
		budget = DefaultByteBudget
	}
	return &CachedFieldProvider[S]{
		loader:  loader,
		budget:  budget,
		scalars: make(map[string]*cacheEntry[S]),
		vectors: make(map[string]*cacheEntry[S]),
	}
}

// Grid implements field.Provider
func (c *CachedFieldProvider[S]) Grid() *geometry.Grid[S] {
	return c.loader.Grid()
}

// ProvideScalarField implements field.Provider: returns the cached field if
// resident (under the shared read lock), otherwise loads it, evicting
// least-recently-used entries until it fits the budget.
func (c *CachedFieldProvider[S]) ProvideScalarField(name string) (*field.ScalarField[S], error) {
	if e, ok := c.lookupScalar(name); ok {
		return e.scalar, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.scalars[name]; ok {
		atomic.StoreInt64(&e.lastUsed, c.tick())
		return e.scalar, nil
	}
	f, err := c.loader.LoadScalarField(name)
	if err != nil {
		return nil, chk.Err("cache: loading scalar field %q: %v", name, err)
	}
	bytes := scalarBytes(f)
	c.evictToFit(bytes)
	c.scalars[name] = &cacheEntry[S]{scalar: f, bytes: bytes, lastUsed: c.tick()}
	c.used += bytes
	return f, nil
}

// ProvideVectorField implements field.Provider
func (c *CachedFieldProvider[S]) ProvideVectorField(name string) (*field.VectorField[S], error) {
	if e, ok := c.lookupVector(name); ok {
		return e.vector, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.vectors[name]; ok {
		atomic.StoreInt64(&e.lastUsed, c.tick())
		return e.vector, nil
	}
	f, err := c.loader.LoadVectorField(name)
	if err != nil {
		return nil, chk.Err("cache: loading vector field %q: %v", name, err)
	}
	bytes := 3 * scalarBytes(f.X)
	c.evictToFit(bytes)
	c.vectors[name] = &cacheEntry[S]{vector: f, bytes: bytes, lastUsed: c.tick()}
	c.used += bytes
	return f, nil
}

// DropScalarField implements field.Provider: explicit release hook used
// between pipeline phases
func (c *CachedFieldProvider[S]) DropScalarField(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.scalars[name]; ok {
		c.used -= e.bytes
		delete(c.scalars, name)
	}
}

// DropAllFields implements field.Provider
func (c *CachedFieldProvider[S]) DropAllFields() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scalars = make(map[string]*cacheEntry[S])
	c.vectors = make(map[string]*cacheEntry[S])
	c.used = 0
}

// lookupScalar is the hit path: it takes only the read lock and updates the
// entry's LRU stamp atomically
func (c *CachedFieldProvider[S]) lookupScalar(name string) (*cacheEntry[S], bool) {
	c.mu.RLock()
	e, ok := c.scalars[name]
	c.mu.RUnlock()
	if ok {
		atomic.StoreInt64(&e.lastUsed, c.tick())
	}
	return e, ok
}

func (c *CachedFieldProvider[S]) lookupVector(name string) (*cacheEntry[S], bool) {
	c.mu.RLock()
	e, ok := c.vectors[name]
	c.mu.RUnlock()
	if ok {
		atomic.StoreInt64(&e.lastUsed, c.tick())
	}
	return e, ok
}

func (c *CachedFieldProvider[S]) tick() int64 {
	return atomic.AddInt64(&c.clock, 1)
}

// evictToFit removes least-recently-used entries, scalar or vector, until
// adding incoming bytes would no longer exceed the budget. Caller holds the
// write lock.
func (c *CachedFieldProvider[S]) evictToFit(incoming int64) {
	for c.used+incoming > c.budget {
		victimName, victimIsVector, ok := c.findLRU()
		if !ok {
			return // nothing left to evict; let the load through over-budget
		}
		if victimIsVector {
			c.used -= c.vectors[victimName].bytes
			delete(c.vectors, victimName)
		} else {
			c.used -= c.scalars[victimName].bytes
			delete(c.scalars, victimName)
		}
	}
}

func (c *CachedFieldProvider[S]) findLRU() (name string, isVector bool, ok bool) {
	best := int64(1)<<63 - 1
	for n, e := range c.scalars {
		last := atomic.LoadInt64(&e.lastUsed)
		if last < best {
			best, name, isVector, ok = last, n, false, true
		}
	}
	for n, e := range c.vectors {
		last := atomic.LoadInt64(&e.lastUsed)
		if last < best {
			best, name, isVector, ok = last, n, true, true
		}
	}
	return
}

func scalarBytes[S geometry.Real](f *field.ScalarField[S]) int64 {
	shape := f.Grid.Shape()
	var zero S
	return int64(shape.I*shape.J*shape.K) * int64(sizeOf(zero))
}

// sizeOf reports the in-memory size of one storage-precision sample; S is
// constrained to float32/float64 so this is exactly 4 or 8.
func sizeOf[S geometry.Real](zero S) int {
	var x interface{} = zero
	if _, ok := x.(float32); ok {
		return 4
	}
	return 8
}
