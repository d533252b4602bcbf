// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package swarm implements the parallel fan-out driver: a Seeder of known
// length is mapped to many independent trajectories, each produced by a
// Tracer, and the per-trajectory results are reduced into one columnar
// FieldLineSetProperties (§4.5).
package swarm

import "github.com/lars-frogner/BifRust/vec3"

// Seeder is a lazy sequence of known length of trajectory start positions
type Seeder interface {
	Len() int
	Start(i int) vec3.Vec3
}

// SliceSeeder adapts a plain slice of start points to Seeder
type SliceSeeder []vec3.Vec3

// Len implements Seeder
func (s SliceSeeder) Len() int { return len(s) }

// Start implements Seeder
func (s SliceSeeder) Start(i int) vec3.Vec3 { return s[i] }
