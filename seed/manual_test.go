// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seed

import (
	"testing"

	"github.com/lars-frogner/BifRust/synth"
	"github.com/lars-frogner/BifRust/vec3"
)

func TestManualSitesSnapsToCellCenters(t *testing.T) {
	grid, err := synth.UniformCubeGrid(8, [3]bool{true, true, true})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	// a small offset from an exact cell center should still resolve to that
	// center
	requested := []vec3.Vec3{vec3.New(0.061, 0.061, 0.061)}
	s, err := ManualSites(grid, requested)
	if err != nil {
		t.Fatalf("manual sites: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 snapped site, got %d", s.Len())
	}
	snapped := s.Start(0)
	found := false
	for _, c := range grid.Axes[0].Centers {
		if c == snapped.X {
			found = true
		}
	}
	if !found {
		t.Fatalf("snapped x-coordinate %v is not one of the grid's cell centers", snapped.X)
	}
}

func TestManualSitesRejectsEmptyInput(t *testing.T) {
	grid, err := synth.UniformCubeGrid(4, [3]bool{true, true, true})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	if _, err := ManualSites(grid, nil); err == nil {
		t.Fatalf("expected an error for no input sites")
	}
}
