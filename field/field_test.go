// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import "testing"

func TestStaticProviderRoundTrip(t *testing.T) {
	grid, err := testGrid()
	if err != nil {
		t.Fatalf("testGrid: %v", err)
	}
	p := NewStaticProvider(grid)
	f, err := NewScalarField("rho", grid, testValues(grid))
	if err != nil {
		t.Fatalf("NewScalarField: %v", err)
	}
	p.AddScalarField(f)
	got, err := p.ProvideScalarField("rho")
	if err != nil {
		t.Fatalf("ProvideScalarField: %v", err)
	}
	if got != f {
		t.Fatalf("expected same pointer back")
	}
	p.DropScalarField("rho")
	if _, err := p.ProvideScalarField("rho"); err == nil {
		t.Fatalf("expected error after drop")
	}
}
