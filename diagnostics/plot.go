// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package diagnostics implements the CLI's optional output-inspection
// helpers: an x-y trajectory plot in the teacher's plt idiom
// (mdl/retention/plot.go, examples/*/doplot.go) and a CSV summary table of
// per-line statistics in verbose mode, both entirely optional and unrelated
// to the tracing core's own output formats (package format).
package diagnostics

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"

	"github.com/lars-frogner/BifRust/swarm"
)

// PlotTrajectories draws every traced line's x-y projection into one PNG
// under dir, the diagnostic counterpart to the teacher's per-example
// doplot.go scripts; it is never required for a result to be valid, only
// for a human to eyeball it.
func PlotTrajectories(dir, fname string, p *swarm.FieldLineSetProperties) error {
	xs, ok := p.VaryingScalarValues["x"]
	if !ok {
		return nil
	}
	ys := p.VaryingScalarValues["y"]
	for i := range xs {
		var y []float64
		if i < len(ys) {
			y = ys[i]
		}
		plt.Plot(xs[i], y, io.Sf("clip_on=0, label='line %d'", i))
	}
	plt.Gll("$x$", "$y$", "")
	return plt.Save(dir, fname)
}
