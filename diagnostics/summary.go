// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagnostics

import (
	"os"

	"github.com/gocarina/gocsv"

	"github.com/lars-frogner/BifRust/swarm"
)

// LineSummary is one traced line's verbose-mode summary row: point count
// and start/end position, an at-a-glance alternative to opening the full
// result file.
type LineSummary struct {
	Index      int     `csv:"index"`
	NumPoints  int     `csv:"num_points"`
	StartX     float64 `csv:"start_x"`
	StartY     float64 `csv:"start_y"`
	StartZ     float64 `csv:"start_z"`
	EndX       float64 `csv:"end_x"`
	EndY       float64 `csv:"end_y"`
	EndZ       float64 `csv:"end_z"`
}

// Summarize builds one LineSummary per traced line
func Summarize(p *swarm.FieldLineSetProperties) []LineSummary {
	xs := p.VaryingScalarValues["x"]
	ys := p.VaryingScalarValues["y"]
	zs := p.VaryingScalarValues["z"]
	rows := make([]LineSummary, p.NumberOfFieldLines)
	for i := range rows {
		x, y, z := xs[i], ys[i], zs[i]
		n := len(x)
		row := LineSummary{Index: i, NumPoints: n}
		if n > 0 {
			row.StartX, row.StartY, row.StartZ = x[0], y[0], z[0]
			row.EndX, row.EndY, row.EndZ = x[n-1], y[n-1], z[n-1]
		}
		rows[i] = row
	}
	return rows
}

// WriteSummaryCSV writes one row per traced line to path, the verbose-mode
// alternative to the full binary/JSON/H5Part result (§7 output formats).
func WriteSummaryCSV(path string, p *swarm.FieldLineSetProperties) error {
	rows := Summarize(p)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&rows, f)
}
