// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagnostics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lars-frogner/BifRust/diagnostics"
	"github.com/lars-frogner/BifRust/swarm"
)

func sampleResult() *swarm.FieldLineSetProperties {
	return &swarm.FieldLineSetProperties{
		NumberOfFieldLines: 2,
		VaryingScalarValues: map[string][][]float64{
			"x": {{0, 1, 2}, {0, 0.5}},
			"y": {{0, 0, 0}, {1, 1}},
			"z": {{0, 0, 0}, {0, 0}},
		},
	}
}

func TestSummarizeReportsStartAndEnd(t *testing.T) {
	rows := diagnostics.Summarize(sampleResult())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].NumPoints != 3 || rows[0].EndX != 2 {
		t.Fatalf("unexpected row 0: %+v", rows[0])
	}
	if rows[1].NumPoints != 2 || rows[1].EndX != 0.5 {
		t.Fatalf("unexpected row 1: %+v", rows[1])
	}
}

func TestWriteSummaryCSVProducesOneRowPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	if err := diagnostics.WriteSummaryCSV(path, sampleResult()); err != nil {
		t.Fatalf("write summary csv: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) != 3 { // header + 2 rows
		t.Fatalf("expected 3 lines (header + 2 rows), got %d:\n%s", len(lines), string(b))
	}
}
