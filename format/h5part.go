// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"encoding/binary"
	"io"

	"github.com/cpmech/gosl/chk"

	"github.com/lars-frogner/BifRust/swarm"
)

// h5partMagic tags the container so a reader can recognize it without
// depending on a real HDF5 library (§6: two files, one group "Step#0" per
// file, one dataset per named scalar series; no cgo HDF5 binding is linked
// here — see DESIGN.md).
const h5partMagic = "BRH5PT01"

// WriteH5PartFiles writes the trajectory-data and seed-data files of the
// H5Part layout (§6). The reserved name "r" is renamed to "rho" on write;
// an "id" dataset of per-particle indices is included in both files unless
// includeID is false.
func WriteH5PartFiles(trajectoryPath, seedPath string, p *swarm.FieldLineSetProperties, includeID bool) error {
	if err := atomicWriteFile(trajectoryPath, func(w io.Writer) error {
		return writeH5PartGroup(w, trajectoryDatasets(p, includeID))
	}); err != nil {
		return chk.Err("format: writing h5part trajectory file: %v", err)
	}
	if err := atomicWriteFile(seedPath, func(w io.Writer) error {
		return writeH5PartGroup(w, seedDatasets(p, includeID))
	}); err != nil {
		return chk.Err("format: writing h5part seed file: %v", err)
	}
	return nil
}

// dataset is one named H5Part dataset: either float64 samples or, for the
// optional particle-id column, raw 64-bit indices.
type dataset struct {
	name   string
	floats []float64
	ids    []uint64
}

func renameReserved(name string) string {
	if name == "r" {
		return "rho"
	}
	return name
}

// trajectoryDatasets flattens every varying scalar series (row-major,
// trajectory by trajectory) into one dataset per name, plus an optional
// per-sample particle-id column.
func trajectoryDatasets(p *swarm.FieldLineSetProperties, includeID bool) []dataset {
	keys := sortedVaryingScalarKeys(p.VaryingScalarValues)
	out := make([]dataset, 0, len(keys)+1)
	for _, name := range keys {
		var flat []float64
		for _, line := range p.VaryingScalarValues[name] {
			flat = append(flat, line...)
		}
		out = append(out, dataset{name: renameReserved(name), floats: flat})
	}
	if includeID {
		var ids []uint64
		for i, line := range p.VaryingScalarValues[firstVaryingScalarKey(p)] {
			for range line {
				ids = append(ids, uint64(i))
			}
		}
		out = append(out, dataset{name: "id", ids: ids})
	}
	return out
}

func firstVaryingScalarKey(p *swarm.FieldLineSetProperties) string {
	keys := sortedVaryingScalarKeys(p.VaryingScalarValues)
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// seedDatasets exposes one value per trajectory: the fixed scalar series.
func seedDatasets(p *swarm.FieldLineSetProperties, includeID bool) []dataset {
	keys := sortedScalarKeys(p.FixedScalarValues)
	out := make([]dataset, 0, len(keys)+1)
	for _, name := range keys {
		out = append(out, dataset{name: renameReserved(name), floats: p.FixedScalarValues[name]})
	}
	if includeID {
		ids := make([]uint64, p.NumberOfFieldLines)
		for i := range ids {
			ids[i] = uint64(i)
		}
		out = append(out, dataset{name: "id", ids: ids})
	}
	return out
}

// writeH5PartGroup writes one "Step#0" group holding the given datasets
func writeH5PartGroup(w io.Writer, datasets []dataset) error {
	if _, err := io.WriteString(w, h5partMagic); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "Step#0\n"); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(datasets))); err != nil {
		return err
	}
	for _, d := range datasets {
		if _, err := io.WriteString(w, d.name+"\n"); err != nil {
			return err
		}
		isID := d.ids != nil
		if err := binary.Write(w, binary.LittleEndian, isID); err != nil {
			return err
		}
		if isID {
			if err := binary.Write(w, binary.LittleEndian, uint64(len(d.ids))); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, d.ids); err != nil {
				return err
			}
			continue
		}
		if err := binary.Write(w, binary.LittleEndian, uint64(len(d.floats))); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, d.floats); err != nil {
			return err
		}
	}
	return nil
}
