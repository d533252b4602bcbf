// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package format implements the output writers external to the tracing
// core (§6): a custom little-endian binary field-line format, an H5Part
// logical-layout writer, and a JSON writer. Pickle is deliberately not
// implemented (see DESIGN.md).
package format

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"

	"github.com/lars-frogner/BifRust/swarm"
	"github.com/lars-frogner/BifRust/vec3"
)

// sortedScalarKeys returns m's keys in ascending order, the deterministic
// ordering this writer uses for the Names block (§6 says only that "all
// maps are serialized in the order their keys appear in the Names block";
// sorting makes that order reproducible across runs).
func sortedScalarKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedVectorKeys(m map[string][]vec3.Vec3) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedVaryingScalarKeys(m map[string][][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedVaryingVectorKeys(m map[string][][]vec3.Vec3) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteBinary writes p to w in the custom little-endian field-line format
// (§6). floatSize must be 4 or 8.
func WriteBinary(w io.Writer, p *swarm.FieldLineSetProperties, floatSize int) error {
	if floatSize != 4 && floatSize != 8 {
		return chk.Err("format: float_size must be 4 or 8; got %d", floatSize)
	}

	fixedScalarKeys := sortedScalarKeys(p.FixedScalarValues)
	fixedVectorKeys := sortedVectorKeys(p.FixedVectorValues)
	varyingScalarKeys := sortedVaryingScalarKeys(p.VaryingScalarValues)
	varyingVectorKeys := sortedVaryingVectorKeys(p.VaryingVectorValues)

	nLines := p.NumberOfFieldLines
	offsets := make([]uint64, nLines)
	nElements := 0
	for i := 0; i < nLines; i++ {
		offsets[i] = uint64(nElements)
		if len(varyingScalarKeys) > 0 {
			nElements += len(p.VaryingScalarValues[varyingScalarKeys[0]][i])
		} else if len(varyingVectorKeys) > 0 {
			nElements += len(p.VaryingVectorValues[varyingVectorKeys[0]][i])
		}
	}

	header := [7]uint64{
		uint64(floatSize),
		uint64(nLines),
		uint64(nElements),
		uint64(len(fixedScalarKeys)),
		uint64(len(fixedVectorKeys)),
		uint64(len(varyingScalarKeys)),
		uint64(len(varyingVectorKeys)),
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return chk.Err("format: writing header: %v", err)
	}

	xlo, xhi, ylo, yhi, zlo, zhi := bounds(p)
	if err := writeFloats(w, floatSize, []float64{xlo, xhi, ylo, yhi, zlo, zhi}); err != nil {
		return chk.Err("format: writing bounds: %v", err)
	}

	for _, group := range [][]string{fixedScalarKeys, fixedVectorKeys, varyingScalarKeys, varyingVectorKeys} {
		for _, name := range group {
			if _, err := io.WriteString(w, name+"\n"); err != nil {
				return chk.Err("format: writing names: %v", err)
			}
		}
	}

	if err := binary.Write(w, binary.LittleEndian, offsets); err != nil {
		return chk.Err("format: writing offsets: %v", err)
	}

	for _, name := range fixedScalarKeys {
		if err := writeFloats(w, floatSize, p.FixedScalarValues[name]); err != nil {
			return chk.Err("format: writing fixed scalar %q: %v", name, err)
		}
	}
	for _, name := range fixedVectorKeys {
		if err := writeFloats(w, floatSize, flattenVectors(p.FixedVectorValues[name])); err != nil {
			return chk.Err("format: writing fixed vector %q: %v", name, err)
		}
	}
	for _, name := range varyingScalarKeys {
		flat := make([]float64, 0, nElements)
		for _, line := range p.VaryingScalarValues[name] {
			flat = append(flat, line...)
		}
		if err := writeFloats(w, floatSize, flat); err != nil {
			return chk.Err("format: writing varying scalar %q: %v", name, err)
		}
	}
	for _, name := range varyingVectorKeys {
		flat := make([]vec3.Vec3, 0, nElements)
		for _, line := range p.VaryingVectorValues[name] {
			flat = append(flat, line...)
		}
		if err := writeFloats(w, floatSize, flattenVectors(flat)); err != nil {
			return chk.Err("format: writing varying vector %q: %v", name, err)
		}
	}
	return nil
}

// WriteBinaryFile writes p to path through an atomic temp-file-then-rename
// swap (§7: "IOError ... fatal after work; writes go through an atomic
// temp-file swap").
func WriteBinaryFile(path string, p *swarm.FieldLineSetProperties, floatSize int) error {
	return atomicWriteFile(path, func(w io.Writer) error {
		return WriteBinary(w, p, floatSize)
	})
}

// ReadBinary reads back a FieldLineSetProperties from r, the P9 round-trip
// counterpart to WriteBinary.
func ReadBinary(r io.Reader) (*swarm.FieldLineSetProperties, error) {
	var header [7]uint64
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, chk.Err("format: reading header: %v", err)
	}
	floatSize := int(header[0])
	if floatSize != 4 && floatSize != 8 {
		return nil, chk.Err("format: float_size must be 4 or 8; got %d", floatSize)
	}
	nLines := int(header[1])
	nElements := int(header[2])
	nFixedScalar := int(header[3])
	nFixedVector := int(header[4])
	nVaryingScalar := int(header[5])
	nVaryingVector := int(header[6])

	if _, err := readFloats(r, floatSize, 6); err != nil { // bounds, recomputed on write from data so not retained here
		return nil, chk.Err("format: reading bounds: %v", err)
	}

	br := bufio.NewReader(r)
	readName := func() (string, error) {
		line, err := br.ReadString('\n')
		if err != nil {
			return "", err
		}
		return line[:len(line)-1], nil
	}
	names := func(n int) ([]string, error) {
		out := make([]string, n)
		for i := 0; i < n; i++ {
			name, err := readName()
			if err != nil {
				return nil, err
			}
			out[i] = name
		}
		return out, nil
	}

	fixedScalarKeys, err := names(nFixedScalar)
	if err != nil {
		return nil, chk.Err("format: reading fixed scalar names: %v", err)
	}
	fixedVectorKeys, err := names(nFixedVector)
	if err != nil {
		return nil, chk.Err("format: reading fixed vector names: %v", err)
	}
	varyingScalarKeys, err := names(nVaryingScalar)
	if err != nil {
		return nil, chk.Err("format: reading varying scalar names: %v", err)
	}
	varyingVectorKeys, err := names(nVaryingVector)
	if err != nil {
		return nil, chk.Err("format: reading varying vector names: %v", err)
	}

	offsets := make([]uint64, nLines)
	if err := binary.Read(br, binary.LittleEndian, offsets); err != nil {
		return nil, chk.Err("format: reading offsets: %v", err)
	}
	lengths := make([]int, nLines)
	for i := 0; i < nLines; i++ {
		end := nElements
		if i+1 < nLines {
			end = int(offsets[i+1])
		}
		lengths[i] = end - int(offsets[i])
	}

	out := &swarm.FieldLineSetProperties{
		NumberOfFieldLines:  nLines,
		FixedScalarValues:   make(map[string][]float64),
		FixedVectorValues:   make(map[string]([]vec3.Vec3)),
		VaryingScalarValues: make(map[string][][]float64),
		VaryingVectorValues: make(map[string][][]vec3.Vec3),
	}

	for _, name := range fixedScalarKeys {
		vals, err := readFloats(br, floatSize, nLines)
		if err != nil {
			return nil, chk.Err("format: reading fixed scalar %q: %v", name, err)
		}
		out.FixedScalarValues[name] = vals
	}
	for _, name := range fixedVectorKeys {
		vals, err := readFloats(br, floatSize, nLines*3)
		if err != nil {
			return nil, chk.Err("format: reading fixed vector %q: %v", name, err)
		}
		out.FixedVectorValues[name] = unflattenVectors(vals)
	}
	for _, name := range varyingScalarKeys {
		flat, err := readFloats(br, floatSize, nElements)
		if err != nil {
			return nil, chk.Err("format: reading varying scalar %q: %v", name, err)
		}
		out.VaryingScalarValues[name] = splitScalar(flat, lengths)
	}
	for _, name := range varyingVectorKeys {
		flat, err := readFloats(br, floatSize, nElements*3)
		if err != nil {
			return nil, chk.Err("format: reading varying vector %q: %v", name, err)
		}
		out.VaryingVectorValues[name] = splitVector(unflattenVectors(flat), lengths)
	}
	return out, nil
}

func bounds(p *swarm.FieldLineSetProperties) (xlo, xhi, ylo, yhi, zlo, zhi float64) {
	xlo, ylo, zlo = math.Inf(1), math.Inf(1), math.Inf(1)
	xhi, yhi, zhi = math.Inf(-1), math.Inf(-1), math.Inf(-1)
	xs := p.VaryingScalarValues["x"]
	ys := p.VaryingScalarValues["y"]
	zs := p.VaryingScalarValues["z"]
	for i := range xs {
		for _, v := range xs[i] {
			if v < xlo {
				xlo = v
			}
			if v > xhi {
				xhi = v
			}
		}
		for _, v := range ys[i] {
			if v < ylo {
				ylo = v
			}
			if v > yhi {
				yhi = v
			}
		}
		for _, v := range zs[i] {
			if v < zlo {
				zlo = v
			}
			if v > zhi {
				zhi = v
			}
		}
	}
	if len(xs) == 0 {
		xlo, xhi, ylo, yhi, zlo, zhi = 0, 0, 0, 0, 0, 0
	}
	return
}

func flattenVectors(vs []vec3.Vec3) []float64 {
	out := make([]float64, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, v.X, v.Y, v.Z)
	}
	return out
}

func unflattenVectors(flat []float64) []vec3.Vec3 {
	out := make([]vec3.Vec3, len(flat)/3)
	for i := range out {
		out[i] = vec3.New(flat[3*i], flat[3*i+1], flat[3*i+2])
	}
	return out
}

func splitScalar(flat []float64, lengths []int) [][]float64 {
	out := make([][]float64, len(lengths))
	pos := 0
	for i, n := range lengths {
		out[i] = flat[pos : pos+n]
		pos += n
	}
	return out
}

func splitVector(flat []vec3.Vec3, lengths []int) [][]vec3.Vec3 {
	out := make([][]vec3.Vec3, len(lengths))
	pos := 0
	for i, n := range lengths {
		out[i] = flat[pos : pos+n]
		pos += n
	}
	return out
}

func writeFloats(w io.Writer, floatSize int, vals []float64) error {
	if floatSize == 8 {
		return binary.Write(w, binary.LittleEndian, vals)
	}
	narrow := make([]float32, len(vals))
	for i, v := range vals {
		narrow[i] = float32(v)
	}
	return binary.Write(w, binary.LittleEndian, narrow)
}

func readFloats(r io.Reader, floatSize, n int) ([]float64, error) {
	if floatSize == 8 {
		out := make([]float64, n)
		if err := binary.Read(r, binary.LittleEndian, out); err != nil {
			return nil, err
		}
		return out, nil
	}
	narrow := make([]float32, n)
	if err := binary.Read(r, binary.LittleEndian, narrow); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, v := range narrow {
		out[i] = float64(v)
	}
	return out, nil
}
