// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"encoding/json"
	"io"

	"github.com/cpmech/gosl/chk"

	"github.com/lars-frogner/BifRust/swarm"
	"github.com/lars-frogner/BifRust/vec3"
)

// jsonDocument mirrors the §3 logical schema directly, field for field, so
// the JSON writer needs no bespoke layout beyond what encoding/json already
// gives it (§6 calls this writer "implementation-optional").
type jsonDocument struct {
	NumberOfFieldLines  int                     `json:"number_of_field_lines"`
	FixedScalarValues   map[string][]float64    `json:"fixed_scalar_values"`
	FixedVectorValues   map[string][][3]float64 `json:"fixed_vector_values"`
	VaryingScalarValues map[string][][]float64  `json:"varying_scalar_values"`
	VaryingVectorValues map[string][][][3]float64 `json:"varying_vector_values"`
}

func toJSONDocument(p *swarm.FieldLineSetProperties) jsonDocument {
	doc := jsonDocument{
		NumberOfFieldLines:  p.NumberOfFieldLines,
		FixedScalarValues:   p.FixedScalarValues,
		FixedVectorValues:   make(map[string][][3]float64, len(p.FixedVectorValues)),
		VaryingScalarValues: p.VaryingScalarValues,
		VaryingVectorValues: make(map[string][][][3]float64, len(p.VaryingVectorValues)),
	}
	for name, vs := range p.FixedVectorValues {
		doc.FixedVectorValues[name] = toTriples(vs)
	}
	for name, lines := range p.VaryingVectorValues {
		out := make([][][3]float64, len(lines))
		for i, line := range lines {
			out[i] = toTriples(line)
		}
		doc.VaryingVectorValues[name] = out
	}
	return doc
}

func fromJSONDocument(doc jsonDocument) *swarm.FieldLineSetProperties {
	p := &swarm.FieldLineSetProperties{
		NumberOfFieldLines:  doc.NumberOfFieldLines,
		FixedScalarValues:   doc.FixedScalarValues,
		FixedVectorValues:   make(map[string][]vec3.Vec3, len(doc.FixedVectorValues)),
		VaryingScalarValues: doc.VaryingScalarValues,
		VaryingVectorValues: make(map[string][][]vec3.Vec3, len(doc.VaryingVectorValues)),
	}
	for name, triples := range doc.FixedVectorValues {
		p.FixedVectorValues[name] = fromTriples(triples)
	}
	for name, lines := range doc.VaryingVectorValues {
		out := make([][]vec3.Vec3, len(lines))
		for i, line := range lines {
			out[i] = fromTriples(line)
		}
		p.VaryingVectorValues[name] = out
	}
	return p
}

func toTriples(vs []vec3.Vec3) [][3]float64 {
	out := make([][3]float64, len(vs))
	for i, v := range vs {
		out[i] = [3]float64{v.X, v.Y, v.Z}
	}
	return out
}

func fromTriples(ts [][3]float64) []vec3.Vec3 {
	out := make([]vec3.Vec3, len(ts))
	for i, t := range ts {
		out[i] = vec3.New(t[0], t[1], t[2])
	}
	return out
}

// WriteJSON writes p to w as the §3 schema in JSON, one top-level object
// with the four value maps alongside number_of_field_lines.
func WriteJSON(w io.Writer, p *swarm.FieldLineSetProperties) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(toJSONDocument(p)); err != nil {
		return chk.Err("format: encoding json: %v", err)
	}
	return nil
}

// WriteJSONFile writes p to path through the same atomic temp-file swap
// used by the other writers (§7).
func WriteJSONFile(path string, p *swarm.FieldLineSetProperties) error {
	return atomicWriteFile(path, func(w io.Writer) error {
		return WriteJSON(w, p)
	})
}

// ReadJSON is the JSON round-trip counterpart to WriteJSON.
func ReadJSON(r io.Reader) (*swarm.FieldLineSetProperties, error) {
	var doc jsonDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, chk.Err("format: decoding json: %v", err)
	}
	return fromJSONDocument(doc), nil
}
