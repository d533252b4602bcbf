// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package interp implements the polynomial-fit field interpolator: a
// tensor-product Lagrange fit of configurable order per axis, downgraded to
// multilinear interpolation where the local field is too rough for a
// high-order fit to be trustworthy (see Config.VariationThreshold).
package interp

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/lars-frogner/BifRust/field"
	"github.com/lars-frogner/BifRust/geometry"
	"github.com/lars-frogner/BifRust/vec3"
)

// Config holds the interpolator's tuning parameters
type Config struct {
	Order                       int     `json:"order"`                          // polynomial order per axis, 1..5
	VariationThresholdForLinear float64 `json:"variation_threshold_for_linear"` // neighborhood (max-min)/|mean| above which we fall back to multilinear
}

// DefaultConfig returns the spec's default interpolator configuration
func DefaultConfig() Config {
	return Config{Order: 3, VariationThresholdForLinear: 0.3}
}

// Validate checks Config's bounds
func (c Config) Validate() error {
	if c.Order < 1 || c.Order > 5 {
		return chk.Err("interpolator order must be in [1,5]; got %d", c.Order)
	}
	if c.VariationThresholdForLinear <= 0 {
		return chk.Err("variation_threshold_for_linear must be positive; got %v", c.VariationThresholdForLinear)
	}
	return nil
}

// Result is the tagged outcome of an interpolation query: either Inside
// with a value, or Outside (the query point could not be wrapped into the
// grid).
type Result[T any] struct {
	Value  T
	Inside bool
}

// Inside builds an "inside" Result
func Inside[T any](v T) Result[T] { return Result[T]{Value: v, Inside: true} }

// Outside builds an "outside" Result
func Outside[T any]() Result[T] { var zero T; return Result[T]{Value: zero, Inside: false} }

// Interpolator reconstructs field values at arbitrary points; it is
// stateless and safe for concurrent use by many trajectory workers.
type Interpolator[S geometry.Real] struct {
	cfg Config
}

// New returns an Interpolator after validating cfg
func New[S geometry.Real](cfg Config) (*Interpolator[S], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Interpolator[S]{cfg: cfg}, nil
}

// VerifyGrid fails if any axis has fewer than Order+1 cells along a
// non-periodic direction, the precondition the polynomial fit relies on.
func (ip *Interpolator[S]) VerifyGrid(g *geometry.Grid[S]) error {
	need := ip.cfg.Order + 1
	for axis := 0; axis < 3; axis++ {
		a := g.Axes[axis]
		if !a.Periodic && len(a.Centers) < need {
			return chk.Err("grid incompatible with interpolator: axis %d has %d cells, need >= %d for order %d", axis, len(a.Centers), need, ip.cfg.Order)
		}
	}
	return nil
}

// neighborIndices returns the k+1 cell indices along one axis, centered as
// closely as possible on `center`, wrapped for a periodic axis. For a
// non-periodic axis the window is shifted inward so that it stays inside
// the axis; indices are clamped (duplicating edge samples) only when the
// axis has fewer than k+1 cells.
func neighborIndices(center, k, n int, periodic bool) []int {
	start := center - k/2
	if !periodic && n >= k+1 {
		if start < 0 {
			start = 0
		}
		if start > n-1-k {
			start = n - 1 - k
		}
	}
	idx := make([]int, k+1)
	for i := 0; i <= k; i++ {
		v := start + i
		if periodic {
			v = ((v % n) + n) % n
		} else {
			if v < 0 {
				v = 0
			}
			if v > n-1 {
				v = n - 1
			}
		}
		idx[i] = v
	}
	return idx
}

// lagrange1D evaluates the Lagrange interpolating polynomial through
// (xs[i], ys[i]) at x
func lagrange1D(xs, ys []float64, x float64) float64 {
	n := len(xs)
	result := 0.0
	for i := 0; i < n; i++ {
		term := ys[i]
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			denom := xs[i] - xs[j]
			if denom == 0 {
				continue
			}
			term *= (x - xs[j]) / denom
		}
		result += term
	}
	return result
}

// scalarSampleFn fetches the scalar value at a cell, used to keep the
// neighborhood-gather and fit logic generic over scalar vs. one vector
// component.
type scalarSampleFn[S geometry.Real] func(idx geometry.Idx3) float64

// sample performs the full kernel (§4.2) for one scalar quantity given its
// lookup function, returning a Result in tracing precision.
func (ip *Interpolator[S]) sample(g *geometry.Grid[S], p vec3.Vec3, fn scalarSampleFn[S]) Result[float64] {
	storagePoint := geometry.Point3[S]{X: S(p.X), Y: S(p.Y), Z: S(p.Z)}
	center, ok := g.FindCell(storagePoint)
	if !ok {
		return Outside[float64]()
	}
	k := ip.cfg.Order
	shape := g.Shape()
	n := [3]int{shape.I, shape.J, shape.K}
	periodic := [3]bool{g.IsPeriodic(0), g.IsPeriodic(1), g.IsPeriodic(2)}
	idxI := neighborIndices(center.I, k, n[0], periodic[0])
	idxJ := neighborIndices(center.J, k, n[1], periodic[1])
	idxK := neighborIndices(center.K, k, n[2], periodic[2])

	// gather the full (k+1)^3 neighborhood cube
	cube := make([][][]float64, len(idxI))
	minV, maxV, sum, count := math.Inf(1), math.Inf(-1), 0.0, 0
	for ii, i := range idxI {
		cube[ii] = make([][]float64, len(idxJ))
		for jj, j := range idxJ {
			cube[ii][jj] = make([]float64, len(idxK))
			for kk, kIdx := range idxK {
				v := fn(geometry.Idx3{I: i, J: j, K: kIdx})
				cube[ii][jj][kk] = v
				if v < minV {
					minV = v
				}
				if v > maxV {
					maxV = v
				}
				sum += v
				count++
			}
		}
	}
	mean := sum / float64(count)
	var sigma float64
	if math.Abs(mean) > 1e-300 {
		sigma = (maxV - minV) / math.Abs(mean)
	} else {
		sigma = maxV - minV
	}

	qx, qy, qz := float64(storagePoint.X), float64(storagePoint.Y), float64(storagePoint.Z)

	if sigma > ip.cfg.VariationThresholdForLinear {
		return Inside(ip.multilinear(g, center, periodic, n, fn, qx, qy, qz))
	}
	return Inside(ip.tensorLagrange(g, idxI, idxJ, idxK, cube, qx, qy, qz))
}

// tensorLagrange reduces the (k+1)^3 cube to a single value via three
// nested 1-D Lagrange fits (innermost axis first), the standard separable
// tensor-product interpolation for a grid of samples.
func (ip *Interpolator[S]) tensorLagrange(g *geometry.Grid[S], idxI, idxJ, idxK []int, cube [][][]float64, qx, qy, qz float64) float64 {
	zs := make([]float64, len(idxK))
	for k, kIdx := range idxK {
		zs[k] = float64(g.Axes[2].Centers[kIdx])
	}
	ys := make([]float64, len(idxJ))
	for j, jIdx := range idxJ {
		ys[j] = float64(g.Axes[1].Centers[jIdx])
	}
	xs := make([]float64, len(idxI))
	for i, iIdx := range idxI {
		xs[i] = float64(g.Axes[0].Centers[iIdx])
	}

	// interpolate along z, for every (i,j)
	planeAtZ := make([][]float64, len(idxI))
	for i := range idxI {
		planeAtZ[i] = make([]float64, len(idxJ))
		for j := range idxJ {
			planeAtZ[i][j] = lagrange1D(zs, cube[i][j], qz)
		}
	}
	// interpolate along y, for every i
	lineAtY := make([]float64, len(idxI))
	for i := range idxI {
		lineAtY[i] = lagrange1D(ys, planeAtZ[i], qy)
	}
	// interpolate along x
	return lagrange1D(xs, lineAtY, qx)
}

// multilinear evaluates the innermost 2x2x2 bracketing cell corners
func (ip *Interpolator[S]) multilinear(g *geometry.Grid[S], center geometry.Idx3, periodic [3]bool, n [3]int, fn scalarSampleFn[S], qx, qy, qz float64) float64 {
	bracket := func(axis, c int) (lo, hi int, t float64) {
		centers := g.Axes[axis].Centers
		q := [3]float64{qx, qy, qz}[axis]
		lo = c
		hi = c + 1
		if q < float64(centers[c]) {
			lo = c - 1
			hi = c
			if lo < 0 {
				if periodic[axis] {
					lo = n[axis] - 1
				} else {
					lo = 0
				}
			}
		}
		if hi > n[axis]-1 {
			if periodic[axis] {
				hi = 0
			} else {
				hi = n[axis] - 1
				lo = n[axis] - 2
				if lo < 0 {
					lo = 0
				}
			}
		}
		width := float64(centers[hi]) - float64(centers[lo])
		if periodic[axis] && hi < lo { // periodic wrap-around span correction
			span := float64(g.Axes[axis].Upper - g.Axes[axis].Lower)
			width += span
			if q < float64(centers[lo]) {
				q += span
			}
		}
		if width == 0 {
			t = 0
		} else {
			t = (q - float64(centers[lo])) / width
		}
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		return
	}
	loI, hiI, tx := bracket(0, center.I)
	loJ, hiJ, ty := bracket(1, center.J)
	loK, hiK, tz := bracket(2, center.K)

	corner := func(i, j, k int) float64 { return fn(geometry.Idx3{I: i, J: j, K: k}) }
	c000 := corner(loI, loJ, loK)
	c100 := corner(hiI, loJ, loK)
	c010 := corner(loI, hiJ, loK)
	c110 := corner(hiI, hiJ, loK)
	c001 := corner(loI, loJ, hiK)
	c101 := corner(hiI, loJ, hiK)
	c011 := corner(loI, hiJ, hiK)
	c111 := corner(hiI, hiJ, hiK)

	c00 := c000*(1-tx) + c100*tx
	c10 := c010*(1-tx) + c110*tx
	c01 := c001*(1-tx) + c101*tx
	c11 := c011*(1-tx) + c111*tx

	c0 := c00*(1-ty) + c10*ty
	c1 := c01*(1-ty) + c11*ty

	return c0*(1-tz) + c1*tz
}

// InterpScalarField samples a scalar field at p
func (ip *Interpolator[S]) InterpScalarField(f *field.ScalarField[S], p vec3.Vec3) Result[float64] {
	return ip.sample(f.Grid, p, func(idx geometry.Idx3) float64 { return float64(f.At(idx)) })
}

// InterpVectorField samples a vector field at p
func (ip *Interpolator[S]) InterpVectorField(f *field.VectorField[S], p vec3.Vec3) Result[vec3.Vec3] {
	rx := ip.sample(f.Grid, p, func(idx geometry.Idx3) float64 { return float64(f.X.At(idx)) })
	if !rx.Inside {
		return Outside[vec3.Vec3]()
	}
	ry := ip.sample(f.Grid, p, func(idx geometry.Idx3) float64 { return float64(f.Y.At(idx)) })
	rz := ip.sample(f.Grid, p, func(idx geometry.Idx3) float64 { return float64(f.Z.At(idx)) })
	return Inside(vec3.New(rx.Value, ry.Value, rz.Value))
}

// ScalarSampler adapts one scalar field to the stepper package's field
// interface, so the stepper never needs to know the storage precision.
type ScalarSampler struct {
	sample func(p vec3.Vec3) (float64, bool)
}

// Sample implements the stepper.ScalarSampler interface
func (s ScalarSampler) Sample(p vec3.Vec3) (float64, bool) { return s.sample(p) }

// ScalarSamplerFor returns a ScalarSampler bound to f
func (ip *Interpolator[S]) ScalarSamplerFor(f *field.ScalarField[S]) ScalarSampler {
	return ScalarSampler{sample: func(p vec3.Vec3) (float64, bool) {
		r := ip.InterpScalarField(f, p)
		return r.Value, r.Inside
	}}
}

// VectorSampler adapts one vector field to the stepper package's field
// interface.
type VectorSampler struct {
	sample func(p vec3.Vec3) (vec3.Vec3, bool)
}

// Sample implements the stepper.VectorSampler interface
func (s VectorSampler) Sample(p vec3.Vec3) (vec3.Vec3, bool) { return s.sample(p) }

// VectorSamplerFor returns a VectorSampler bound to f
func (ip *Interpolator[S]) VectorSamplerFor(f *field.VectorField[S]) VectorSampler {
	return VectorSampler{sample: func(p vec3.Vec3) (vec3.Vec3, bool) {
		r := ip.InterpVectorField(f, p)
		return r.Value, r.Inside
	}}
}

// GridWrapper adapts a *geometry.Grid[S] to the stepper package's
// GridWrapper interface, converting at the tracing/storage-precision
// boundary.
type GridWrapper[S geometry.Real] struct {
	Grid *geometry.Grid[S]
}

// WrapVec3 implements stepper.GridWrapper
func (w GridWrapper[S]) WrapVec3(p vec3.Vec3) (vec3.Vec3, bool) {
	wrapped, ok := w.Grid.WrapVec3(geometry.Vec3Like(p))
	return vec3.Vec3(wrapped), ok
}
