// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stepper

// tableau holds one embedded Runge-Kutta-Fehlberg pair's coefficients: A is
// the (strictly lower triangular) stage-coupling matrix, B the weights used
// for the accepted advance, and E the weights of the difference between
// the high- and low-order solutions (used directly for the error estimate,
// §4.3.3).
type tableau struct {
	stages     int
	a          [][]float64
	b          []float64
	e          []float64
	order      int // order p of the advance, used by the PI-control exponents
	errorOrder int // order of the embedded error estimate
}

// rkf23Tableau is the Bogacki-Shampine 3(2) pair: a 3rd-order advance with a
// 2nd-order error estimate, computed over 3 stages that contribute to the
// advance plus a 4th (FSAL-style) stage that only contributes to the error
// estimate and dense-output direction (§4.3, Open Question 3).
var rkf23Tableau = tableau{
	stages: 4,
	a: [][]float64{
		{},
		{1.0 / 2.0},
		{0, 3.0 / 4.0},
		{2.0 / 9.0, 1.0 / 3.0, 4.0 / 9.0},
	},
	b: []float64{2.0 / 9.0, 1.0 / 3.0, 4.0 / 9.0, 0},
	e: []float64{
		2.0/9.0 - 7.0/24.0,
		1.0/3.0 - 1.0/4.0,
		4.0/9.0 - 1.0/3.0,
		0 - 1.0/8.0,
	},
	order:      3,
	errorOrder: 2,
}

// rkf45Tableau is the Cash-Karp 5(4) pair: a 5th-order advance with a
// 4th-order error estimate, 6 stages.
var rkf45Tableau = tableau{
	stages: 6,
	a: [][]float64{
		{},
		{1.0 / 5.0},
		{3.0 / 40.0, 9.0 / 40.0},
		{3.0 / 10.0, -9.0 / 10.0, 6.0 / 5.0},
		{-11.0 / 54.0, 5.0 / 2.0, -70.0 / 27.0, 35.0 / 27.0},
		{1631.0 / 55296.0, 175.0 / 512.0, 575.0 / 13824.0, 44275.0 / 110592.0, 253.0 / 4096.0},
	},
	b: []float64{37.0 / 378.0, 0, 250.0 / 621.0, 125.0 / 594.0, 0, 512.0 / 1771.0},
	e: []float64{
		37.0/378.0 - 2825.0/27648.0,
		0,
		250.0/621.0 - 18575.0/48384.0,
		125.0/594.0 - 13525.0/55296.0,
		0 - 277.0/14336.0,
		512.0/1771.0 - 1.0/4.0,
	},
	order:      5,
	errorOrder: 4,
}
