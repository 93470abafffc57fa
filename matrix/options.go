// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for numeric checks. This file
// defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that applies setters over defaults.
//
// Notes:
//   - The closeness rule mirrors numpy.allclose: |a-b| <= atol + rtol*|b|,
//     where b is the reference operand. It is not symmetric in a and b.
//   - NaN is never close to anything, including NaN.
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultRelTol is the relative tolerance of the closeness rule.
	DefaultRelTol = 1e-5

	// DefaultAbsTol is the absolute tolerance of the closeness rule.
	DefaultAbsTol = 1e-8
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicRelTolInvalid = "matrix: WithRelTol: rtol must be finite, non-negative"
	panicAbsTolInvalid = "matrix: WithAbsTol: atol must be finite, non-negative"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
// Constructors panic only on nonsensical values (programmer error).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept ...Option.
type Options struct {
	rtol float64 // >= 0; DefaultRelTol
	atol float64 // >= 0; DefaultAbsTol
}

// WithRelTol sets the relative tolerance used by closeness checks.
// Panics when rtol is negative, NaN or ±Inf.
// Complexity: O(1).
func WithRelTol(rtol float64) Option {
	if isNonFinite(rtol) || rtol < 0 {
		panic(panicRelTolInvalid)
	}

	return func(o *Options) { o.rtol = rtol }
}

// WithAbsTol sets the absolute tolerance used by closeness checks.
// Panics when atol is negative, NaN or ±Inf.
// Complexity: O(1).
func WithAbsTol(atol float64) Option {
	if isNonFinite(atol) || atol < 0 {
		panic(panicAbsTolInvalid)
	}

	return func(o *Options) { o.atol = atol }
}

// WithTolerance is shorthand for WithRelTol(rtol) followed by WithAbsTol(atol).
func WithTolerance(rtol, atol float64) Option {
	r, a := WithRelTol(rtol), WithAbsTol(atol)

	return func(o *Options) {
		r(o)
		a(o)
	}
}

// defaultOptions returns Options populated with the package defaults.
func defaultOptions() Options {
	return Options{rtol: DefaultRelTol, atol: DefaultAbsTol}
}

// gatherOptions applies opts over defaults, skipping nil setters.
// Complexity: O(len(opts)).
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// isNonFinite reports whether x is NaN or ±Inf.
func isNonFinite(x float64) bool {
	return math.IsNaN(x) || math.IsInf(x, 0)
}
