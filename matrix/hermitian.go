// SPDX-License-Identifier: MIT
// Package matrix: Hermitian diagnostic.
//
// IsHermitian is a check, not a correction: it reads the matrix and reports.
// The reported distance is ‖A − Aᴴ‖_F divided by the number of nonzero
// entries of A. It is a normalization for comparing runs, not an induced norm.

package matrix

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// HermitianCheck is the outcome of IsHermitian.
type HermitianCheck struct {
	// IsHermitian is true when every entry of A is close to the matching
	// entry of Aᴴ under the configured tolerances.
	IsHermitian bool

	// Distance is 0 when IsHermitian, else ‖A − Aᴴ‖_F / NonZeros.
	Distance float64

	// NonZeros is the number of entries of A that are not exactly zero.
	NonZeros int
}

// IsHermitian compares the dense complex matrix a with its conjugate
// transpose.
// Stage 1 (Validate): non-nil, square.
// Stage 2 (Execute): one pass over all n² entries accumulating the closeness
// verdict, the squared Frobenius norm of A − Aᴴ and the nonzero count.
// Stage 3 (Finalize): {true, 0} when close; otherwise the normalized distance.
// A matrix with no nonzero entries is exactly Hermitian, so the division by
// NonZeros is never reached with zero; the guard keeps Distance at 0 anyway.
// Returns ErrNilMatrix or ErrNonSquare.
// Complexity: O(n²) time, O(1) extra memory.
func IsHermitian(a *mat.CDense, opts ...Option) (HermitianCheck, error) {
	if a == nil {
		return HermitianCheck{}, ErrNilMatrix
	}
	r, c := a.Dims()
	if r != c {
		return HermitianCheck{}, validatorErrorf("IsHermitian", ErrNonSquare)
	}
	o := gatherOptions(opts...)

	var (
		allClose = true
		sumSq    float64
		nnz      int
	)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := a.At(i, j)
			h := cmplx.Conj(a.At(j, i))
			if v != 0 {
				nnz++
			}
			d := cmplx.Abs(v - h)
			sumSq += d * d
			if allClose && !isClose(v, h, o) {
				allClose = false
			}
		}
	}

	if allClose {
		return HermitianCheck{IsHermitian: true, NonZeros: nnz}, nil
	}
	if nnz == 0 {
		return HermitianCheck{NonZeros: 0}, nil
	}

	return HermitianCheck{Distance: math.Sqrt(sumSq) / float64(nnz), NonZeros: nnz}, nil
}

// IsHermitianCSR densifies m and runs IsHermitian on the result.
// Complexity: O(n²) memory.
func IsHermitianCSR(m *CSR[complex128], opts ...Option) (HermitianCheck, error) {
	if err := ValidateSquare(m); err != nil {
		return HermitianCheck{}, err
	}
	d, err := ToCDense(m)
	if err != nil {
		return HermitianCheck{}, err
	}

	return IsHermitian(d, opts...)
}

// isClose applies |a-b| <= atol + rtol*|b| with b as the reference operand.
// Equal infinities are close; NaN is never close.
func isClose(a, b complex128, o Options) bool {
	if a == b {
		return true
	}
	if cmplx.IsNaN(a) || cmplx.IsNaN(b) || cmplx.IsInf(a) || cmplx.IsInf(b) {
		return false
	}

	return cmplx.Abs(a-b) <= o.atol+o.rtol*cmplx.Abs(b)
}
