// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep producers and writers minimal by delegating nil/shape checks here.
//
// Note:
//  - Each composite validator follows a fixed sequence (NotNil → Shape).

package matrix

import "fmt"

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateSquare ensures m is non-nil and square.
// Complexity: O(1).
func ValidateSquare[T Scalar](m *CSR[T]) error {
	if m == nil {
		return validatorErrorf("ValidateSquare", ErrNilMatrix)
	}
	if m.rows != m.cols {
		return validatorErrorf("ValidateSquare", fmt.Errorf("%dx%d: %w", m.rows, m.cols, ErrNonSquare))
	}

	return nil
}

// ValidateShape ensures m is non-nil and exactly rows×cols.
// Complexity: O(1).
func ValidateShape[T Scalar](m *CSR[T], rows, cols int) error {
	if m == nil {
		return validatorErrorf("ValidateShape", ErrNilMatrix)
	}
	if m.rows != rows || m.cols != cols {
		return validatorErrorf("ValidateShape",
			fmt.Errorf("got %dx%d, want %dx%d: %w", m.rows, m.cols, rows, cols, ErrBadShape))
	}

	return nil
}

// ValidateFinite ensures every stored value of m is finite.
// Complexity: O(nnz).
func ValidateFinite[T Scalar](m *CSR[T]) error {
	if m == nil {
		return validatorErrorf("ValidateFinite", ErrNilMatrix)
	}
	for r := 0; r < m.rows; r++ {
		for k := m.indptr[r]; k < m.indptr[r+1]; k++ {
			if !finite(m.data[k]) {
				return validatorErrorf("ValidateFinite",
					fmt.Errorf("(%d,%d): %w", r, m.indices[k], ErrNaNInf))
			}
		}
	}

	return nil
}

// finite reports whether v has no NaN or Inf component.
func finite[T Scalar](v T) bool {
	switch x := any(v).(type) {
	case float64:
		return !isNonFinite(x)
	case complex128:
		return !isNonFinite(real(x)) && !isNonFinite(imag(x))
	}

	return false
}
