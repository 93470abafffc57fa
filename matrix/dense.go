// Package matrix: converters from CSR into gonum dense matrices.
// gonum refuses zero-sized dense matrices, so empty shapes are reported as
// ErrBadShape instead of panicking inside mat.
package matrix

import "gonum.org/v1/gonum/mat"

// ToDense returns the dense float64 form of m.
// Complexity: O(rows*cols) memory, O(rows*cols + nnz) time.
func ToDense(m *CSR[float64]) (*mat.Dense, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	if m.rows == 0 || m.cols == 0 {
		return nil, ErrBadShape
	}
	d := mat.NewDense(m.rows, m.cols, nil)
	m.Do(func(r, c int, v float64) { d.Set(r, c, v) })

	return d, nil
}

// ToCDense returns the dense complex128 form of m.
// Complexity: O(rows*cols) memory, O(rows*cols + nnz) time.
func ToCDense(m *CSR[complex128]) (*mat.CDense, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	if m.rows == 0 || m.cols == 0 {
		return nil, ErrBadShape
	}
	d := mat.NewCDense(m.rows, m.cols, nil)
	m.Do(func(r, c int, v complex128) { d.Set(r, c, v) })

	return d, nil
}
