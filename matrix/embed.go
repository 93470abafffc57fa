// SPDX-License-Identifier: MIT
// Package matrix: real embedding of complex operators.
//
// A complex vector z ∈ ℂⁿ is identified with x ∈ ℝ²ⁿ by x[2i] = Re z[i],
// x[2i+1] = Im z[i]. Under that identification, multiplication by a+bi is the
// 2×2 block [[a, -b], [b, a]], so a Hermitian complex operator maps to a
// symmetric real one.

package matrix

// RealEmbed returns the 2n×2m real form of the n×m complex matrix m.
// Every stored complex entry yields four stored real entries, zeros included,
// so NNZ(result) == 4*NNZ(m).
// Stage 1 (Prepare): allocate exact-size arrays.
// Stage 2 (Execute): expand each complex row into two real rows.
// Complexity: O(rows + nnz).
func RealEmbed(m *CSR[complex128]) (*CSR[float64], error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	nnz := 4 * len(m.data)
	out := &CSR[float64]{
		rows:    2 * m.rows,
		cols:    2 * m.cols,
		indptr:  make([]int, 2*m.rows+1),
		indices: make([]int, 0, nnz),
		data:    make([]float64, 0, nnz),
	}
	for r := 0; r < m.rows; r++ {
		lo, hi := m.indptr[r], m.indptr[r+1]
		// even row: [re, -im]
		for k := lo; k < hi; k++ {
			c, z := m.indices[k], m.data[k]
			out.indices = append(out.indices, 2*c, 2*c+1)
			out.data = append(out.data, real(z), 0-imag(z))
		}
		out.indptr[2*r+1] = len(out.indices)
		// odd row: [im, re]
		for k := lo; k < hi; k++ {
			c, z := m.indices[k], m.data[k]
			out.indices = append(out.indices, 2*c, 2*c+1)
			out.data = append(out.data, imag(z), real(z))
		}
		out.indptr[2*r+2] = len(out.indices)
	}

	return out, nil
}
