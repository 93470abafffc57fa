// SPDX-License-Identifier: MIT
// Package matrix: CSR is a compressed-sparse-row matrix over float64 or
// complex128.
//
// Layout invariants (checked by NewCSR, maintained by every constructor):
//   - len(indptr) == rows+1, indptr[0] == 0, indptr non-decreasing,
//     indptr[rows] == len(indices) == len(data);
//   - every column index lies in [0, cols);
//   - column indices are strictly increasing within a row.
//
// Explicitly stored zeros are kept; NNZ counts stored entries, the same way
// scipy.sparse reports nnz.

package matrix

import (
	"fmt"
	"sort"
)

// Scalar is the element type set supported by the sparse containers.
type Scalar interface {
	float64 | complex128
}

// CSR is an immutable rows×cols sparse matrix in compressed-sparse-row form.
type CSR[T Scalar] struct {
	rows, cols int
	indptr     []int // row start offsets, length rows+1
	indices    []int // column index per stored entry
	data       []T   // value per stored entry
}

// csrErrorf wraps an underlying error with CSR method context.
func csrErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("CSR.%s(%d,%d): %w", method, row, col, err)
}

// NewCSR builds a CSR from raw arrays, copying them.
// Stage 1 (Validate): shape, indptr length, bounds and monotonicity, then
// column bounds and order.
// Stage 2 (Finalize): deep-copy the arrays into a new CSR.
// Returns ErrBadShape for negative dimensions and ErrCorruptCSR for layout
// violations.
// Complexity: O(rows + nnz).
func NewCSR[T Scalar](rows, cols int, indptr, indices []int, data []T) (*CSR[T], error) {
	if rows < 0 || cols < 0 {
		return nil, ErrBadShape
	}
	if len(indptr) != rows+1 || indptr[0] != 0 {
		return nil, fmt.Errorf("indptr length %d for %d rows: %w", len(indptr), rows, ErrCorruptCSR)
	}
	if len(indices) != len(data) || indptr[rows] != len(indices) {
		return nil, fmt.Errorf("indptr[%d]=%d, %d indices, %d values: %w",
			rows, indptr[rows], len(indices), len(data), ErrCorruptCSR)
	}
	for r := 0; r < rows; r++ {
		if indptr[r+1] < indptr[r] {
			return nil, fmt.Errorf("indptr decreases at row %d: %w", r, ErrCorruptCSR)
		}
		if indptr[r+1] > len(indices) {
			return nil, fmt.Errorf("indptr[%d]=%d exceeds %d indices: %w", r+1, indptr[r+1], len(indices), ErrCorruptCSR)
		}
	}
	for r := 0; r < rows; r++ {
		lo, hi := indptr[r], indptr[r+1]
		for k := lo; k < hi; k++ {
			c := indices[k]
			if c < 0 || c >= cols {
				return nil, fmt.Errorf("column %d in row %d: %w", c, r, ErrCorruptCSR)
			}
			if k > lo && indices[k-1] >= c {
				return nil, fmt.Errorf("unsorted or duplicate column %d in row %d: %w", c, r, ErrCorruptCSR)
			}
		}
	}

	return &CSR[T]{
		rows:    rows,
		cols:    cols,
		indptr:  append([]int(nil), indptr...),
		indices: append([]int(nil), indices...),
		data:    append([]T(nil), data...),
	}, nil
}

// Diagonal returns the n×n matrix with d on its diagonal, one stored entry
// per row (zeros included).
// Complexity: O(n).
func Diagonal[T Scalar](d []T) *CSR[T] {
	n := len(d)
	m := &CSR[T]{
		rows:    n,
		cols:    n,
		indptr:  make([]int, n+1),
		indices: make([]int, n),
		data:    append([]T(nil), d...),
	}
	for i := 0; i < n; i++ {
		m.indptr[i+1] = i + 1
		m.indices[i] = i
	}

	return m
}

// Rows returns the number of rows.
func (m *CSR[T]) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *CSR[T]) Cols() int { return m.cols }

// Dims returns (rows, cols).
func (m *CSR[T]) Dims() (int, int) { return m.rows, m.cols }

// NNZ returns the number of stored entries.
func (m *CSR[T]) NNZ() int { return len(m.data) }

// Indptr returns a copy of the row offset array.
func (m *CSR[T]) Indptr() []int { return append([]int(nil), m.indptr...) }

// Indices returns a copy of the column index array.
func (m *CSR[T]) Indices() []int { return append([]int(nil), m.indices...) }

// Data returns a copy of the stored values, in row-major storage order.
func (m *CSR[T]) Data() []T { return append([]T(nil), m.data...) }

// At returns the value at (row, col); absent entries read as zero.
// Stage 1 (Validate): bounds check.
// Stage 2 (Execute): binary search within the row.
// Complexity: O(log nnz(row)).
func (m *CSR[T]) At(row, col int) (T, error) {
	var zero T
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return zero, csrErrorf("At", row, col, ErrOutOfRange)
	}
	lo, hi := m.indptr[row], m.indptr[row+1]
	seg := m.indices[lo:hi]
	k := sort.SearchInts(seg, col)
	if k < len(seg) && seg[k] == col {
		return m.data[lo+k], nil
	}

	return zero, nil
}

// Do calls fn for every stored entry in row-major order.
// Complexity: O(rows + nnz).
func (m *CSR[T]) Do(fn func(row, col int, v T)) {
	for r := 0; r < m.rows; r++ {
		for k := m.indptr[r]; k < m.indptr[r+1]; k++ {
			fn(r, m.indices[k], m.data[k])
		}
	}
}

// Transpose returns mᵀ (no conjugation). Rows of the result keep sorted
// column order because rows of m are scanned in increasing order.
// Complexity: O(rows + cols + nnz).
func (m *CSR[T]) Transpose() *CSR[T] {
	t := &CSR[T]{
		rows:    m.cols,
		cols:    m.rows,
		indptr:  make([]int, m.cols+1),
		indices: make([]int, len(m.indices)),
		data:    make([]T, len(m.data)),
	}
	for _, c := range m.indices {
		t.indptr[c+1]++
	}
	for c := 0; c < m.cols; c++ {
		t.indptr[c+1] += t.indptr[c]
	}
	next := append([]int(nil), t.indptr[:m.cols]...)
	for r := 0; r < m.rows; r++ {
		for k := m.indptr[r]; k < m.indptr[r+1]; k++ {
			c := m.indices[k]
			dst := next[c]
			t.indices[dst] = r
			t.data[dst] = m.data[k]
			next[c]++
		}
	}

	return t
}

// Equal reports whether m and o have identical shape, structure and values.
// Values are compared exactly (NaN never equals NaN).
// Complexity: O(rows + nnz).
func (m *CSR[T]) Equal(o *CSR[T]) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.rows != o.rows || m.cols != o.cols || len(m.data) != len(o.data) {
		return false
	}
	for i := range m.indptr {
		if m.indptr[i] != o.indptr[i] {
			return false
		}
	}
	for k := range m.indices {
		if m.indices[k] != o.indices[k] || m.data[k] != o.data[k] {
			return false
		}
	}

	return true
}
