// SPDX-License-Identifier: MIT
// Package matrix: Triplets accumulates (row, col, value) entries and compiles
// them into a CSR. Duplicate coordinates are summed in insertion order, so the
// result is deterministic for a deterministic sequence of Add calls.

package matrix

import (
	"cmp"
	"fmt"
	"slices"
)

// Triplets is a coordinate-format builder for CSR matrices.
type Triplets[T Scalar] struct {
	rows, cols int
	ri, ci     []int
	vals       []T
}

// NewTriplets returns an empty builder for a rows×cols matrix with room for
// capacity entries.
// Returns ErrBadShape for negative dimensions.
// Complexity: O(capacity) memory.
func NewTriplets[T Scalar](rows, cols, capacity int) (*Triplets[T], error) {
	if rows < 0 || cols < 0 {
		return nil, ErrBadShape
	}
	if capacity < 0 {
		capacity = 0
	}

	return &Triplets[T]{
		rows: rows,
		cols: cols,
		ri:   make([]int, 0, capacity),
		ci:   make([]int, 0, capacity),
		vals: make([]T, 0, capacity),
	}, nil
}

// Add appends value v at (row, col).
// Returns ErrOutOfRange for bad indices and ErrNaNInf for non-finite values.
// Complexity: amortized O(1).
func (t *Triplets[T]) Add(row, col int, v T) error {
	if row < 0 || row >= t.rows || col < 0 || col >= t.cols {
		return fmt.Errorf("Triplets.Add(%d,%d): %w", row, col, ErrOutOfRange)
	}
	if !finite(v) {
		return fmt.Errorf("Triplets.Add(%d,%d): %w", row, col, ErrNaNInf)
	}
	t.ri = append(t.ri, row)
	t.ci = append(t.ci, col)
	t.vals = append(t.vals, v)

	return nil
}

// Len returns the number of accumulated entries (before duplicate merging).
func (t *Triplets[T]) Len() int { return len(t.vals) }

// Build compiles the accumulated entries into a CSR.
// Stage 1 (Prepare): bucket entries by row (counting sort, stable).
// Stage 2 (Execute): stable-sort each bucket by column, merge duplicates.
// Stage 3 (Finalize): return the CSR; the builder stays usable.
// Complexity: O(nnz log(max row nnz) + rows).
func (t *Triplets[T]) Build() *CSR[T] {
	start := make([]int, t.rows+1)
	for _, r := range t.ri {
		start[r+1]++
	}
	for r := 0; r < t.rows; r++ {
		start[r+1] += start[r]
	}
	order := make([]int, len(t.ri))
	next := append([]int(nil), start[:t.rows]...)
	for k, r := range t.ri {
		order[next[r]] = k
		next[r]++
	}

	m := &CSR[T]{
		rows:    t.rows,
		cols:    t.cols,
		indptr:  make([]int, t.rows+1),
		indices: make([]int, 0, len(t.ri)),
		data:    make([]T, 0, len(t.ri)),
	}
	for r := 0; r < t.rows; r++ {
		seg := order[start[r]:start[r+1]]
		slices.SortStableFunc(seg, func(a, b int) int { return cmp.Compare(t.ci[a], t.ci[b]) })
		for _, k := range seg {
			c := t.ci[k]
			if n := len(m.indices); n > m.indptr[r] && m.indices[n-1] == c {
				m.data[n-1] += t.vals[k]
				continue
			}
			m.indices = append(m.indices, c)
			m.data = append(m.data, t.vals[k])
		}
		m.indptr[r+1] = len(m.indices)
	}

	return m
}
