// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for CSR, Triplets and Diagonal.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/cloudlap/matrix"
	"github.com/stretchr/testify/require"
)

// mustBuild assembles a CSR from (row, col, value) triples or fails the test.
func mustBuild[T matrix.Scalar](t *testing.T, rows, cols int, entries ...entry[T]) *matrix.CSR[T] {
	t.Helper()
	b, err := matrix.NewTriplets[T](rows, cols, len(entries))
	require.NoError(t, err)
	for _, e := range entries {
		require.NoError(t, b.Add(e.r, e.c, e.v))
	}

	return b.Build()
}

// entry is one triplet used by test fixtures.
type entry[T matrix.Scalar] struct {
	r, c int
	v    T
}

// TestTripletsBuildSortsAndSums verifies column ordering and duplicate merging.
func TestTripletsBuildSortsAndSums(t *testing.T) {
	m := mustBuild(t, 3, 3,
		entry[float64]{2, 2, 5},
		entry[float64]{0, 2, 1},
		entry[float64]{0, 0, 2},
		entry[float64]{0, 2, 3}, // duplicate of (0,2)
		entry[float64]{1, 1, -1},
	)

	require.Equal(t, 4, m.NNZ())                     // (0,2) merged
	require.Equal(t, []int{0, 2, 3, 4}, m.Indptr())  // row offsets
	require.Equal(t, []int{0, 2, 1, 2}, m.Indices()) // sorted per row
	require.Equal(t, []float64{2, 4, -1, 5}, m.Data())

	v, err := m.At(0, 2)
	require.NoError(t, err)
	require.Equal(t, 4.0, v) // 1 + 3

	v, err = m.At(1, 0)
	require.NoError(t, err)
	require.Zero(t, v) // absent entry reads as zero
}

// TestTripletsRejects covers index and finiteness guards.
func TestTripletsRejects(t *testing.T) {
	_, err := matrix.NewTriplets[float64](-1, 2, 0)
	require.ErrorIs(t, err, matrix.ErrBadShape)

	b, err := matrix.NewTriplets[complex128](2, 2, 0)
	require.NoError(t, err)
	require.ErrorIs(t, b.Add(2, 0, 1), matrix.ErrOutOfRange)
	require.ErrorIs(t, b.Add(0, -1, 1), matrix.ErrOutOfRange)
	require.ErrorIs(t, b.Add(0, 0, complex(math.NaN(), 0)), matrix.ErrNaNInf)
	require.ErrorIs(t, b.Add(0, 0, complex(0, math.Inf(1))), matrix.ErrNaNInf)
	require.Zero(t, b.Len())
}

// TestAtOutOfRange ensures At reports ErrOutOfRange instead of panicking.
func TestAtOutOfRange(t *testing.T) {
	m := mustBuild(t, 2, 2, entry[float64]{0, 0, 1})

	_, err := m.At(-1, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = m.At(0, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestNewCSRValidatesLayout checks each corruption class.
func TestNewCSRValidatesLayout(t *testing.T) {
	cases := []struct {
		name    string
		indptr  []int
		indices []int
		data    []float64
	}{
		{"short indptr", []int{0, 1}, []int{0}, []float64{1}},
		{"nonzero start", []int{1, 1, 1}, []int{0}, []float64{1}},
		{"decreasing", []int{0, 2, 1}, []int{0, 1}, []float64{1, 2}},
		{"column bound", []int{0, 1, 1}, []int{2}, []float64{1}},
		{"unsorted", []int{0, 2, 2}, []int{1, 0}, []float64{1, 2}},
		{"duplicate", []int{0, 2, 2}, []int{1, 1}, []float64{1, 2}},
		{"length mismatch", []int{0, 1, 1}, []int{0}, []float64{1, 2}},
		{"indptr past end", []int{0, 100, 1}, []int{0}, []float64{1}},
		{"negative indptr", []int{0, -1, 1}, []int{0}, []float64{1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := matrix.NewCSR(2, 2, tc.indptr, tc.indices, tc.data)
			require.ErrorIs(t, err, matrix.ErrCorruptCSR)
		})
	}

	_, err := matrix.NewCSR[float64](-1, 2, nil, nil, nil)
	require.ErrorIs(t, err, matrix.ErrBadShape)

	m, err := matrix.NewCSR(2, 3, []int{0, 2, 3}, []int{0, 2, 1}, []float64{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, mustBuild(t, 2, 3,
		entry[float64]{0, 0, 1}, entry[float64]{0, 2, 2}, entry[float64]{1, 1, 3}), m)
}

// TestNewCSRCopiesInput ensures later mutation of the caller's slices is invisible.
func TestNewCSRCopiesInput(t *testing.T) {
	indptr, indices, data := []int{0, 1}, []int{0}, []float64{7}
	m, err := matrix.NewCSR(1, 1, indptr, indices, data)
	require.NoError(t, err)

	data[0] = 99
	v, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 7.0, v)

	// accessor copies are independent too
	m.Data()[0] = 42
	v, _ = m.At(0, 0)
	require.Equal(t, 7.0, v)
}

// TestTranspose verifies structure and values of mᵀ for a rectangular matrix.
func TestTranspose(t *testing.T) {
	m := mustBuild(t, 2, 3,
		entry[complex128]{0, 1, 1 + 2i},
		entry[complex128]{1, 0, 3},
		entry[complex128]{1, 2, -1i},
	)
	tr := m.Transpose()

	r, c := tr.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)
	require.Equal(t, []int{0, 1, 2, 3}, tr.Indptr())
	require.Equal(t, []int{1, 0, 1}, tr.Indices())
	require.Equal(t, []complex128{3, 1 + 2i, -1i}, tr.Data()) // no conjugation
	require.True(t, tr.Transpose().Equal(m))
}

// TestDiagonal checks layout of the diagonal constructor, zeros kept.
func TestDiagonal(t *testing.T) {
	d := matrix.Diagonal([]float64{1, 0, 3})

	require.Equal(t, 3, d.Rows())
	require.Equal(t, 3, d.Cols())
	require.Equal(t, 3, d.NNZ()) // explicit zero is stored
	require.Equal(t, []int{0, 1, 2}, d.Indices())
	require.NoError(t, matrix.ValidateSquare(d))
	require.NoError(t, matrix.ValidateShape(d, 3, 3))
	require.ErrorIs(t, matrix.ValidateShape(d, 3, 4), matrix.ErrBadShape)
}

// TestEqual covers nil handling and value sensitivity.
func TestEqual(t *testing.T) {
	a := mustBuild(t, 2, 2, entry[float64]{0, 1, 1})
	b := mustBuild(t, 2, 2, entry[float64]{0, 1, 1})
	c := mustBuild(t, 2, 2, entry[float64]{0, 1, 2})

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.False(t, a.Equal(nil))

	var nilM *matrix.CSR[float64]
	require.True(t, nilM.Equal(nil))
}

// TestValidators covers nil and non-square paths.
func TestValidators(t *testing.T) {
	var nilM *matrix.CSR[float64]
	require.ErrorIs(t, matrix.ValidateSquare(nilM), matrix.ErrNilMatrix)
	require.ErrorIs(t, matrix.ValidateFinite(nilM), matrix.ErrNilMatrix)

	rect := mustBuild[float64](t, 2, 3)
	require.ErrorIs(t, matrix.ValidateSquare(rect), matrix.ErrNonSquare)
	require.NoError(t, matrix.ValidateFinite(rect))
}
