// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the matrix validators.
package matrix_test

import (
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/cloudlap/matrix"
	"github.com/stretchr/testify/require"
)

// TestValidateSquare covers nil inputs, square and rectangular shapes.
func TestValidateSquare(t *testing.T) {
	t.Parallel()

	zeros := func(r, c int) *matrix.CSR[float64] {
		m, err := matrix.NewCSR[float64](r, c, make([]int, r+1), nil, nil)
		require.NoError(t, err)
		return m
	}

	tests := []struct {
		name string
		m    *matrix.CSR[float64]
		want error
	}{
		{"nil", nil, matrix.ErrNilMatrix},
		{"1x1", zeros(1, 1), nil},
		{"3x3", zeros(3, 3), nil},
		{"2x3", zeros(2, 3), matrix.ErrNonSquare},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := matrix.ValidateSquare(tc.m)
			if tc.want == nil {
				require.NoError(t, err)
			} else {
				require.Truef(t, errors.Is(err, tc.want),
					"expected errors.Is(%v, %v)", err, tc.want)
			}
		})
	}
}

// TestValidateShape checks exact dimension matching.
func TestValidateShape(t *testing.T) {
	t.Parallel()

	m := matrix.Diagonal([]complex128{1, 2, 3})
	require.NoError(t, matrix.ValidateShape(m, 3, 3))
	require.ErrorIs(t, matrix.ValidateShape(m, 3, 4), matrix.ErrBadShape)
	require.ErrorIs(t, matrix.ValidateShape(m, 6, 6), matrix.ErrBadShape)
	require.ErrorIs(t, matrix.ValidateShape[complex128](nil, 0, 0), matrix.ErrNilMatrix)
}

// TestValidateFinite rejects NaN and ±Inf in either complex component.
func TestValidateFinite(t *testing.T) {
	t.Parallel()

	require.NoError(t, matrix.ValidateFinite(matrix.Diagonal([]float64{0, -1, 1e300})))

	for name, v := range map[string]complex128{
		"nan real": complex(math.NaN(), 0),
		"inf imag": complex(0, math.Inf(-1)),
	} {
		m, err := matrix.NewCSR(1, 1, []int{0, 1}, []int{0}, []complex128{v})
		require.NoError(t, err, name) // NewCSR checks layout only
		require.ErrorIs(t, matrix.ValidateFinite(m), matrix.ErrNaNInf, name)
	}
}
