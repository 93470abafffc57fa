// SPDX-License-Identifier: MIT
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/cloudlap/matrix"
	"github.com/stretchr/testify/require"
)

// TestToleranceOptionsPanic verifies that nonsensical tolerances are
// rejected at construction time.
func TestToleranceOptionsPanic(t *testing.T) {
	for _, bad := range []float64{-1e-9, math.NaN(), math.Inf(1)} {
		require.PanicsWithValue(t, "matrix: WithRelTol: rtol must be finite, non-negative",
			func() { matrix.WithRelTol(bad) })
		require.PanicsWithValue(t, "matrix: WithAbsTol: atol must be finite, non-negative",
			func() { matrix.WithAbsTol(bad) })
	}
	require.NotPanics(t, func() { matrix.WithTolerance(0, 0) })
}

// TestToleranceOptionsApply shows the options change the verdict: a 1e-6
// asymmetry passes the default tolerances but not zero tolerances.
func TestToleranceOptionsApply(t *testing.T) {
	m := mustBuild(t, 2, 2,
		entry[complex128]{0, 1, 1},
		entry[complex128]{1, 0, 1 + 1e-6},
	)

	loose, err := matrix.IsHermitianCSR(m)
	require.NoError(t, err)
	require.True(t, loose.IsHermitian)

	strict, err := matrix.IsHermitianCSR(m, matrix.WithTolerance(0, 0))
	require.NoError(t, err)
	require.False(t, strict.IsHermitian)
	require.InEpsilon(t, math.Sqrt(2)*1e-6/2, strict.Distance, 1e-6)

	// last writer wins
	again, err := matrix.IsHermitianCSR(m, matrix.WithTolerance(0, 0), matrix.WithRelTol(1e-5))
	require.NoError(t, err)
	require.True(t, again.IsHermitian)
}
