// SPDX-License-Identifier: MIT
package heat_test

import (
	"context"
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/katalvlaran/cloudlap/heat"
	"github.com/katalvlaran/cloudlap/matrix"
	"github.com/katalvlaran/cloudlap/pointcloud"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var unitSquare = []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}}

// planar returns n seeded points scattered over the z=0 plane.
func planar(n int, seed int64) []r3.Vec {
	rng := rand.New(rand.NewSource(seed))
	pts := make([]r3.Vec, n)
	for i := range pts {
		pts[i] = r3.Vec{X: rng.Float64(), Y: rng.Float64()}
	}

	return pts
}

func TestUnitSquareShapes(t *testing.T) {
	s, err := heat.NewPointCloudSolver(context.Background(), unitSquare)
	require.NoError(t, err)

	l, err := s.ConnectionLaplacian()
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateShape(l, 4, 4))
	require.Equal(t, 16, l.NNZ()) // k clamps to 3: complete graph

	rl, err := s.RealConnectionLaplacian()
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateShape(rl, 8, 8))

	m, err := s.MassMatrix()
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateShape(m, 4, 4))
	for _, a := range m.Data() {
		require.Greater(t, a, 0.0)
	}

	check, err := matrix.IsHermitianCSR(l)
	require.NoError(t, err)
	require.True(t, check.IsHermitian)
}

// TestUnitSquareValues pins the operators of the unit square. Every point
// sees the other three, so all frames coincide, θ_ji = θ_ij + π, r_ij = 1 and
// L is real: side weight ws, diagonal weight wd, L_ii = 2ws + wd. With
// A = 2π/3, h = (4+2√2)/6 and t = h², w = A² exp(-d²/4t) / (4π t²).
func TestUnitSquareValues(t *testing.T) {
	const (
		area = 2.0943951023931953
		ws   = 0.17155459399976725
		wd   = 0.14144091437850936
		diag = 0.48455010237804386
	)
	want := [4][4]float64{
		{diag, -ws, -wd, -ws},
		{-ws, diag, -ws, -wd},
		{-wd, -ws, diag, -ws},
		{-ws, -wd, -ws, diag},
	}

	s, err := heat.NewPointCloudSolver(context.Background(), unitSquare)
	require.NoError(t, err)
	l, err := s.ConnectionLaplacian()
	require.NoError(t, err)
	rl, err := s.RealConnectionLaplacian()
	require.NoError(t, err)
	m, err := s.MassMatrix()
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			v, err := l.At(i, j)
			require.NoError(t, err)
			require.InDelta(t, want[i][j], real(v), 1e-12, "L[%d,%d]", i, j)
			require.InDelta(t, 0, imag(v), 1e-12, "L[%d,%d]", i, j)

			// [[a,-b],[b,a]] block with b = 0
			for _, rc := range [][2]int{{0, 0}, {1, 1}, {0, 1}, {1, 0}} {
				x, err := rl.At(2*i+rc[0], 2*j+rc[1])
				require.NoError(t, err)
				w := 0.0
				if rc[0] == rc[1] {
					w = want[i][j]
				}
				require.InDelta(t, w, x, 1e-12, "real L[%d,%d]", 2*i+rc[0], 2*j+rc[1])
			}

			a, err := m.At(i, j)
			require.NoError(t, err)
			if i == j {
				require.InDelta(t, area, a, 1e-12)
			} else {
				require.Zero(t, a)
			}
		}
	}

	check, err := matrix.IsHermitianCSR(l)
	require.NoError(t, err)
	require.True(t, check.IsHermitian)
	require.Zero(t, check.Distance)
	require.Equal(t, 16, check.NonZeros)
}

func TestRandomCloudOperators(t *testing.T) {
	c, err := pointcloud.Random(pointcloud.DefaultRandomPoints, 7)
	require.NoError(t, err)
	s, err := heat.NewPointCloudSolver(context.Background(), c.Points)
	require.NoError(t, err)

	l, err := s.ConnectionLaplacian()
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateShape(l, 1000, 1000))
	require.NoError(t, matrix.ValidateFinite(l))

	rl, err := s.RealConnectionLaplacian()
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateShape(rl, 2000, 2000))
	require.Equal(t, 4*l.NNZ(), rl.NNZ())

	check, err := matrix.IsHermitianCSR(l)
	require.NoError(t, err)
	require.True(t, check.IsHermitian)
	require.Zero(t, check.Distance)

	// diagonal is real and non-negative
	l.Do(func(r, c int, v complex128) {
		if r == c {
			require.Zero(t, imag(v))
			require.GreaterOrEqual(t, real(v), 0.0)
		}
	})
}

func TestDeterministicAcrossWorkers(t *testing.T) {
	pts := planar(300, 3)
	a, err := heat.NewPointCloudSolver(context.Background(), pts, heat.WithWorkers(1))
	require.NoError(t, err)
	b, err := heat.NewPointCloudSolver(context.Background(), pts, heat.WithWorkers(8))
	require.NoError(t, err)

	la, _ := a.ConnectionLaplacian()
	lb, _ := b.ConnectionLaplacian()
	require.True(t, la.Equal(lb))
	ma, _ := a.MassMatrix()
	mb, _ := b.MassMatrix()
	require.True(t, ma.Equal(mb))
}

func TestFramesOrthonormalAndOriented(t *testing.T) {
	s, err := heat.NewPointCloudSolver(context.Background(), planar(200, 11), heat.WithNeighbors(10))
	require.NoError(t, err)
	frames, err := s.TangentFrames()
	require.NoError(t, err)
	require.Len(t, frames, 200)

	sign := math.Copysign(1, frames[0].Normal.Z)
	for i, f := range frames {
		require.InDelta(t, 1, r3.Norm(f.Normal), 1e-12, "frame %d", i)
		require.InDelta(t, 1, r3.Norm(f.BasisX), 1e-12, "frame %d", i)
		require.InDelta(t, 0, r3.Dot(f.Normal, f.BasisX), 1e-12, "frame %d", i)
		require.InDelta(t, 0, r3.Norm(r3.Sub(f.BasisY, r3.Cross(f.Normal, f.BasisX))), 1e-12, "frame %d", i)
		require.InDelta(t, sign, f.Normal.Z, 1e-9, "normal %d not aligned", i)
	}
}

// TestParallelFieldInKernel checks that a constant in-plane vector field is
// transported without change on a flat cloud, i.e. L z = 0.
func TestParallelFieldInKernel(t *testing.T) {
	s, err := heat.NewPointCloudSolver(context.Background(), planar(150, 5), heat.WithNeighbors(8))
	require.NoError(t, err)
	frames, err := s.TangentFrames()
	require.NoError(t, err)
	l, err := s.ConnectionLaplacian()
	require.NoError(t, err)

	v := r3.Vec{X: 0.6, Y: -0.8}
	z := make([]complex128, len(frames))
	for i, f := range frames {
		z[i] = complex(r3.Dot(v, f.BasisX), r3.Dot(v, f.BasisY))
	}
	lz := make([]complex128, len(z))
	scale := make([]float64, len(z))
	l.Do(func(r, c int, x complex128) {
		lz[r] += x * z[c]
		scale[r] += cmplx.Abs(x)
	})
	for i := range lz {
		require.LessOrEqual(t, cmplx.Abs(lz[i]), 1e-9*scale[i]+1e-15, "row %d", i)
	}
}

func TestSolverRejects(t *testing.T) {
	ctx := context.Background()

	_, err := heat.NewPointCloudSolver(ctx, nil)
	require.ErrorIs(t, err, heat.ErrTooFewPoints)
	_, err = heat.NewPointCloudSolver(ctx, unitSquare[:2])
	require.ErrorIs(t, err, heat.ErrTooFewPoints)

	bad := append([]r3.Vec(nil), unitSquare...)
	bad[2].Y = math.Inf(1)
	_, err = heat.NewPointCloudSolver(ctx, bad)
	require.ErrorIs(t, err, heat.ErrNonFinite)

	same := []r3.Vec{{X: 1}, {X: 1}, {X: 1}}
	_, err = heat.NewPointCloudSolver(ctx, same)
	require.ErrorIs(t, err, heat.ErrDegenerate)

	_, err = heat.NewPointCloudSolver(ctx, unitSquare, heat.WithNeighbors(0))
	require.ErrorIs(t, err, heat.ErrOptionViolation)
	_, err = heat.NewPointCloudSolver(ctx, unitSquare, heat.WithWorkers(-1))
	require.ErrorIs(t, err, heat.ErrOptionViolation)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = heat.NewPointCloudSolver(cancelled, unitSquare)
	require.ErrorIs(t, err, context.Canceled)

	var nilSolver *heat.PointCloudSolver
	_, err = nilSolver.ConnectionLaplacian()
	require.ErrorIs(t, err, heat.ErrNilSolver)
}

func TestStageHookOrder(t *testing.T) {
	var seen []heat.Stage
	_, err := heat.NewPointCloudSolver(context.Background(), unitSquare,
		heat.WithStageHook(func(s heat.Stage) { seen = append(seen, s) }))
	require.NoError(t, err)
	require.Equal(t, heat.Stages, seen)
}
