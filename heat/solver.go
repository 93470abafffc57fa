// SPDX-License-Identifier: MIT

package heat

import (
	"context"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/cloudlap/matrix"
)

// Operators is what downstream code needs from a point-cloud solver.
type Operators interface {
	// ConnectionLaplacian returns the N×N complex connection Laplacian.
	ConnectionLaplacian() (*matrix.CSR[complex128], error)

	// RealConnectionLaplacian returns the 2N×2N real form of the connection
	// Laplacian, with 2×2 blocks [[re, -im], [im, re]].
	RealConnectionLaplacian() (*matrix.CSR[float64], error)

	// MassMatrix returns the N×N diagonal lumped mass matrix.
	MassMatrix() (*matrix.CSR[float64], error)
}

// PointCloudSolver holds the operators of one point cloud. All work happens
// in NewPointCloudSolver except the real embedding, which is computed on
// first use and then cached. Safe for concurrent use.
type PointCloudSolver struct {
	frames []Frame
	conn   *matrix.CSR[complex128]
	mass   *matrix.CSR[float64]

	realOnce sync.Once
	real     *matrix.CSR[float64]
	realErr  error
}

var _ Operators = (*PointCloudSolver)(nil)

// NewPointCloudSolver builds the operators for points.
// Stage 1 (Validate): options, N >= MinPoints, finite coordinates.
// Stage 2 (Execute): kNN graph, tangent frames, normal orientation,
// connection Laplacian and mass assembly. OnStage fires after each step.
// Returns ErrOptionViolation, ErrTooFewPoints, ErrNonFinite, ErrDegenerate,
// ErrEigen or ctx.Err().
// Complexity: O(N·k log N).
func NewPointCloudSolver(ctx context.Context, points []r3.Vec, opts ...Option) (*PointCloudSolver, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	n := len(points)
	if n < MinPoints {
		return nil, fmt.Errorf("%w: got %d, need at least %d", ErrTooFewPoints, n, MinPoints)
	}
	var centroid r3.Vec
	for i, p := range points {
		if !isFinite(p) {
			return nil, fmt.Errorf("%w: point %d", ErrNonFinite, i)
		}
		centroid = r3.Add(centroid, p)
	}
	centroid = r3.Scale(1/float64(n), centroid)
	pts := append([]r3.Vec(nil), points...)
	k := min(o.Neighbors, n-1)

	nbrs, err := knn(ctx, pts, k)
	if err != nil {
		return nil, err
	}
	adj := symmetrize(nbrs)
	o.OnStage(StageNeighbors)

	frames, err := estimateFrames(ctx, pts, nbrs, o.Workers)
	if err != nil {
		return nil, err
	}
	o.OnStage(StageFrames)

	if err := orientNormals(ctx, frames, adj, centroid); err != nil {
		return nil, err
	}
	o.OnStage(StageOrient)

	conn, mass, err := assembleConnection(pts, frames, nbrs, adj)
	if err != nil {
		return nil, err
	}
	o.OnStage(StageAssemble)

	return &PointCloudSolver{frames: frames, conn: conn, mass: mass}, nil
}

// ConnectionLaplacian implements Operators.
func (s *PointCloudSolver) ConnectionLaplacian() (*matrix.CSR[complex128], error) {
	if s == nil {
		return nil, ErrNilSolver
	}

	return s.conn, nil
}

// RealConnectionLaplacian implements Operators.
func (s *PointCloudSolver) RealConnectionLaplacian() (*matrix.CSR[float64], error) {
	if s == nil {
		return nil, ErrNilSolver
	}
	s.realOnce.Do(func() {
		s.real, s.realErr = matrix.RealEmbed(s.conn)
	})

	return s.real, s.realErr
}

// MassMatrix implements Operators.
func (s *PointCloudSolver) MassMatrix() (*matrix.CSR[float64], error) {
	if s == nil {
		return nil, ErrNilSolver
	}

	return s.mass, nil
}

// TangentFrames returns a copy of the oriented per-point frames.
func (s *PointCloudSolver) TangentFrames() ([]Frame, error) {
	if s == nil {
		return nil, ErrNilSolver
	}

	return append([]Frame(nil), s.frames...), nil
}

func isFinite(p r3.Vec) bool {
	for _, v := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
