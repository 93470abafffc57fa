package heat

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/cloudlap/matrix"
)

// areas returns A_i = π r_i² / k_i, r_i the distance to the farthest kept
// neighbour and k_i the kept-neighbour count. Isolated points get area 0.
func areas(nbrs [][]neighbor) []float64 {
	out := make([]float64, len(nbrs))
	for i, hs := range nbrs {
		if len(hs) == 0 {
			continue
		}
		out[i] = math.Pi * hs[len(hs)-1].dist2 / float64(len(hs))
	}

	return out
}

// meanEdgeLength averages |p_i - p_j| over the undirected edges of adj.
// Returns ok=false when there is no edge.
func meanEdgeLength(pts []r3.Vec, adj [][]int) (float64, bool) {
	var sum float64
	var n int
	for i, js := range adj {
		for _, j := range js {
			if j > i {
				sum += r3.Norm(r3.Sub(pts[j], pts[i]))
				n++
			}
		}
	}
	if n == 0 {
		return 0, false
	}

	return sum / float64(n), true
}

// edgeAngle is the polar angle of p_to - p_from in the tangent frame f.
func edgeAngle(f Frame, from, to r3.Vec) float64 {
	e := r3.Sub(to, from)
	return math.Atan2(r3.Dot(e, f.BasisY), r3.Dot(e, f.BasisX))
}

// assembleConnection builds the N×N complex connection Laplacian.
// Stage 1 (Prepare): diffusion time t = h², per-point areas.
// Stage 2 (Execute): for each undirected edge i<j,
//
//	w_ij = A_i A_j exp(-|p_i-p_j|²/4t) / (4π t²)
//	r_ij = -exp(i(θ_ij - θ_ji))
//	L_ij = -w_ij r_ij,  L_ji = conj(L_ij)
//
// and accumulate w_ij into both diagonals.
// Stage 3 (Finalize): build the CSR and the diagonal mass matrix diag(A).
// Complexity: O(N + E log E).
func assembleConnection(pts []r3.Vec, frames []Frame, nbrs [][]neighbor, adj [][]int) (*matrix.CSR[complex128], *matrix.CSR[float64], error) {
	h, ok := meanEdgeLength(pts, adj)
	if !ok || h == 0 {
		return nil, nil, ErrDegenerate
	}
	t := h * h
	area := areas(nbrs)
	norm := 1 / (4 * math.Pi * t * t)

	n := len(pts)
	edges := 0
	for _, js := range adj {
		edges += len(js)
	}
	b, err := matrix.NewTriplets[complex128](n, n, n+edges)
	if err != nil {
		return nil, nil, err
	}
	diag := make([]float64, n)
	for i, js := range adj {
		for _, j := range js {
			if j <= i {
				continue
			}
			d2 := r3.Norm2(r3.Sub(pts[j], pts[i]))
			w := area[i] * area[j] * math.Exp(-d2/(4*t)) * norm
			if w == 0 {
				continue
			}
			thetaIJ := edgeAngle(frames[i], pts[i], pts[j])
			thetaJI := edgeAngle(frames[j], pts[j], pts[i])
			r := -cmplx.Exp(complex(0, thetaIJ-thetaJI))
			lij := complex(-w, 0) * r
			if err := b.Add(i, j, lij); err != nil {
				return nil, nil, err
			}
			if err := b.Add(j, i, cmplx.Conj(lij)); err != nil {
				return nil, nil, err
			}
			diag[i] += w
			diag[j] += w
		}
	}
	for i, d := range diag {
		if err := b.Add(i, i, complex(d, 0)); err != nil {
			return nil, nil, err
		}
	}

	return b.Build(), matrix.Diagonal(area), nil
}
