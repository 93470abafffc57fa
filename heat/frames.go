package heat

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Frame is the local tangent frame of one point. Normal, BasisX and BasisY
// are orthonormal and right-handed: BasisY = Normal × BasisX.
type Frame struct {
	Origin r3.Vec
	Normal r3.Vec
	BasisX r3.Vec
	BasisY r3.Vec
}

// estimateFrames fits a frame to every point from the PCA of the point and
// its kNN neighbourhood.
// Stage 1 (Prepare): split [0,N) into one contiguous range per worker.
// Stage 2 (Execute): each worker fills only its own slots of the result.
// Returns ErrEigen when a covariance does not factorize, or ctx.Err().
// Complexity: O(N·k) time; results do not depend on scheduling.
func estimateFrames(ctx context.Context, pts []r3.Vec, nbrs [][]neighbor, workers int) ([]Frame, error) {
	n := len(pts)
	frames := make([]Frame, n)
	workers = max(1, min(workers, n))
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			var eig mat.EigenSym
			var vecs mat.Dense
			for i := lo; i < hi; i++ {
				if (i-lo)%256 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				f, err := fitFrame(&eig, &vecs, pts, i, nbrs[i])
				if err != nil {
					return err
				}
				frames[i] = f
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return frames, nil
}

// fitFrame computes the covariance of point i and its neighbours about their
// mean and takes the eigenvectors of the smallest and largest eigenvalue as
// normal and first tangent axis.
func fitFrame(eig *mat.EigenSym, vecs *mat.Dense, pts []r3.Vec, i int, nbrs []neighbor) (Frame, error) {
	mean := pts[i]
	for _, h := range nbrs {
		mean = r3.Add(mean, pts[h.idx])
	}
	mean = r3.Scale(1/float64(len(nbrs)+1), mean)

	var c [9]float64
	add := func(p r3.Vec) {
		d := r3.Sub(p, mean)
		v := [3]float64{d.X, d.Y, d.Z}
		for r := 0; r < 3; r++ {
			for s := 0; s < 3; s++ {
				c[3*r+s] += v[r] * v[s]
			}
		}
	}
	add(pts[i])
	for _, h := range nbrs {
		add(pts[h.idx])
	}

	if ok := eig.Factorize(mat.NewSymDense(3, c[:]), true); !ok {
		return Frame{}, fmt.Errorf("%w: point %d", ErrEigen, i)
	}
	eig.VectorsTo(vecs)
	col := func(j int) r3.Vec {
		return r3.Unit(r3.Vec{X: vecs.At(0, j), Y: vecs.At(1, j), Z: vecs.At(2, j)})
	}
	// eigenvalues are ascending
	normal, bx := col(0), col(2)

	return Frame{Origin: pts[i], Normal: normal, BasisX: bx, BasisY: r3.Cross(normal, bx)}, nil
}
