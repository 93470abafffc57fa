package pointcloud

import "gonum.org/v1/gonum/spatial/r3"

// DefaultRandomPoints is the size of the synthetic cloud used when no count
// is configured.
const DefaultRandomPoints = 1000

// Random samples n points with independent uniform coordinates in [0,1).
// seed==0 draws a fresh stream per call; any other seed is reproducible.
// Returns ErrInvalidCount for n <= 0.
// Complexity: O(n).
func Random(n int, seed int64) (*Cloud, error) {
	if n <= 0 {
		return nil, ErrInvalidCount
	}
	rng := rngFromSeed(seed)
	pts := make([]r3.Vec, n)
	for i := range pts {
		pts[i] = r3.Vec{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
	}

	return &Cloud{Points: pts}, nil
}
