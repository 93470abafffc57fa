package heat

import "errors"

// Sentinel errors for solver construction.
var (
	// ErrTooFewPoints is returned when the cloud has fewer than MinPoints points.
	ErrTooFewPoints = errors.New("heat: too few points")

	// ErrNonFinite is returned when a coordinate is NaN or ±Inf.
	ErrNonFinite = errors.New("heat: non-finite coordinate")

	// ErrDegenerate is returned when the neighbour graph has no edge of
	// positive length (e.g. every point coincides).
	ErrDegenerate = errors.New("heat: degenerate point cloud")

	// ErrEigen is returned when a local covariance fails to factorize.
	ErrEigen = errors.New("heat: eigendecomposition failed")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("heat: invalid option supplied")

	// ErrNilSolver is returned by getters called on a nil solver.
	ErrNilSolver = errors.New("heat: solver is nil")
)
