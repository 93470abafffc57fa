package heat

import (
	"fmt"
	"runtime"
)

const (
	// MinPoints is the smallest cloud a solver accepts.
	MinPoints = 3

	// DefaultNeighbors is the neighbourhood size k.
	DefaultNeighbors = 30
)

// Stage names a construction step reported to the stage hook.
type Stage string

// Construction stages in execution order.
const (
	StageNeighbors Stage = "neighbors"
	StageFrames    Stage = "frames"
	StageOrient    Stage = "orient"
	StageAssemble  Stage = "assemble"
)

// Stages lists every Stage in execution order.
var Stages = []Stage{StageNeighbors, StageFrames, StageOrient, StageAssemble}

// Option configures a PointCloudSolver. An invalid Option is recorded and
// surfaced as ErrOptionViolation by NewPointCloudSolver.
type Option func(*Options)

// Options holds solver parameters.
type Options struct {
	// Neighbors is k, the number of nearest neighbours per point. It is
	// clamped to N-1 at construction.
	Neighbors int

	// Workers bounds the goroutines used for per-point frame estimation.
	Workers int

	// OnStage is called after each construction stage completes.
	OnStage func(Stage)

	err error
}

// DefaultOptions returns k=DefaultNeighbors, one worker per CPU and a no-op
// stage hook.
func DefaultOptions() Options {
	return Options{
		Neighbors: DefaultNeighbors,
		Workers:   runtime.GOMAXPROCS(0),
		OnStage:   func(Stage) {},
	}
}

// WithNeighbors sets k. k must be >= 1.
func WithNeighbors(k int) Option {
	return func(o *Options) {
		if k < 1 {
			o.err = fmt.Errorf("%w: neighbors must be >= 1, got %d", ErrOptionViolation, k)
			return
		}
		o.Neighbors = k
	}
}

// WithWorkers bounds frame-estimation concurrency. n must be >= 1.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: workers must be >= 1, got %d", ErrOptionViolation, n)
			return
		}
		o.Workers = n
	}
}

// WithStageHook registers fn to run after each construction stage. A nil fn
// is ignored.
func WithStageHook(fn func(Stage)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnStage = fn
		}
	}
}
