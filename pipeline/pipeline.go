package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/cloudlap/config"
	"github.com/katalvlaran/cloudlap/heat"
	"github.com/katalvlaran/cloudlap/matrix"
	"github.com/katalvlaran/cloudlap/pointcloud"
)

// ErrOperator is returned when the solver hands back a missing or
// mis-shaped operator.
var ErrOperator = errors.New("pipeline: invalid operator from solver")

// Fixed artifact names; each is written as <name>.npz and <name>.mat.
const (
	NameRealLaplacian    = "real_cl"
	NameComplexLaplacian = "complex_cl"
	NameMassMatrix       = "mass_matrix"
)

// Result is everything one run produced.
type Result struct {
	Cloud                   *pointcloud.Cloud
	ConnectionLaplacian     *matrix.CSR[complex128]
	RealConnectionLaplacian *matrix.CSR[float64]

	// MassMatrix is nil unless the config includes it.
	MassMatrix *matrix.CSR[float64]

	Hermitian matrix.HermitianCheck

	// Files lists the written paths in write order.
	Files []string
}

// Run executes one job.
// Stage 1 (Validate): cfg.Validate.
// Stage 2 (Acquire): load the input file or sample the random cloud.
// Stage 3 (Solve): build operators and check their shapes against N.
// Stage 4 (Check): Hermitian diagnostic on the complex Laplacian, printed.
// Stage 5 (Report): optional listing on stdout, then every file.
// Errors from loading and solving are returned with context; nothing is
// retried and no partial output is written before Stage 5.
func Run(ctx context.Context, cfg *config.Config, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := o.logger

	cloud, err := acquire(cfg)
	if err != nil {
		return nil, err
	}
	lo, hi := cloud.Bounds()
	log.Info("point cloud ready", slog.String("source", cfg.Source), slog.Int("points", cloud.Len()),
		slog.Any("min", lo), slog.Any("max", hi))

	res, err := solve(ctx, cfg, o, cloud)
	if err != nil {
		return nil, err
	}

	res.Hermitian, err = matrix.IsHermitianCSR(res.ConnectionLaplacian,
		matrix.WithTolerance(cfg.Hermitian.RelTol, cfg.Hermitian.AbsTol))
	if err != nil {
		return nil, fmt.Errorf("hermitian check: %w", err)
	}
	log.Info("hermitian check", slog.Bool("hermitian", res.Hermitian.IsHermitian),
		slog.Float64("distance", res.Hermitian.Distance), slog.Int("nnz", res.Hermitian.NonZeros))
	if err := WriteHermitian(o.stdout, "cL", res.Hermitian); err != nil {
		return nil, err
	}

	if err := report(ctx, cfg, o, res); err != nil {
		return nil, err
	}

	return res, nil
}

// acquire produces the point cloud named by cfg.
func acquire(cfg *config.Config) (*pointcloud.Cloud, error) {
	if cfg.Source == config.SourceRandom {
		return pointcloud.Random(cfg.Random.Points, cfg.Random.Seed)
	}

	return pointcloud.Load(cfg.Input)
}

// solve builds the operators and checks every shape against N.
func solve(ctx context.Context, cfg *config.Config, o options, cloud *pointcloud.Cloud) (*Result, error) {
	log := o.logger
	hopts := []heat.Option{
		heat.WithNeighbors(cfg.Solver.Neighbors),
		heat.WithStageHook(func(s heat.Stage) {
			log.Debug("solver stage done", slog.String("stage", string(s)))
		}),
	}
	if cfg.Solver.Workers > 0 {
		hopts = append(hopts, heat.WithWorkers(cfg.Solver.Workers))
	}

	ops, err := o.solver(ctx, cloud.Points, hopts...)
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}

	n := cloud.Len()
	res := &Result{Cloud: cloud}
	if res.ConnectionLaplacian, err = ops.ConnectionLaplacian(); err != nil {
		return nil, fmt.Errorf("solver: connection laplacian: %w", err)
	}
	if err := checkOperator(NameComplexLaplacian, res.ConnectionLaplacian, n); err != nil {
		return nil, err
	}
	if res.RealConnectionLaplacian, err = ops.RealConnectionLaplacian(); err != nil {
		return nil, fmt.Errorf("solver: real connection laplacian: %w", err)
	}
	if err := checkOperator(NameRealLaplacian, res.RealConnectionLaplacian, 2*n); err != nil {
		return nil, err
	}
	if cfg.Output.IncludeMassMatrix {
		if res.MassMatrix, err = ops.MassMatrix(); err != nil {
			return nil, fmt.Errorf("solver: mass matrix: %w", err)
		}
		if err := checkOperator(NameMassMatrix, res.MassMatrix, n); err != nil {
			return nil, err
		}
	}
	log.Info("operators built",
		slog.Int("complex_nnz", res.ConnectionLaplacian.NNZ()),
		slog.Int("real_nnz", res.RealConnectionLaplacian.NNZ()))

	return res, nil
}

// checkOperator requires m to be a non-nil n×n matrix.
func checkOperator[T matrix.Scalar](name string, m *matrix.CSR[T], n int) error {
	if m == nil {
		return fmt.Errorf("%w: %s is nil", ErrOperator, name)
	}
	if err := matrix.ValidateShape(m, n, n); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOperator, name, err)
	}

	return nil
}
