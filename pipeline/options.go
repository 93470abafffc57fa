package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/cloudlap/heat"
)

// SolverFactory builds the operators for a point set.
type SolverFactory func(ctx context.Context, points []r3.Vec, opts ...heat.Option) (heat.Operators, error)

// HeatSolver is the default SolverFactory, backed by heat.NewPointCloudSolver.
func HeatSolver(ctx context.Context, points []r3.Vec, opts ...heat.Option) (heat.Operators, error) {
	return heat.NewPointCloudSolver(ctx, points, opts...)
}

// Option customizes Run.
type Option func(*options)

type options struct {
	solver   SolverFactory
	stdout   io.Writer
	logger   *slog.Logger
	progress ProgressReporter
}

func defaultOptions() options {
	return options{
		solver: HeatSolver,
		stdout: os.Stdout,
		logger: slog.Default(),
	}
}

// WithSolverFactory replaces the operator backend. nil is ignored.
func WithSolverFactory(f SolverFactory) Option {
	return func(o *options) {
		if f != nil {
			o.solver = f
		}
	}
}

// WithStdout redirects the printed report. nil is ignored.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.stdout = w
		}
	}
}

// WithLogger sets the structured logger. nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithProgress reports file writes to p. nil disables reporting.
func WithProgress(p ProgressReporter) Option {
	return func(o *options) { o.progress = p }
}
