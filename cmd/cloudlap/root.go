package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/cloudlap/config"
	"github.com/katalvlaran/cloudlap/pipeline"
)

// globalFlags are shared by every subcommand; zero values mean "not set".
type globalFlags struct {
	configPath string
	outDir     string
	neighbors  int
	workers    int
	logLevel   string
	progress   string
}

// app carries what the commands share.
type app struct {
	stdout, stderr io.Writer
	flags          globalFlags
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:   "cloudlap",
		Short: "Connection Laplacians of point clouds, saved as .npz and .mat",
		Long: `cloudlap builds the complex connection Laplacian, its real 2N×2N form and
the lumped mass matrix of a point cloud, checks that the complex operator is
Hermitian, and writes real_cl, complex_cl and mass_matrix in scipy .npz and
MATLAB .mat formats.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&a.flags.outDir, "out", "", "output directory (default "+config.DefaultOutputDir+")")
	pf.IntVar(&a.flags.neighbors, "neighbors", 0, "neighbourhood size k (default 30)")
	pf.IntVar(&a.flags.workers, "workers", 0, "frame-estimation goroutines (default one per CPU)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error (default info)")
	pf.StringVar(&a.flags.progress, "progress", "", "progress bar: auto, always or never (default auto)")

	root.AddCommand(
		a.generateCmd(),
		a.randomCmd(),
		a.runCmd(),
		a.checkCmd(),
	)

	return root
}

// baseConfig returns preset overlaid with the --config file, if any. Keys
// the file leaves out keep the preset's values. Nothing is validated yet.
func (a *app) baseConfig(preset *config.Config) (*config.Config, error) {
	if a.flags.configPath == "" {
		return preset, nil
	}
	if err := config.LoadInto(preset, a.flags.configPath); err != nil {
		return nil, err
	}

	return preset, nil
}

// applyFlags overlays explicitly set global flags on cfg.
func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("out") {
		cfg.Output.Dir = a.flags.outDir
	}
	if f.Changed("neighbors") {
		cfg.Solver.Neighbors = a.flags.neighbors
	}
	if f.Changed("workers") {
		cfg.Solver.Workers = a.flags.workers
	}
	if f.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
	if f.Changed("progress") {
		cfg.Progress = a.flags.progress
	}
}

func (a *app) logger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// execute validates cfg and runs the pipeline with the CLI's writers.
func (a *app) execute(cmd *cobra.Command, cfg *config.Config) error {
	a.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	_, err := pipeline.Run(cmd.Context(), cfg,
		pipeline.WithStdout(a.stdout),
		pipeline.WithLogger(a.logger(cfg)),
		pipeline.WithProgress(pipeline.NewProgress(cfg.Progress)),
	)

	return err
}
