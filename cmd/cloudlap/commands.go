package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/cloudlap/config"
	"github.com/katalvlaran/cloudlap/matrix"
	"github.com/katalvlaran/cloudlap/pipeline"
	"github.com/katalvlaran/cloudlap/pointcloud"
)

func (a *app) generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <input>",
		Short: "Build and save the operators of a point-cloud file",
		Long: fmt.Sprintf(`Loads the vertices of <input> (%v), builds the connection
Laplacians and the mass matrix, prints them and writes all six files.`, pointcloud.Formats()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.baseConfig(config.GeneratePreset(args[0]))
			if err != nil {
				return err
			}
			cfg.Source = config.SourceFile
			cfg.Input = args[0]

			return a.execute(cmd, cfg)
		},
	}
}

func (a *app) randomCmd() *cobra.Command {
	var points int
	var seed int64
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Build and save the Laplacians of a random cloud",
		Long: `Samples points uniformly in the unit cube and writes real_cl and complex_cl
without the mass matrix and without printing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.baseConfig(config.RandomPreset())
			if err != nil {
				return err
			}
			cfg.Source = config.SourceRandom
			if cmd.Flags().Changed("points") {
				cfg.Random.Points = points
			}
			if cmd.Flags().Changed("seed") {
				cfg.Random.Seed = seed
			}

			return a.execute(cmd, cfg)
		},
	}
	cmd.Flags().IntVar(&points, "points", config.DefaultRandomPoints, "number of random points")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed; 0 draws a fresh cloud each run")

	return cmd
}

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the job described by --config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.flags.configPath == "" {
				return fmt.Errorf("run: --config is required")
			}
			cfg, err := a.baseConfig(config.Default())
			if err != nil {
				return err
			}

			return a.execute(cmd, cfg)
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file|pattern>...",
		Short: "Re-run the Hermitian check on saved matrices",
		Long: `Reloads .npz or .mat files written earlier and prints the Hermitian
diagnostic for each. Arguments may be glob patterns, including "**".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.baseConfig(config.Default())
			if err != nil {
				return err
			}
			a.applyFlags(cmd, cfg)
			if err := cfg.ValidateCheck(); err != nil {
				return err
			}
			paths, err := pipeline.ExpandChecks(args)
			if err != nil {
				return err
			}
			for _, path := range paths {
				if err := a.check(path, cfg); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func (a *app) check(path string, cfg *config.Config) error {
	res, err := pipeline.CheckFile(path,
		matrix.WithTolerance(cfg.Hermitian.RelTol, cfg.Hermitian.AbsTol))
	if err != nil {
		return err
	}
	kind := "real"
	if res.Complex {
		kind = "complex"
	}
	if _, err := fmt.Fprintf(a.stdout, "%s: %s %dx%d, %d nonzeros\n",
		res.Path, kind, res.Rows, res.Cols, res.Hermitian.NonZeros); err != nil {
		return err
	}

	return pipeline.WriteHermitian(a.stdout, res.Name, res.Hermitian)
}
