package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/katalvlaran/cloudlap/config"
	"github.com/katalvlaran/cloudlap/matio"
	"github.com/katalvlaran/cloudlap/matrix"
)

// artifact is one named matrix with its printers and writers bound.
type artifact struct {
	name  string
	label string // heading of the stdout listing
	nnz   int
	print func(w io.Writer) error
	save  func(base, format string) (string, error)
}

func artifactOf[T matrix.Scalar](name, label string, m *matrix.CSR[T]) artifact {
	return artifact{
		name:  name,
		label: label,
		nnz:   m.NNZ(),
		print: func(w io.Writer) error { return matrix.Format(w, m) },
		save: func(base, format string) (string, error) {
			if format == config.FormatMAT {
				return matio.SaveMAT(base, name, m)
			}
			return matio.SaveNPZ(base, m)
		},
	}
}

// artifacts lists the outputs of res in print and write order.
func artifacts(res *Result) []artifact {
	out := []artifact{
		artifactOf(NameRealLaplacian, "cL_real", res.RealConnectionLaplacian),
		artifactOf(NameComplexLaplacian, "cL", res.ConnectionLaplacian),
	}
	if res.MassMatrix != nil {
		out = append(out, artifactOf(NameMassMatrix, "M", res.MassMatrix))
	}

	return out
}

// report prints (when configured) and persists every artifact.
// Stage 1: create the output directory; existing directories are fine.
// Stage 2: optional stdout listing, real Laplacian first.
// Stage 3: write each format for each artifact, replacing old files.
func report(ctx context.Context, cfg *config.Config, o options, res *Result) error {
	dir := cfg.Output.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	arts := artifacts(res)

	if cfg.Output.Print {
		for _, a := range arts {
			if _, err := fmt.Fprintf(o.stdout, "%s:\n", a.label); err != nil {
				return err
			}
			if err := a.print(o.stdout); err != nil {
				return err
			}
		}
	}

	if o.progress != nil {
		o.progress.Start(len(arts)*len(cfg.Output.Formats), "writing")
		defer o.progress.Finish()
	}
	for _, format := range cfg.Output.Formats {
		for _, a := range arts {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, err := a.save(filepath.Join(dir, a.name), format)
			if err != nil {
				return fmt.Errorf("write %s.%s: %w", a.name, format, err)
			}
			res.Files = append(res.Files, path)
			o.logger.Info("matrix written", slog.String("path", path), slog.Int("nnz", a.nnz))
			if o.progress != nil {
				o.progress.Increment()
			}
		}
	}

	return nil
}

// WriteHermitian prints the two-line Hermitian verdict for the matrix called
// name, Python-style ("True", "0.0").
func WriteHermitian(w io.Writer, name string, c matrix.HermitianCheck) error {
	verdict := "False"
	if c.IsHermitian {
		verdict = "True"
	}
	_, err := fmt.Fprintf(w, "Is %s Hermitian? %s\nDistance between %s and its conjugate transpose: %s\n",
		name, verdict, name, matrix.FormatScalar(c.Distance))

	return err
}
