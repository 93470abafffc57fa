package pipeline

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/katalvlaran/cloudlap/matio"
	"github.com/katalvlaran/cloudlap/matrix"
)

// CheckResult is the outcome of CheckFile.
type CheckResult struct {
	Path      string
	Name      string // MAT variable name, or the file stem for .npz
	Rows      int
	Cols      int
	Complex   bool
	Hermitian matrix.HermitianCheck
}

// CheckFile reloads a matrix saved by Run (.npz or .mat) and re-runs the
// Hermitian diagnostic on it. Real matrices are checked as complex ones with
// zero imaginary part, i.e. for symmetry.
// Returns matrix.ErrNonSquare for rectangular matrices.
func CheckFile(path string, opts ...matrix.Option) (*CheckResult, error) {
	var (
		sp   *matio.Sparse
		name string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".npz":
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		sp, err = matio.LoadNPZ(path)
	case ".mat":
		name, sp, err = matio.LoadMAT(path)
	default:
		return nil, fmt.Errorf("check %s: unsupported extension %q (want .npz or .mat)", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", path, err)
	}

	m := sp.Complex
	if m == nil {
		if m, err = complexOf(sp.Real); err != nil {
			return nil, err
		}
	}
	hc, err := matrix.IsHermitianCSR(m, opts...)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", path, err)
	}
	rows, cols := sp.Dims()

	return &CheckResult{Path: path, Name: name, Rows: rows, Cols: cols, Complex: sp.IsComplex(), Hermitian: hc}, nil
}

// ExpandChecks resolves shell-style patterns ("**" included) to the saved
// matrices they name, keeping only .npz and .mat files. Matches are returned
// in pattern order, each pattern's matches sorted, without duplicates.
// A pattern that matches nothing is an error.
func ExpandChecks(patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("check: pattern %q: %w", p, err)
		}
		sort.Strings(matches)
		n := 0
		for _, m := range matches {
			switch strings.ToLower(filepath.Ext(m)) {
			case ".npz", ".mat":
			default:
				continue
			}
			n++
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
		if n == 0 {
			return nil, fmt.Errorf("check: no .npz or .mat file matches %q", p)
		}
	}

	return out, nil
}

// complexOf widens a real CSR to complex128 with the same pattern.
func complexOf(m *matrix.CSR[float64]) (*matrix.CSR[complex128], error) {
	re := m.Data()
	vals := make([]complex128, len(re))
	for i, v := range re {
		vals[i] = complex(v, 0)
	}

	return matrix.NewCSR(m.Rows(), m.Cols(), m.Indptr(), m.Indices(), vals)
}
