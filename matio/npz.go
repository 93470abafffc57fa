package matio

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/katalvlaran/cloudlap/matrix"
)

// zipEpoch is the fixed modification time stamped on every npz member
// (the DOS epoch, as numpy uses), keeping archives byte-reproducible.
var zipEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Sparse holds a matrix read back from disk; exactly one field is non-nil.
type Sparse struct {
	Real    *matrix.CSR[float64]
	Complex *matrix.CSR[complex128]
}

// IsComplex reports whether the stored matrix has complex values.
func (s *Sparse) IsComplex() bool { return s.Complex != nil }

// Dims returns the shape of whichever matrix is stored.
func (s *Sparse) Dims() (int, int) {
	if s.Complex != nil {
		return s.Complex.Dims()
	}

	return s.Real.Dims()
}

// NNZ returns the stored-entry count of whichever matrix is stored.
func (s *Sparse) NNZ() int {
	if s.Complex != nil {
		return s.Complex.NNZ()
	}

	return s.Real.NNZ()
}

// WriteNPZ writes m in the scipy.sparse.save_npz CSR layout.
// Stage 1 (Prepare): choose the index dtype (int32 unless sizes overflow it).
// Stage 2 (Execute): add members indices, indptr, format, shape, data with
// deflate compression and a fixed timestamp.
// Complexity: O(rows + nnz).
func WriteNPZ[T matrix.Scalar](w io.Writer, m *matrix.CSR[T]) error {
	if m == nil {
		return matrix.ErrNilMatrix
	}
	rows, cols := m.Dims()
	index := Int32Array
	if max(rows, cols, m.NNZ()) > math.MaxInt32 {
		index = Int64Array
	}

	var data *Array
	switch v := any(m.Data()).(type) {
	case []float64:
		data = Float64Array([]int{len(v)}, v)
	case []complex128:
		data = Complex128Array([]int{len(v)}, v)
	}

	members := []struct {
		name string
		arr  *Array
	}{
		{"indices", index(m.Indices())},
		{"indptr", index(m.Indptr())},
		{"format", BytesScalar("csr")},
		{"shape", Int64Array([]int{rows, cols})},
		{"data", data},
	}

	zw := zip.NewWriter(w)
	for _, mem := range members {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     mem.name + ".npy",
			Method:   zip.Deflate,
			Modified: zipEpoch,
		})
		if err != nil {
			return err
		}
		if err := WriteNPY(fw, mem.arr); err != nil {
			return fmt.Errorf("npz member %s: %w", mem.name, err)
		}
	}

	return zw.Close()
}

// SaveNPZ writes m to path, appending ".npz" when missing, the way
// scipy.sparse.save_npz names its output. Existing files are replaced.
// Returns the final path.
func SaveNPZ[T matrix.Scalar](path string, m *matrix.CSR[T]) (string, error) {
	if !strings.HasSuffix(path, ".npz") {
		path += ".npz"
	}
	var buf bytes.Buffer
	if err := WriteNPZ(&buf, m); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}

	return path, nil
}

// ReadNPZ decodes a scipy sparse npz archive in csr or csc format.
func ReadNPZ(r io.ReaderAt, size int64) (*Sparse, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	arrays := make(map[string]*Array, len(zr.File))
	for _, f := range zr.File {
		name := strings.TrimSuffix(f.Name, ".npy")
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		a, err := ReadNPY(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("npz member %s: %w", f.Name, err)
		}
		arrays[name] = a
	}
	for _, name := range []string{"indices", "indptr", "format", "shape", "data"} {
		if arrays[name] == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingMember, name)
		}
	}

	shape, err := arrays["shape"].Ints()
	if err != nil || len(shape) != 2 {
		return nil, fmt.Errorf("%w: shape", ErrMalformed)
	}
	indices, err := arrays["indices"].Ints()
	if err != nil {
		return nil, err
	}
	indptr, err := arrays["indptr"].Ints()
	if err != nil {
		return nil, err
	}

	format := arrays["format"].Text()
	var transpose bool
	switch format {
	case "csr":
	case "csc":
		transpose = true
	default:
		return nil, fmt.Errorf("%w: sparse format %q", ErrUnsupportedClass, format)
	}

	data := arrays["data"]
	if data.Descr[1] == 'c' {
		vals, err := data.Complex128s()
		if err != nil {
			return nil, err
		}
		m, err := compressed(shape[0], shape[1], indptr, indices, vals, transpose)
		if err != nil {
			return nil, err
		}
		return &Sparse{Complex: m}, nil
	}
	vals, err := data.Float64s()
	if err != nil {
		return nil, err
	}
	m, err := compressed(shape[0], shape[1], indptr, indices, vals, transpose)
	if err != nil {
		return nil, err
	}

	return &Sparse{Real: m}, nil
}

// LoadNPZ opens path and decodes it with ReadNPZ.
func LoadNPZ(path string) (*Sparse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, err
	}

	return ReadNPZ(f, st.Size())
}

// compressed builds a rows×cols CSR from compressed arrays. When byColumn is
// set the arrays are column-compressed (CSC), i.e. the CSR arrays of the
// transpose.
func compressed[T matrix.Scalar](rows, cols int, ptr, idx []int, vals []T, byColumn bool) (*matrix.CSR[T], error) {
	if !byColumn {
		return matrix.NewCSR(rows, cols, ptr, idx, vals)
	}
	t, err := matrix.NewCSR(cols, rows, ptr, idx, vals)
	if err != nil {
		return nil, err
	}

	return t.Transpose(), nil
}
