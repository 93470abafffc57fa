package matio_test

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/cloudlap/matio"
	"github.com/katalvlaran/cloudlap/matrix"
	"github.com/stretchr/testify/require"
)

// sampleReal is [[2,0,-1],[0,0,0],[0,3,0]].
func sampleReal(t *testing.T) *matrix.CSR[float64] {
	t.Helper()
	m, err := matrix.NewCSR(3, 3, []int{0, 2, 2, 3}, []int{0, 2, 1}, []float64{2, -1, 3})
	require.NoError(t, err)

	return m
}

// sampleComplex is a 2×2 Hermitian matrix [[1, -i],[i, 2]].
func sampleComplex(t *testing.T) *matrix.CSR[complex128] {
	t.Helper()
	m, err := matrix.NewCSR(2, 2, []int{0, 2, 4}, []int{0, 1, 0, 1}, []complex128{1, -1i, 1i, 2})
	require.NoError(t, err)

	return m
}

func TestNPZMemberLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, matio.WriteNPZ(&buf, sampleReal(t)))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
		require.Equal(t, zip.Deflate, f.Method)
	}
	require.Equal(t, []string{"indices.npy", "indptr.npy", "format.npy", "shape.npy", "data.npy"}, names)
}

func TestNPZRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, matio.WriteNPZ(&buf, sampleReal(t)))
	got, err := matio.ReadNPZ(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.False(t, got.IsComplex())
	require.True(t, sampleReal(t).Equal(got.Real))

	buf.Reset()
	require.NoError(t, matio.WriteNPZ(&buf, sampleComplex(t)))
	got, err = matio.ReadNPZ(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.True(t, got.IsComplex())
	r, c := got.Dims()
	require.Equal(t, [2]int{2, 2}, [2]int{r, c})
	require.Equal(t, 4, got.NNZ())
	require.True(t, sampleComplex(t).Equal(got.Complex))
}

func TestNPZDeterministicBytes(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, matio.WriteNPZ(&a, sampleComplex(t)))
	require.NoError(t, matio.WriteNPZ(&b, sampleComplex(t)))
	require.Equal(t, a.Bytes(), b.Bytes())
}

// TestNPZReadsCSC builds a csc archive by hand, the layout scipy uses for
// csc_matrix, and expects the row-major matrix back.
// archive zips members as name.npy entries the way save_npz lays them out.
func archive(t *testing.T, members map[string]*matio.Array) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, arr := range members {
		w, err := zw.Create(name + ".npy")
		require.NoError(t, err)
		require.NoError(t, matio.WriteNPY(w, arr))
	}
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestNPZReadsCSC(t *testing.T) {
	want := sampleReal(t)
	tr := want.Transpose()

	raw := archive(t, map[string]*matio.Array{
		"indices": matio.Int32Array(tr.Indices()),
		"indptr":  matio.Int32Array(tr.Indptr()),
		"format":  matio.BytesScalar("csc"),
		"shape":   matio.Int64Array([]int{3, 3}),
		"data":    matio.Float64Array([]int{tr.NNZ()}, tr.Data()),
	})

	got, err := matio.ReadNPZ(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	require.True(t, want.Equal(got.Real))
}

func TestNPZRejectsCorruptIndptr(t *testing.T) {
	cases := []struct {
		name   string
		indptr []int
	}{
		{"past end", []int{0, 100, 1}},
		{"negative", []int{0, -3, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := archive(t, map[string]*matio.Array{
				"indices": matio.Int32Array([]int{0}),
				"indptr":  matio.Int32Array(tc.indptr),
				"format":  matio.BytesScalar("csr"),
				"shape":   matio.Int64Array([]int{2, 2}),
				"data":    matio.Float64Array([]int{1}, []float64{1}),
			})
			_, err := matio.ReadNPZ(bytes.NewReader(raw), int64(len(raw)))
			require.ErrorIs(t, err, matrix.ErrCorruptCSR)
		})
	}
}

func TestNPZMissingMember(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("data.npy")
	require.NoError(t, err)
	require.NoError(t, matio.WriteNPY(w, matio.Float64Array([]int{1}, []float64{1})))
	require.NoError(t, zw.Close())

	_, err = matio.ReadNPZ(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.ErrorIs(t, err, matio.ErrMissingMember)
}

func TestSaveNPZAppendsExtension(t *testing.T) {
	dir := t.TempDir()
	path, err := matio.SaveNPZ(filepath.Join(dir, "real_cl"), sampleReal(t))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "real_cl.npz"), path)

	// overwrite in place
	_, err = matio.SaveNPZ(path, sampleReal(t))
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	got, err := matio.LoadNPZ(path)
	require.NoError(t, err)
	require.True(t, sampleReal(t).Equal(got.Real))
}

func TestWriteNPZNil(t *testing.T) {
	require.ErrorIs(t, matio.WriteNPZ[float64](&bytes.Buffer{}, nil), matrix.ErrNilMatrix)
}
