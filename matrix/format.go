// Package matrix: human-readable listing of sparse matrices, in the same
// coordinate layout scipy.sparse prints:
//
//	(0, 0)	2.5
//	(0, 1)	(-1+0.5j)
package matrix

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"
)

// Format writes one "  (row, col)\tvalue" line per stored entry of m in
// row-major order.
// Complexity: O(nnz).
func Format[T Scalar](w io.Writer, m *CSR[T]) error {
	if m == nil {
		return ErrNilMatrix
	}
	bw := bufio.NewWriter(w)
	var line []byte
	for r := 0; r < m.rows; r++ {
		for k := m.indptr[r]; k < m.indptr[r+1]; k++ {
			line = line[:0]
			line = append(line, "  ("...)
			line = strconv.AppendInt(line, int64(r), 10)
			line = append(line, ", "...)
			line = strconv.AppendInt(line, int64(m.indices[k]), 10)
			line = append(line, ")\t"...)
			line = append(line, FormatScalar(m.data[k])...)
			line = append(line, '\n')
			if _, err := bw.Write(line); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// String implements fmt.Stringer using Format.
func (m *CSR[T]) String() string {
	var sb strings.Builder
	_ = Format(&sb, m)

	return sb.String()
}

// FormatScalar renders floats like Python's repr ("1.0", "1e-05") and
// complex values like Python's complex repr ("(1+2j)", "2j").
func FormatScalar[T Scalar](v T) string {
	switch x := any(v).(type) {
	case float64:
		s := shortFloat(x)
		if !strings.ContainsAny(s, ".en") {
			s += ".0"
		}
		return s
	case complex128:
		re, im := real(x), imag(x)
		ims := shortFloat(im)
		if re == 0 && !math.Signbit(re) {
			return ims + "j"
		}
		sign := "+"
		if strings.HasPrefix(ims, "-") {
			sign = ""
		}
		return "(" + shortFloat(re) + sign + ims + "j)"
	}

	return ""
}

// shortFloat returns the shortest round-tripping decimal form, switching to
// exponent notation outside [1e-4, 1e16) the way Python does.
func shortFloat(x float64) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	a := math.Abs(x)
	if a == 0 || (a >= 1e-4 && a < 1e16) {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}

	return strconv.FormatFloat(x, 'e', -1, 64)
}
