package matio

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/katalvlaran/cloudlap/matrix"
)

// MAT-file v5 data types and array classes used here.
const (
	miINT8       = 1
	miUINT8      = 2
	miINT16      = 3
	miUINT16     = 4
	miINT32      = 5
	miUINT32     = 6
	miSINGLE     = 7
	miDOUBLE     = 9
	miINT64      = 12
	miUINT64     = 13
	miMATRIX     = 14
	miCOMPRESSED = 15

	mxSparseClass = 5

	flagComplex = 0x0800

	matHeaderText = "MATLAB 5.0 MAT-file, written by cloudlap"
	matHeaderLen  = 128
)

// WriteMAT writes a MAT 5.0 file holding m as the sparse variable name.
// Stage 1 (Prepare): convert to compressed-column arrays (CSR of mᵀ).
// Stage 2 (Execute): emit header and one miMATRIX element with array flags,
// dimensions, name, ir, jc, pr and (complex only) pi sub-elements.
// Complexity: O(rows + cols + nnz).
func WriteMAT[T matrix.Scalar](w io.Writer, name string, m *matrix.CSR[T]) error {
	if m == nil {
		return matrix.ErrNilMatrix
	}
	rows, cols := m.Dims()
	if max(rows, cols, m.NNZ()) > math.MaxInt32 {
		return fmt.Errorf("%w: %dx%d with %d entries exceeds MAT v5 int32 indexing", ErrMalformed, rows, cols, m.NNZ())
	}
	t := m.Transpose()
	jc, ir := t.Indptr(), t.Indices()
	nnz := len(ir)
	nzmax := max(nnz, 1)

	var re, im []float64
	isComplex := false
	switch v := any(t.Data()).(type) {
	case []float64:
		re = v
	case []complex128:
		isComplex = true
		re, im = make([]float64, nnz), make([]float64, nnz)
		for k, z := range v {
			re[k], im[k] = real(z), imag(z)
		}
	}

	var body bytes.Buffer
	flags := uint32(mxSparseClass)
	if isComplex {
		flags |= flagComplex
	}
	putElement(&body, miUINT32, u32s(flags, uint32(nzmax)))
	putElement(&body, miINT32, i32s([]int{rows, cols}))
	putElement(&body, miINT8, []byte(name))
	putElement(&body, miINT32, i32s(padInts(ir, nzmax)))
	putElement(&body, miINT32, i32s(jc))
	putElement(&body, miDOUBLE, f64s(padFloats(re, nzmax)))
	if isComplex {
		putElement(&body, miDOUBLE, f64s(padFloats(im, nzmax)))
	}

	var out bytes.Buffer
	out.Grow(matHeaderLen + 8 + body.Len())
	out.Write(matHeader())
	var tag [8]byte
	binary.LittleEndian.PutUint32(tag[0:], miMATRIX)
	binary.LittleEndian.PutUint32(tag[4:], uint32(body.Len()))
	out.Write(tag[:])
	out.Write(body.Bytes())
	_, err := w.Write(out.Bytes())

	return err
}

// SaveMAT writes m to path as variable name, appending ".mat" when missing
// the way scipy.io.savemat does. Existing files are replaced.
// Returns the final path.
func SaveMAT[T matrix.Scalar](path, name string, m *matrix.CSR[T]) (string, error) {
	if !strings.HasSuffix(path, ".mat") {
		path += ".mat"
	}
	var buf bytes.Buffer
	if err := WriteMAT(&buf, name, m); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}

	return path, nil
}

// matHeader returns the 128-byte little-endian v5 header: descriptive text
// padded with spaces, zero subsystem offset, version 0x0100, "IM".
func matHeader() []byte {
	h := make([]byte, matHeaderLen)
	copy(h, matHeaderText)
	for i := len(matHeaderText); i < 116; i++ {
		h[i] = ' '
	}
	binary.LittleEndian.PutUint16(h[124:], 0x0100)
	h[126], h[127] = 'I', 'M'

	return h
}

// putElement appends a full-format data element padded to 8 bytes.
func putElement(buf *bytes.Buffer, dtype uint32, payload []byte) {
	var tag [8]byte
	binary.LittleEndian.PutUint32(tag[0:], dtype)
	binary.LittleEndian.PutUint32(tag[4:], uint32(len(payload)))
	buf.Write(tag[:])
	buf.Write(payload)
	if pad := (8 - len(payload)%8) % 8; pad > 0 {
		buf.Write(make([]byte, pad))
	}
}

func u32s(vals ...uint32) []byte {
	b := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(b[4*i:], v)
	}
	return b
}

func i32s(vals []int) []byte {
	b := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(int32(v)))
	}
	return b
}

func f64s(vals []float64) []byte {
	b := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(v))
	}
	return b
}

func padInts(v []int, n int) []int {
	if len(v) >= n {
		return v
	}
	return append(append([]int(nil), v...), make([]int, n-len(v))...)
}

func padFloats(v []float64, n int) []float64 {
	if len(v) >= n {
		return v
	}
	return append(append([]float64(nil), v...), make([]float64, n-len(v))...)
}

// ReadMAT decodes the first variable of a MAT 5.0 file. Only sparse
// variables are supported; miCOMPRESSED elements are inflated transparently.
// Returns the variable name and the matrix.
func ReadMAT(r io.Reader) (string, *Sparse, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", nil, err
	}
	if len(raw) < matHeaderLen+8 {
		return "", nil, fmt.Errorf("%w: short MAT file", ErrBadMagic)
	}
	var order binary.ByteOrder
	switch string(raw[126:128]) {
	case "IM":
		order = binary.LittleEndian
	case "MI":
		order = binary.BigEndian
	default:
		return "", nil, fmt.Errorf("%w: MAT endian indicator %q", ErrBadMagic, raw[126:128])
	}
	if !strings.HasPrefix(string(raw[:116]), "MATLAB 5.0") {
		return "", nil, fmt.Errorf("%w: not a MAT 5.0 file", ErrBadMagic)
	}

	rd := &elementReader{buf: raw[matHeaderLen:], order: order}
	dtype, payload, err := rd.next()
	if err != nil {
		return "", nil, err
	}
	if dtype == miCOMPRESSED {
		zr, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		inflated, err := io.ReadAll(io.LimitReader(zr, MaxDataBytes+1))
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if len(inflated) > MaxDataBytes {
			return "", nil, fmt.Errorf("%w: compressed element inflates past %d bytes", ErrMalformed, MaxDataBytes)
		}
		rd = &elementReader{buf: inflated, order: order}
		if dtype, payload, err = rd.next(); err != nil {
			return "", nil, err
		}
	}
	if dtype != miMATRIX {
		return "", nil, fmt.Errorf("%w: top-level element type %d", ErrUnsupportedClass, dtype)
	}

	return readSparseMatrix(&elementReader{buf: payload, order: order})
}

// LoadMAT opens path and decodes it with ReadMAT.
func LoadMAT(path string) (string, *Sparse, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	return ReadMAT(f)
}

// readSparseMatrix parses the sub-elements of a sparse miMATRIX.
func readSparseMatrix(rd *elementReader) (string, *Sparse, error) {
	sub := make([]numeric, 0, 7)
	for len(rd.buf) > 0 {
		dtype, payload, err := rd.next()
		if err != nil {
			return "", nil, err
		}
		sub = append(sub, numeric{dtype: dtype, data: payload, order: rd.order})
	}
	if len(sub) < 6 {
		return "", nil, fmt.Errorf("%w: %d sparse sub-elements", ErrMalformed, len(sub))
	}

	flags, err := sub[0].ints()
	if err != nil || len(flags) < 1 {
		return "", nil, fmt.Errorf("%w: array flags", ErrMalformed)
	}
	if class := flags[0] & 0xff; class != mxSparseClass {
		return "", nil, fmt.Errorf("%w: class %d", ErrUnsupportedClass, class)
	}
	isComplex := flags[0]&flagComplex != 0
	dims, err := sub[1].ints()
	if err != nil || len(dims) != 2 || dims[0] < 0 || dims[1] < 0 {
		return "", nil, fmt.Errorf("%w: dimensions", ErrMalformed)
	}
	name := string(sub[2].data)
	ir, err := sub[3].ints()
	if err != nil {
		return "", nil, err
	}
	jc, err := sub[4].ints()
	if err != nil {
		return "", nil, err
	}
	if len(jc) != dims[1]+1 {
		return "", nil, fmt.Errorf("%w: jc length %d for %d columns", ErrMalformed, len(jc), dims[1])
	}
	nnz := jc[dims[1]]
	pr, err := sub[5].floats()
	if err != nil {
		return "", nil, err
	}
	if nnz < 0 || nnz > len(ir) || nnz > len(pr) {
		return "", nil, fmt.Errorf("%w: %d entries declared, %d stored", ErrMalformed, nnz, min(len(ir), len(pr)))
	}
	ir, pr = ir[:nnz], pr[:nnz]

	if !isComplex {
		m, err := compressed(dims[0], dims[1], jc, ir, pr, true)
		if err != nil {
			return "", nil, err
		}
		return name, &Sparse{Real: m}, nil
	}
	if len(sub) < 7 {
		return "", nil, fmt.Errorf("%w: complex sparse without imaginary part", ErrMalformed)
	}
	pi, err := sub[6].floats()
	if err != nil {
		return "", nil, err
	}
	if nnz > len(pi) {
		return "", nil, fmt.Errorf("%w: short imaginary part", ErrMalformed)
	}
	vals := make([]complex128, nnz)
	for k := range vals {
		vals[k] = complex(pr[k], pi[k])
	}
	m, err := compressed(dims[0], dims[1], jc, ir, vals, true)
	if err != nil {
		return "", nil, err
	}

	return name, &Sparse{Complex: m}, nil
}

// elementReader walks consecutive v5 data elements in buf.
type elementReader struct {
	buf   []byte
	order binary.ByteOrder
}

// next returns the type and payload of the next element, handling both the
// full 8-byte tag and the packed small-element tag.
func (rd *elementReader) next() (uint32, []byte, error) {
	if len(rd.buf) < 8 {
		return 0, nil, fmt.Errorf("%w: truncated element tag", ErrMalformed)
	}
	first := rd.order.Uint32(rd.buf)
	if size := first >> 16; size != 0 {
		if size > 4 {
			return 0, nil, fmt.Errorf("%w: small element of %d bytes", ErrMalformed, size)
		}
		payload := rd.buf[4 : 4+size]
		rd.buf = rd.buf[8:]
		return first & 0xffff, payload, nil
	}
	size := int(rd.order.Uint32(rd.buf[4:]))
	if size < 0 || 8+size > len(rd.buf) {
		return 0, nil, fmt.Errorf("%w: element of %d bytes overruns buffer", ErrMalformed, size)
	}
	payload := rd.buf[8 : 8+size]
	step := 8 + size
	if first != miCOMPRESSED {
		step += (8 - size%8) % 8
	}
	rd.buf = rd.buf[min(step, len(rd.buf)):]

	return first, payload, nil
}

// numeric is one typed numeric sub-element payload.
type numeric struct {
	dtype uint32
	data  []byte
	order binary.ByteOrder
}

// width returns the byte width of the element type, or 0 if unsupported.
func (n numeric) width() int {
	switch n.dtype {
	case miINT8, miUINT8:
		return 1
	case miINT16, miUINT16:
		return 2
	case miINT32, miUINT32, miSINGLE:
		return 4
	case miDOUBLE, miINT64, miUINT64:
		return 8
	}
	return 0
}

// floats decodes the payload as float64 regardless of storage type.
func (n numeric) floats() ([]float64, error) {
	w := n.width()
	if w == 0 || len(n.data)%w != 0 {
		return nil, fmt.Errorf("%w: MAT type %d", ErrUnsupportedDType, n.dtype)
	}
	out := make([]float64, len(n.data)/w)
	for i := range out {
		b := n.data[i*w:]
		switch n.dtype {
		case miDOUBLE:
			out[i] = math.Float64frombits(n.order.Uint64(b))
		case miSINGLE:
			out[i] = float64(math.Float32frombits(n.order.Uint32(b)))
		case miINT8:
			out[i] = float64(int8(b[0]))
		case miUINT8:
			out[i] = float64(b[0])
		case miINT16:
			out[i] = float64(int16(n.order.Uint16(b)))
		case miUINT16:
			out[i] = float64(n.order.Uint16(b))
		case miINT32:
			out[i] = float64(int32(n.order.Uint32(b)))
		case miUINT32:
			out[i] = float64(n.order.Uint32(b))
		case miINT64:
			out[i] = float64(int64(n.order.Uint64(b)))
		case miUINT64:
			out[i] = float64(n.order.Uint64(b))
		}
	}

	return out, nil
}

// ints decodes an integer payload.
func (n numeric) ints() ([]int, error) {
	if n.dtype == miDOUBLE || n.dtype == miSINGLE {
		return nil, fmt.Errorf("%w: MAT type %d as integers", ErrUnsupportedDType, n.dtype)
	}
	fs, err := n.floats()
	if err != nil {
		return nil, err
	}
	out := make([]int, len(fs))
	for i, v := range fs {
		out[i] = int(v)
	}

	return out, nil
}
