package matio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// npyMagic opens every .npy stream; the version bytes follow it.
const npyMagic = "\x93NUMPY"

// npyAlign is the alignment numpy pads the header to.
const npyAlign = 64

// Limits on what a decoder accepts from an untrusted stream. MaxDataBytes
// bounds the payload of one .npy array and one inflated MAT element.
const (
	MaxDataBytes    = 1 << 30
	maxNPYHeaderLen = 1 << 16
	readChunk       = 1 << 20
)

// Array is a decoded .npy array: dtype descriptor, shape and raw element
// bytes in storage order.
type Array struct {
	Descr        string // numpy dtype string, e.g. "<f8", "<c16", "|S3"
	FortranOrder bool
	Shape        []int
	Data         []byte
}

// Len returns the element count (1 for a 0-d array).
func (a *Array) Len() int {
	n := 1
	for _, d := range a.Shape {
		n *= d
	}

	return n
}

// Float64Array wraps values as a little-endian float64 array of the given shape.
func Float64Array(shape []int, values []float64) *Array {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}

	return &Array{Descr: "<f8", Shape: shape, Data: buf}
}

// Complex128Array wraps values as a little-endian complex128 array.
func Complex128Array(shape []int, values []complex128) *Array {
	buf := make([]byte, 16*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[16*i:], math.Float64bits(real(v)))
		binary.LittleEndian.PutUint64(buf[16*i+8:], math.Float64bits(imag(v)))
	}

	return &Array{Descr: "<c16", Shape: shape, Data: buf}
}

// Int32Array wraps values as a little-endian int32 vector. Callers ensure the
// values fit.
func Int32Array(values []int) *Array {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(int32(v)))
	}

	return &Array{Descr: "<i4", Shape: []int{len(values)}, Data: buf}
}

// Int64Array wraps values as a little-endian int64 vector.
func Int64Array(values []int) *Array {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[8*i:], uint64(int64(v)))
	}

	return &Array{Descr: "<i8", Shape: []int{len(values)}, Data: buf}
}

// BytesScalar wraps s as a 0-d fixed-width byte-string array ("|S<n>"),
// the dtype numpy gives to b"csr".
func BytesScalar(s string) *Array {
	return &Array{Descr: fmt.Sprintf("|S%d", len(s)), Shape: []int{}, Data: []byte(s)}
}

// WriteNPY encodes a as a version 1.0 .npy stream.
// Stage 1 (Prepare): render the header dict the way numpy does.
// Stage 2 (Execute): pad to a 64-byte boundary, write magic, header, data.
func WriteNPY(w io.Writer, a *Array) error {
	if want := a.Len() * itemSize(a.Descr); want != len(a.Data) {
		return fmt.Errorf("%w: %d data bytes for %d×%q", ErrMalformed, len(a.Data), a.Len(), a.Descr)
	}
	order := "False"
	if a.FortranOrder {
		order = "True"
	}
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': %s, 'shape': %s, }", a.Descr, order, shapeRepr(a.Shape))
	// magic(6) + version(2) + length(2) + header + '\n'
	pad := npyAlign - (len(npyMagic)+4+len(header)+1)%npyAlign
	if pad == npyAlign {
		pad = 0
	}
	header += strings.Repeat(" ", pad) + "\n"
	if len(header) > math.MaxUint16 {
		return fmt.Errorf("%w: header too long", ErrMalformed)
	}

	var pre [len(npyMagic) + 4]byte
	copy(pre[:], npyMagic)
	pre[6], pre[7] = 1, 0
	binary.LittleEndian.PutUint16(pre[8:], uint16(len(header)))
	if _, err := w.Write(pre[:]); err != nil {
		return err
	}
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	_, err := w.Write(a.Data)

	return err
}

// shapeRepr renders shape as a Python tuple: (), (3,), (3, 2).
func shapeRepr(shape []int) string {
	switch len(shape) {
	case 0:
		return "()"
	case 1:
		return "(" + strconv.Itoa(shape[0]) + ",)"
	}
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

var (
	reDescr   = regexp.MustCompile(`'descr'\s*:\s*'([^']*)'`)
	reFortran = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	reShape   = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

// ReadNPY decodes one .npy stream (format versions 1, 2 and 3).
func ReadNPY(r io.Reader) (*Array, error) {
	var pre [len(npyMagic) + 2]byte
	if _, err := io.ReadFull(r, pre[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if string(pre[:len(npyMagic)]) != npyMagic {
		return nil, ErrBadMagic
	}
	var hlen int
	switch pre[6] {
	case 1:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		hlen = int(binary.LittleEndian.Uint16(b[:]))
	case 2, 3:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		hlen = int(binary.LittleEndian.Uint32(b[:]))
	default:
		return nil, fmt.Errorf("%w: npy version %d", ErrBadMagic, pre[6])
	}
	if hlen > maxNPYHeaderLen {
		return nil, fmt.Errorf("%w: npy header of %d bytes", ErrMalformed, hlen)
	}
	hdr := make([]byte, hlen)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, err
	}

	a, err := parseHeader(string(hdr))
	if err != nil {
		return nil, err
	}
	size := itemSize(a.Descr)
	if size == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDType, a.Descr)
	}
	n, err := dataBytes(a.Shape, size)
	if err != nil {
		return nil, err
	}
	// the buffer grows with the bytes read, not with the declared shape
	var buf bytes.Buffer
	buf.Grow(int(min(n, readChunk)))
	if _, err := io.CopyN(&buf, r, n); err != nil {
		return nil, fmt.Errorf("%w: short data: %v", ErrMalformed, err)
	}
	a.Data = buf.Bytes()

	return a, nil
}

// dataBytes returns the payload size of shape×size, rejecting products that
// overflow or exceed MaxDataBytes.
func dataBytes(shape []int, size int) (int64, error) {
	n := int64(size)
	for _, d := range shape {
		if d != 0 && n > MaxDataBytes/int64(d) {
			return 0, fmt.Errorf("%w: npy shape %v exceeds %d bytes", ErrMalformed, shape, int64(MaxDataBytes))
		}
		n *= int64(d)
	}

	return n, nil
}

// parseHeader extracts descr, fortran_order and shape from the header dict.
func parseHeader(h string) (*Array, error) {
	d, f, s := reDescr.FindStringSubmatch(h), reFortran.FindStringSubmatch(h), reShape.FindStringSubmatch(h)
	if d == nil || f == nil || s == nil {
		return nil, fmt.Errorf("%w: npy header %q", ErrMalformed, strings.TrimSpace(h))
	}
	a := &Array{Descr: d[1], FortranOrder: f[1] == "True", Shape: []int{}}
	for _, part := range strings.Split(s[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(part, "L"))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: npy shape %q", ErrMalformed, s[1])
		}
		a.Shape = append(a.Shape, n)
	}

	return a, nil
}

// itemSize returns the element width of a supported dtype, or 0.
func itemSize(descr string) int {
	if len(descr) < 3 {
		return 0
	}
	n, err := strconv.Atoi(descr[2:])
	if err != nil {
		return 0
	}
	switch descr[1] {
	case 'S', 'u', 'i':
		return n
	case 'f':
		if n == 4 || n == 8 {
			return n
		}
	case 'c':
		if n == 8 || n == 16 {
			return n
		}
	}

	return 0
}

// byteOrder maps the dtype's order character to a binary.ByteOrder.
func byteOrder(descr string) binary.ByteOrder {
	if descr[0] == '>' {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// Float64s decodes a float or integer array as float64 in storage order.
func (a *Array) Float64s() ([]float64, error) {
	order, n := byteOrder(a.Descr), a.Len()
	out := make([]float64, n)
	switch a.Descr[1:] {
	case "f8":
		for i := range out {
			out[i] = math.Float64frombits(order.Uint64(a.Data[8*i:]))
		}
	case "f4":
		for i := range out {
			out[i] = float64(math.Float32frombits(order.Uint32(a.Data[4*i:])))
		}
	default:
		ints, err := a.Ints()
		if err != nil {
			return nil, err
		}
		for i, v := range ints {
			out[i] = float64(v)
		}
	}

	return out, nil
}

// Complex128s decodes a complex or real array as complex128.
func (a *Array) Complex128s() ([]complex128, error) {
	order, n := byteOrder(a.Descr), a.Len()
	out := make([]complex128, n)
	switch a.Descr[1:] {
	case "c16":
		for i := range out {
			re := math.Float64frombits(order.Uint64(a.Data[16*i:]))
			im := math.Float64frombits(order.Uint64(a.Data[16*i+8:]))
			out[i] = complex(re, im)
		}
	case "c8":
		for i := range out {
			re := math.Float32frombits(order.Uint32(a.Data[8*i:]))
			im := math.Float32frombits(order.Uint32(a.Data[8*i+4:]))
			out[i] = complex(float64(re), float64(im))
		}
	default:
		fs, err := a.Float64s()
		if err != nil {
			return nil, err
		}
		for i, v := range fs {
			out[i] = complex(v, 0)
		}
	}

	return out, nil
}

// Ints decodes a signed or unsigned integer array.
func (a *Array) Ints() ([]int, error) {
	order, n := byteOrder(a.Descr), a.Len()
	out := make([]int, n)
	switch a.Descr[1:] {
	case "i8":
		for i := range out {
			out[i] = int(int64(order.Uint64(a.Data[8*i:])))
		}
	case "i4":
		for i := range out {
			out[i] = int(int32(order.Uint32(a.Data[4*i:])))
		}
	case "u4":
		for i := range out {
			out[i] = int(order.Uint32(a.Data[4*i:]))
		}
	case "i2":
		for i := range out {
			out[i] = int(int16(order.Uint16(a.Data[2*i:])))
		}
	case "u1", "i1":
		for i := range out {
			if a.Descr[1] == 'i' {
				out[i] = int(int8(a.Data[i]))
			} else {
				out[i] = int(a.Data[i])
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q as integers", ErrUnsupportedDType, a.Descr)
	}

	return out, nil
}

// Text decodes a byte-string array, trimming numpy's NUL padding.
func (a *Array) Text() string {
	return string(bytes.TrimRight(a.Data, "\x00"))
}
