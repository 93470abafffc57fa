package pointcloud

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// plyProperty is one scalar or list property of a PLY element.
type plyProperty struct {
	name      string
	kind      string // scalar type, or item type for lists
	countKind string // list length type; empty for scalars
}

// plyElement is a named block of count records.
type plyElement struct {
	name  string
	count int
	props []plyProperty
}

// plyHeader is the parsed header of a PLY file.
type plyHeader struct {
	format   string // ascii | binary_little_endian | binary_big_endian
	elements []plyElement
}

// plySizes maps PLY scalar type names (old and new spellings) to byte widths.
var plySizes = map[string]int{
	"char": 1, "int8": 1, "uchar": 1, "uint8": 1,
	"short": 2, "int16": 2, "ushort": 2, "uint16": 2,
	"int": 4, "int32": 4, "uint": 4, "uint32": 4,
	"float": 4, "float32": 4, "double": 8, "float64": 8,
}

// readPLY decodes the x/y/z properties of the "vertex" element. Elements
// stored before it are read and discarded.
func readPLY(r *bufio.Reader) ([]r3.Vec, error) {
	h, err := readPLYHeader(r)
	if err != nil {
		return nil, err
	}

	var order binary.ByteOrder
	switch h.format {
	case "ascii":
	case "binary_little_endian":
		order = binary.LittleEndian
	case "binary_big_endian":
		order = binary.BigEndian
	default:
		return nil, malformedf("ply: unknown format %q", h.format)
	}

	for _, el := range h.elements {
		axis := map[string]int{}
		for i, p := range el.props {
			switch p.name {
			case "x", "y", "z":
				if p.countKind != "" {
					return nil, malformedf("ply: list property %q", p.name)
				}
				axis[p.name] = i
			}
		}
		isVertex := el.name == "vertex"
		if isVertex && len(axis) != 3 {
			return nil, malformedf("ply: vertex element lacks x/y/z")
		}

		var pts []r3.Vec
		if isVertex {
			pts = make([]r3.Vec, 0, el.count)
		}
		rec := make([]float64, len(el.props))
		for n := 0; n < el.count; n++ {
			if order == nil {
				err = readPLYASCIIRecord(r, el, rec)
			} else {
				err = readPLYBinaryRecord(r, order, el, rec)
			}
			if err != nil {
				return nil, malformedf("ply: %s record %d: %v", el.name, n, err)
			}
			if isVertex {
				pts = append(pts, r3.Vec{X: rec[axis["x"]], Y: rec[axis["y"]], Z: rec[axis["z"]]})
			}
		}
		if isVertex {
			return pts, nil
		}
	}

	return nil, malformedf("ply: no vertex element")
}

// readPLYHeader parses everything up to and including "end_header".
func readPLYHeader(r *bufio.Reader) (*plyHeader, error) {
	line, err := r.ReadString('\n')
	if err != nil || strings.TrimSpace(line) != "ply" {
		return nil, malformedf("ply: missing magic")
	}
	h := &plyHeader{}
	for {
		line, err = r.ReadString('\n')
		if err != nil {
			return nil, malformedf("ply: header not terminated")
		}
		f := strings.Fields(line)
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case "format":
			if len(f) < 2 {
				return nil, malformedf("ply: bad format line")
			}
			h.format = f[1]
		case "element":
			if len(f) != 3 {
				return nil, malformedf("ply: bad element line %q", strings.TrimSpace(line))
			}
			n, err := strconv.Atoi(f[2])
			if err != nil || n < 0 {
				return nil, malformedf("ply: bad element count %q", f[2])
			}
			h.elements = append(h.elements, plyElement{name: f[1], count: n})
		case "property":
			if len(h.elements) == 0 {
				return nil, malformedf("ply: property before element")
			}
			el := &h.elements[len(h.elements)-1]
			var p plyProperty
			switch {
			case len(f) == 5 && f[1] == "list":
				p = plyProperty{name: f[4], kind: f[3], countKind: f[2]}
			case len(f) == 3:
				p = plyProperty{name: f[2], kind: f[1]}
			default:
				return nil, malformedf("ply: bad property line %q", strings.TrimSpace(line))
			}
			if _, ok := plySizes[p.kind]; !ok {
				return nil, malformedf("ply: unknown type %q", p.kind)
			}
			if _, ok := plySizes[p.countKind]; p.countKind != "" && !ok {
				return nil, malformedf("ply: unknown type %q", p.countKind)
			}
			el.props = append(el.props, p)
		case "end_header":
			if h.format == "" {
				return nil, malformedf("ply: missing format")
			}
			return h, nil
		}
		// comment, obj_info and unknown keywords are skipped
	}
}

// readPLYASCIIRecord reads one text line of el. List values are skipped and
// their slot in rec is left at 0.
func readPLYASCIIRecord(r *bufio.Reader, el plyElement, rec []float64) error {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
		return err
	}
	tok := strings.Fields(line)
	k := 0
	take := func() (float64, error) {
		if k >= len(tok) {
			return 0, io.ErrUnexpectedEOF
		}
		k++
		return strconv.ParseFloat(tok[k-1], 64)
	}
	for i, p := range el.props {
		v, err := take()
		if err != nil {
			return err
		}
		if p.countKind == "" {
			rec[i] = v
			continue
		}
		for j := 0; j < int(v); j++ {
			if _, err := take(); err != nil {
				return err
			}
		}
		rec[i] = 0
	}

	return nil
}

// readPLYBinaryRecord reads one binary record of el.
func readPLYBinaryRecord(r *bufio.Reader, order binary.ByteOrder, el plyElement, rec []float64) error {
	var buf [8]byte
	for i, p := range el.props {
		if p.countKind == "" {
			v, err := readPLYScalar(r, order, p.kind, buf[:])
			if err != nil {
				return err
			}
			rec[i] = v
			continue
		}
		n, err := readPLYScalar(r, order, p.countKind, buf[:])
		if err != nil {
			return err
		}
		if _, err := r.Discard(int(n) * plySizes[p.kind]); err != nil {
			return err
		}
		rec[i] = 0
	}

	return nil
}

// readPLYScalar decodes one binary value of the named type as float64.
func readPLYScalar(r io.Reader, order binary.ByteOrder, kind string, buf []byte) (float64, error) {
	b := buf[:plySizes[kind]]
	if _, err := io.ReadFull(r, b); err != nil {
		return 0, err
	}
	switch kind {
	case "char", "int8":
		return float64(int8(b[0])), nil
	case "uchar", "uint8":
		return float64(b[0]), nil
	case "short", "int16":
		return float64(int16(order.Uint16(b))), nil
	case "ushort", "uint16":
		return float64(order.Uint16(b)), nil
	case "int", "int32":
		return float64(int32(order.Uint32(b))), nil
	case "uint", "uint32":
		return float64(order.Uint32(b)), nil
	case "float", "float32":
		return float64(math.Float32frombits(order.Uint32(b))), nil
	default: // double, float64
		return math.Float64frombits(order.Uint64(b)), nil
	}
}
