package pointcloud

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// lineReader yields trimmed, non-empty lines with '#' comments removed and
// tracks line numbers for error messages.
type lineReader struct {
	r    *bufio.Reader
	line int
}

// next returns the next meaningful line or io.EOF.
func (lr *lineReader) next() (string, error) {
	for {
		s, err := lr.r.ReadString('\n')
		if len(s) == 0 && err != nil {
			return "", err
		}
		lr.line++
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		if s = strings.TrimSpace(s); s != "" {
			return s, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// parseVec parses the first three fields as coordinates.
func parseVec(fields []string) (r3.Vec, error) {
	if len(fields) < 3 {
		return r3.Vec{}, errors.New("need 3 coordinates")
	}
	var xyz [3]float64
	for k := 0; k < 3; k++ {
		v, err := strconv.ParseFloat(fields[k], 64)
		if err != nil {
			return r3.Vec{}, err
		}
		xyz[k] = v
	}

	return r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// readOBJ collects "v x y z [w]" records; every other record is ignored.
func readOBJ(r *bufio.Reader) ([]r3.Vec, error) {
	lr := &lineReader{r: r}
	var pts []r3.Vec
	for {
		s, err := lr.next()
		if errors.Is(err, io.EOF) {
			return pts, nil
		}
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(s)
		if fields[0] != "v" {
			continue
		}
		p, err := parseVec(fields[1:])
		if err != nil {
			return nil, malformedf("obj line %d: %v", lr.line, err)
		}
		pts = append(pts, p)
	}
}

// readOFF reads the vertex block of an OFF file. The header keyword may carry
// C/N/ST prefixes and may share its line with the counts.
func readOFF(r *bufio.Reader) ([]r3.Vec, error) {
	lr := &lineReader{r: r}
	s, err := lr.next()
	if err != nil {
		return nil, malformedf("off: missing header")
	}
	fields := strings.Fields(s)
	if !strings.HasSuffix(fields[0], "OFF") {
		return nil, malformedf("off: bad header %q", fields[0])
	}
	fields = fields[1:]
	if len(fields) == 0 {
		if s, err = lr.next(); err != nil {
			return nil, malformedf("off: missing counts")
		}
		fields = strings.Fields(s)
	}
	nv, err := strconv.Atoi(fields[0])
	if err != nil || nv < 0 {
		return nil, malformedf("off: bad vertex count %q", fields[0])
	}

	pts := make([]r3.Vec, 0, nv)
	for i := 0; i < nv; i++ {
		s, err := lr.next()
		if err != nil {
			return nil, malformedf("off: expected %d vertices, got %d", nv, i)
		}
		p, err := parseVec(strings.Fields(s))
		if err != nil {
			return nil, malformedf("off line %d: %v", lr.line, err)
		}
		pts = append(pts, p)
	}

	return pts, nil
}

// readXYZ reads one point per line from the first three columns; commas,
// semicolons and whitespace all separate fields.
func readXYZ(r *bufio.Reader) ([]r3.Vec, error) {
	lr := &lineReader{r: r}
	split := func(c rune) bool { return c == ',' || c == ';' || c == ' ' || c == '\t' }
	var pts []r3.Vec
	for {
		s, err := lr.next()
		if errors.Is(err, io.EOF) {
			return pts, nil
		}
		if err != nil {
			return nil, err
		}
		p, err := parseVec(strings.FieldsFunc(s, split))
		if err != nil {
			return nil, malformedf("xyz line %d: %v", lr.line, err)
		}
		pts = append(pts, p)
	}
}
