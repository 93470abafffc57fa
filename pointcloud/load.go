package pointcloud

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// reader decodes vertex positions from one file format.
type reader func(r *bufio.Reader) ([]r3.Vec, error)

// readers maps lower-case extensions to their decoders.
var readers = map[string]reader{
	".obj": readOBJ,
	".off": readOFF,
	".ply": readPLY,
	".xyz": readXYZ,
	".pts": readXYZ,
	".txt": readXYZ,
	".npy": readNPY,
}

// Formats lists the supported extensions in sorted order.
func Formats() []string {
	out := make([]string, 0, len(readers))
	for ext := range readers {
		out = append(out, ext)
	}
	sort.Strings(out)

	return out
}

// Load reads the vertex positions stored at path.
// Stage 1 (Validate): extension has a reader.
// Stage 2 (Execute): open and decode.
// Stage 3 (Finalize): reject non-finite coordinates.
// Every error is a *LoadError.
func Load(path string) (*Cloud, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := readers[ext]
	if !ok {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)}
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %w", ErrNotFound, err)}
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	pts, err := decode(bufio.NewReader(f))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	for i, p := range pts {
		if !finite(p) {
			return nil, &LoadError{Path: path, Err: malformedf("vertex %d is not finite", i)}
		}
	}

	return &Cloud{Points: pts}, nil
}

// LoadFrom decodes r as the format named by ext (".ply", "obj", ...).
// Errors are not wrapped in *LoadError since no path is involved.
func LoadFrom(r io.Reader, ext string) (*Cloud, error) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	decode, ok := readers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	pts, err := decode(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	for i, p := range pts {
		if !finite(p) {
			return nil, malformedf("vertex %d is not finite", i)
		}
	}

	return &Cloud{Points: pts}, nil
}
