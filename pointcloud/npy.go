package pointcloud

import (
	"bufio"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/cloudlap/matio"
)

// readNPY decodes an N×3 float array saved with numpy.save. Both C and
// Fortran order are accepted; integer arrays are widened to float64.
func readNPY(r *bufio.Reader) ([]r3.Vec, error) {
	a, err := matio.ReadNPY(r)
	if err != nil {
		return nil, err
	}
	if len(a.Shape) != 2 || a.Shape[1] != 3 {
		return nil, malformedf("npy shape %v, want (N, 3)", a.Shape)
	}
	vals, err := a.Float64s()
	if err != nil {
		return nil, err
	}

	n := a.Shape[0]
	pts := make([]r3.Vec, n)
	for i := range pts {
		if a.FortranOrder {
			pts[i] = r3.Vec{X: vals[i], Y: vals[n+i], Z: vals[2*n+i]}
		} else {
			pts[i] = r3.Vec{X: vals[3*i], Y: vals[3*i+1], Z: vals[3*i+2]}
		}
	}

	return pts, nil
}
