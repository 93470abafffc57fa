package pointcloud

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Cloud is an ordered set of 3D positions. The order is the row order of
// every matrix built from it.
type Cloud struct {
	Points []r3.Vec
}

// New wraps a copy of points.
func New(points []r3.Vec) *Cloud {
	return &Cloud{Points: append([]r3.Vec(nil), points...)}
}

// FromRows builds a cloud from N rows of at least three columns; extra
// columns are ignored.
func FromRows(rows [][]float64) (*Cloud, error) {
	pts := make([]r3.Vec, 0, len(rows))
	for i, row := range rows {
		if len(row) < 3 {
			return nil, malformedf("row %d has %d columns, need 3", i, len(row))
		}
		pts = append(pts, r3.Vec{X: row[0], Y: row[1], Z: row[2]})
	}

	return &Cloud{Points: pts}, nil
}

// Len returns the number of points.
func (c *Cloud) Len() int { return len(c.Points) }

// Centroid returns the mean position, or the zero vector for an empty cloud.
func (c *Cloud) Centroid() r3.Vec {
	var s r3.Vec
	if len(c.Points) == 0 {
		return s
	}
	for _, p := range c.Points {
		s = r3.Add(s, p)
	}

	return r3.Scale(1/float64(len(c.Points)), s)
}

// Bounds returns the axis-aligned bounding box corners. Both are the zero
// vector for an empty cloud.
func (c *Cloud) Bounds() (lo, hi r3.Vec) {
	if len(c.Points) == 0 {
		return lo, hi
	}
	lo = r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi = r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, p := range c.Points {
		lo = r3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}

	return lo, hi
}

// Dense returns the N×3 coordinate matrix, or nil for an empty cloud.
func (c *Cloud) Dense() *mat.Dense {
	if len(c.Points) == 0 {
		return nil
	}
	d := mat.NewDense(len(c.Points), 3, nil)
	for i, p := range c.Points {
		d.SetRow(i, []float64{p.X, p.Y, p.Z})
	}

	return d
}

// finite reports whether all three coordinates are finite.
func finite(p r3.Vec) bool {
	for _, v := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
