// Package pointcloud acquires the N×3 vertex positions every downstream
// operator is built on.
//
// Two sources exist:
//
//	Load(path)      reads vertex positions from a mesh or point file; faces,
//	                normals, colors and any other element are discarded.
//	Random(n, seed) samples n points independently and uniformly in [0,1)³.
//
// Supported file formats, chosen by extension (case-insensitive):
//
//	.obj              Wavefront OBJ, "v x y z" records
//	.off              Object File Format (OFF, COFF, NOFF headers)
//	.ply              Stanford PLY: ascii, binary_little_endian, binary_big_endian
//	.xyz .pts .txt    one point per line, whitespace or comma separated
//	.npy              NumPy N×3 float64/float32 array
//
// Every failure of Load is a *LoadError carrying the path; errors.Is matches
// the wrapped cause (ErrNotFound together with fs.ErrNotExist,
// ErrUnsupportedFormat, ErrMalformed).
package pointcloud
