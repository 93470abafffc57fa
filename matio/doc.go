// Package matio serializes sparse matrices to the two interchange formats
// downstream numeric tooling reads without conversion:
//
//   - .npz: the archive written by scipy.sparse.save_npz: a deflated zip of
//     NumPy .npy members "indices", "indptr", "format", "shape", "data".
//     scipy.sparse.load_npz reads it back unchanged.
//   - .mat: a MATLAB 5.0 MAT-file holding one sparse variable (compressed
//     column storage, separate real and imaginary parts), readable by
//     scipy.io.loadmat and MATLAB's load.
//
// Both writers are deterministic: zip members carry a fixed timestamp and the
// MAT header carries no creation date, so equal matrices produce identical
// bytes. Both readers return exactly the values that were written.
package matio
