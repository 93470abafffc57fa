package matio

import "errors"

// Sentinel errors for the matio codecs.
var (
	// ErrBadMagic is returned when a stream does not start with the expected
	// .npy magic or MAT-file header.
	ErrBadMagic = errors.New("matio: bad magic")

	// ErrUnsupportedDType is returned for .npy dtypes or MAT data types the
	// codecs do not decode.
	ErrUnsupportedDType = errors.New("matio: unsupported dtype")

	// ErrMissingMember is returned when an .npz archive lacks a required array.
	ErrMissingMember = errors.New("matio: missing npz member")

	// ErrUnsupportedClass is returned when a MAT variable is not a sparse matrix
	// or an .npz holds a sparse format other than csr/csc.
	ErrUnsupportedClass = errors.New("matio: unsupported matrix class")

	// ErrMalformed is returned for structurally invalid content.
	ErrMalformed = errors.New("matio: malformed content")
)
