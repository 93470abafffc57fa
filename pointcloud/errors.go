package pointcloud

import (
	"errors"
	"fmt"
)

// Sentinel errors for point-cloud acquisition.
var (
	// ErrNotFound is returned when the input file does not exist. The OS
	// error stays in the chain, so fs.ErrNotExist matches as well.
	ErrNotFound = errors.New("pointcloud: input not found")

	// ErrUnsupportedFormat is returned when the file extension has no reader.
	ErrUnsupportedFormat = errors.New("pointcloud: unsupported file format")

	// ErrMalformed is returned when a file cannot be parsed as its format.
	ErrMalformed = errors.New("pointcloud: malformed input")

	// ErrInvalidCount is returned when a non-positive sample count is requested.
	ErrInvalidCount = errors.New("pointcloud: point count must be > 0")
)

// LoadError reports a failed Load together with the offending path.
type LoadError struct {
	Path string
	Err  error
}

// Error implements error.
func (e *LoadError) Error() string {
	return fmt.Sprintf("pointcloud: load %q: %v", e.Path, e.Err)
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *LoadError) Unwrap() error { return e.Err }

// malformedf builds an ErrMalformed-wrapping error with format context.
func malformedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
