package picasa

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is returned when a packed rect64 value is not valid hex.
	ErrFormat = errors.New("invalid rect64 format")

	// ErrMalformedFaceTag is returned when a faces= entry does not look like rect64(<hex>),<id>.
	ErrMalformedFaceTag = errors.New("malformed face tag")

	// ErrNoDimensions is returned when the dimensions of an image cannot be read.
	ErrNoDimensions = errors.New("image dimensions not found")

	// ErrIO wraps filesystem failures that abort a run.
	ErrIO = errors.New("io failure")
)

// ParseError describes a fatal problem within an album descriptor.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
