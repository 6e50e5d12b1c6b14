package dng

import (
	"errors"
	"fmt"
)

// Validation errors abort a conversion before any buffer is allocated.
var (
	ErrMissingRequiredTag = errors.New("missing required tag")
	ErrBadSampleFormat    = errors.New("samples must be uint16 or float32")
)

// Format errors reject unsupported stored layouts and scheme combinations,
// also before any allocation.
var (
	ErrUnsupportedFormat      = errors.New("unsupported stored bit depth")
	ErrInvalidPredictor       = errors.New("predictor must be 1 or 6")
	ErrUnsupportedCompression = errors.New("compression is not supported for floating-point samples")
)

// Filter contract errors reject a hook result without touching the input.
var (
	ErrFilterShape = errors.New("filter result does not have the same shape")
	ErrFilterType  = errors.New("filter result is not uint16")
)

// EncodingWarning reports a single caller-supplied tag that failed to encode.
// It is non-fatal: the tag is skipped and the conversion continues.
type EncodingWarning struct {
	Tag TagID
	Err error
}

func (w EncodingWarning) Error() string {
	return fmt.Sprintf("tag %d skipped: %v", w.Tag, w.Err)
}

func (w EncodingWarning) Unwrap() error { return w.Err }
