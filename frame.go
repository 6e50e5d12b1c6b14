package dng

import "fmt"

// Frame is the canonical sample array handed through the conversion pipeline:
// row-major, Width*Height samples, either unsigned 16-bit or float32. The
// format is explicit and validated once at the boundary; there is no
// best-effort continuation on an unexpected element type.
type Frame struct {
	Width  int
	Height int
	Format int // SampleUint or SampleFloat

	Pix  []uint16  // set when Format == SampleUint
	PixF []float32 // set when Format == SampleFloat
}

// NewFrame wraps unsigned 16-bit samples. pix is row-major with w*h entries.
func NewFrame(w, h int, pix []uint16) *Frame {
	return &Frame{Width: w, Height: h, Format: SampleUint, Pix: pix}
}

// NewFloatFrame wraps float32 samples. pix is row-major with w*h entries.
func NewFloatFrame(w, h int, pix []float32) *Frame {
	return &Frame{Width: w, Height: h, Format: SampleFloat, PixF: pix}
}

func (f *Frame) validate() error {
	if f == nil {
		return fmt.Errorf("%w: frame is nil", ErrBadSampleFormat)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrBadSampleFormat, f.Width, f.Height)
	}
	n := f.Width * f.Height
	switch f.Format {
	case SampleUint:
		if f.Pix == nil || f.PixF != nil {
			return ErrBadSampleFormat
		}
		if len(f.Pix) != n {
			return fmt.Errorf("%w: have %d samples, want %d", ErrBadSampleFormat, len(f.Pix), n)
		}
	case SampleFloat:
		if f.PixF == nil || f.Pix != nil {
			return ErrBadSampleFormat
		}
		if len(f.PixF) != n {
			return fmt.Errorf("%w: have %d samples, want %d", ErrBadSampleFormat, len(f.PixF), n)
		}
	default:
		return fmt.Errorf("%w: format %d", ErrBadSampleFormat, f.Format)
	}
	return nil
}

// Filter is an optional caller-supplied transform applied to the canonical
// samples before encoding. It must return a frame of identical shape and
// unsigned 16-bit format and must not mutate its input.
type Filter func(*Frame) (*Frame, error)

// applyFilter runs fn on f, enforcing the hook contract. A nil fn is the
// identity. The input frame is left untouched when the hook fails.
func applyFilter(f *Frame, fn Filter) (*Frame, error) {
	if fn == nil {
		return f, nil
	}
	out, err := fn(f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: hook returned nil", ErrFilterType)
	}
	if out.Format != SampleUint || out.Pix == nil {
		return nil, ErrFilterType
	}
	if out.Width != f.Width || out.Height != f.Height || len(out.Pix) != f.Width*f.Height {
		return nil, ErrFilterShape
	}
	return out, nil
}
