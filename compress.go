package dng

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zlib"

	"github.com/openraw/godng/internal/ljpeg"
)

// Compressor is the interface to a lossless predictive coder. The conversion
// core validates the predictor and sample format before calling it and stores
// whatever bytes it returns as a single strip.
type Compressor interface {
	EncodeLossless(samples []uint16, width, height, bits, predictor int) ([]byte, error)
}

// LJ92 is the default Compressor, backed by the bundled lossless JPEG coder.
type LJ92 struct{}

func (LJ92) EncodeLossless(samples []uint16, width, height, bits, predictor int) ([]byte, error) {
	return ljpeg.Encode(samples, width, height, bits, predictor)
}

// compressFrame checks the predictor selector and delegates to the coder.
// Predictor 6 retiles the frame to twice the width and half the height so
// that same-color CFA rows sit next to each other.
func compressFrame(f *Frame, coder Compressor, bits, predictor int) ([]byte, error) {
	w, h := f.Width, f.Height
	switch predictor {
	case 1:
	case 6:
		if h%2 != 0 {
			return nil, fmt.Errorf("%w: predictor 6 needs an even height, have %d", ErrInvalidPredictor, h)
		}
		w, h = w*2, h/2
	default:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPredictor, predictor)
	}
	return coder.EncodeLossless(f.Pix, w, h, bits, predictor)
}

// deflateStrip compresses strip bytes as a zlib stream, the scheme DNG 1.4
// prescribes for floating-point samples.
func deflateStrip(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
