package dng

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/klauspost/compress/zlib"

	"github.com/openraw/godng/internal/ljpeg"
)

func TestCompressFrameRoundTripPredictor1(t *testing.T) {
	const width, height, bits = 12, 5, 12
	pix := testSamples(width*height, bits)
	strip, err := compressFrame(NewFrame(width, height, pix), LJ92{}, bits, 1)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	img, err := ljpeg.Decode(strip)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Width != width || img.Height != height || img.Bits != bits || img.Predictor != 1 {
		t.Fatalf("decoded header %dx%d bits=%d pred=%d", img.Width, img.Height, img.Bits, img.Predictor)
	}
	for i := range pix {
		if img.Samples[i] != pix[i] {
			t.Fatalf("sample %d = %d, want %d", i, img.Samples[i], pix[i])
		}
	}
}

// Predictor 6 retiles to double width and half height; the linear sample
// order is unchanged, so a decode of the strip yields the original samples
// under the retiled dimensions.
func TestCompressFrameRoundTripPredictor6(t *testing.T) {
	const width, height, bits = 8, 6, 10
	pix := testSamples(width*height, bits)
	strip, err := compressFrame(NewFrame(width, height, pix), LJ92{}, bits, 6)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	img, err := ljpeg.Decode(strip)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Width != width*2 || img.Height != height/2 {
		t.Fatalf("decoded dimensions %dx%d, want %dx%d", img.Width, img.Height, width*2, height/2)
	}
	if img.Predictor != 6 {
		t.Fatalf("predictor = %d, want 6", img.Predictor)
	}
	for i := range pix {
		if img.Samples[i] != pix[i] {
			t.Fatalf("sample %d = %d, want %d", i, img.Samples[i], pix[i])
		}
	}
}

func TestCompressFrameRejects(t *testing.T) {
	pix := testSamples(8*3, 12)
	if _, err := compressFrame(NewFrame(8, 3, pix), LJ92{}, 12, 6); !errors.Is(err, ErrInvalidPredictor) {
		t.Fatalf("odd height with predictor 6: got %v", err)
	}
	if _, err := compressFrame(NewFrame(8, 3, pix), LJ92{}, 12, 4); !errors.Is(err, ErrInvalidPredictor) {
		t.Fatalf("predictor 4: got %v", err)
	}
	if _, err := compressFrame(NewFrame(8, 3, pix), LJ92{}, 12, 0); !errors.Is(err, ErrInvalidPredictor) {
		t.Fatalf("predictor 0: got %v", err)
	}
}

func TestDeflateStripRoundTrip(t *testing.T) {
	raw := uint16Bytes(testSamples(500, 16))
	strip, err := deflateStrip(raw)
	if err != nil {
		t.Fatalf("deflate: %v", err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(strip))
	if err != nil {
		t.Fatalf("zlib reader: %v", err)
	}
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("inflate: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("inflated bytes differ from input")
	}
}

func TestConvertCompressedRoundTrip(t *testing.T) {
	const width, height, bits = 16, 8, 12
	conv, err := NewConverter(baseTags(width, height, bits), func(o *Options) {
		o.Compress = true
		o.Predictor = 1
	})
	if err != nil {
		t.Fatalf("new converter: %v", err)
	}
	pix := testSamples(width*height, bits)
	res, err := conv.Convert(NewFrame(width, height, pix))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	entries, _ := parseContainer(t, res.Buf)
	if got := entries[TagCompression].shorts()[0]; got != CompressionLJ92 {
		t.Fatalf("compression = %d, want %d", got, CompressionLJ92)
	}
	off := entries[TagStripOffsets].longs()[0]
	n := entries[TagStripByteCounts].longs()[0]
	img, err := ljpeg.Decode(res.Buf[off : off+n])
	if err != nil {
		t.Fatalf("decode strip: %v", err)
	}
	for i := range pix {
		if img.Samples[i] != pix[i] {
			t.Fatalf("sample %d = %d after round trip, want %d", i, img.Samples[i], pix[i])
		}
	}
}

func BenchmarkCompressFrame(b *testing.B) {
	const width, height, bits = 4056, 3040, 12
	frame := NewFrame(width, height, testSamples(width*height, bits))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := compressFrame(frame, LJ92{}, bits, 6); err != nil {
			b.Fatal(err)
		}
	}
}
