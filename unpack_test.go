package dng

import (
	"errors"
	"testing"
)

func TestUnpack16PassThrough(t *testing.T) {
	// Two declared rows of four samples, with stride padding and one extra
	// sensor row that the crop must drop.
	f := CaptureFormat{Width: 4, Height: 2, Stride: 10, Packing: PackingUnpacked}
	raw := make([]byte, 3*10)
	want := []uint16{1, 2, 3, 0xFFFF, 5, 6, 7, 0x8001}
	for i, v := range want {
		row, col := i/4, i%4
		byteOrder.PutUint16(raw[row*10+2*col:], v)
	}
	raw[8] = 0xAA // stride padding, must be ignored

	frame, err := Unpack(raw, f)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if frame.Width != 4 || frame.Height != 2 || frame.Format != SampleUint {
		t.Fatalf("unexpected frame shape %dx%d", frame.Width, frame.Height)
	}
	for i, v := range want {
		if frame.Pix[i] != v {
			t.Fatalf("sample %d = %d, want %d", i, frame.Pix[i], v)
		}
	}
}

func TestUnpack10CropsStride(t *testing.T) {
	pix := testSamples(16, 10)
	rowBytes := 8 * 10 / 8
	stride := rowBytes + 6
	raw := make([]byte, 2*stride)
	for y := 0; y < 2; y++ {
		copy(raw[y*stride:], pack10(pix[y*8:(y+1)*8]))
	}

	frame, err := Unpack(raw, CaptureFormat{
		Width: 8, Height: 2, Stride: stride, StoredBits: 10, Packing: PackingCSI2,
	})
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	for i := range pix {
		if frame.Pix[i] != pix[i] {
			t.Fatalf("sample %d = %d, want %d", i, frame.Pix[i], pix[i])
		}
	}
}

func TestUnpackRejectsUnsupportedDepth(t *testing.T) {
	for _, bits := range []int{8, 11, 14} {
		_, err := Unpack(make([]byte, 64), CaptureFormat{
			Width: 4, Height: 2, StoredBits: bits, Packing: PackingCSI2,
		})
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("%d bits: got %v, want ErrUnsupportedFormat", bits, err)
		}
	}
}

func TestUnpackRejectsShortBuffer(t *testing.T) {
	_, err := Unpack(make([]byte, 5), CaptureFormat{
		Width: 4, Height: 2, StoredBits: 12, Packing: PackingCSI2,
	})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestUnpackRejectsMisalignedWidth(t *testing.T) {
	_, err := Unpack(make([]byte, 64), CaptureFormat{
		Width: 6, Height: 2, StoredBits: 10, Packing: PackingCSI2,
	})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}
}
