package dng

import "fmt"

// Packing describes how samples are stored in a capture buffer.
type Packing int

const (
	// PackingUnpacked means byte pairs reinterpreted as little-endian
	// unsigned 16-bit samples, no arithmetic.
	PackingUnpacked Packing = iota
	// PackingCSI2 means MIPI CSI-2 style bit packing at the stored depth.
	PackingCSI2
)

// CaptureFormat describes how a packed capture buffer must be interpreted.
// It is supplied by a camera definition, not owned by the conversion core.
type CaptureFormat struct {
	Width      int     // declared samples per row
	Height     int     // declared rows
	Stride     int     // bytes per input row, including any sensor padding
	StoredBits int     // bits per sample in the packed representation
	Packing    Packing //
}

// storedBits is the effective stored depth: unpacked buffers always carry
// 16 bits per sample on the wire.
func (f CaptureFormat) storedBits() int {
	if f.Packing == PackingUnpacked {
		return 16
	}
	return f.StoredBits
}

// Unpack decodes a packed capture buffer into canonical unsigned 16-bit
// samples. Input rows are cropped to the declared height and to
// width*storedBits/8 bytes before interpretation. Supported stored depths are
// 16 (pass-through), 10 and 12; anything else fails with
// ErrUnsupportedFormat.
func Unpack(raw []byte, f CaptureFormat) (*Frame, error) {
	bits := f.storedBits()
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid geometry %dx%d", ErrUnsupportedFormat, f.Width, f.Height)
	}
	switch bits {
	case 10:
		if f.Width%4 != 0 {
			return nil, fmt.Errorf("%w: 10-bit width must be a multiple of 4", ErrUnsupportedFormat)
		}
	case 12:
		if f.Width%2 != 0 {
			return nil, fmt.Errorf("%w: 12-bit width must be a multiple of 2", ErrUnsupportedFormat)
		}
	case 16:
	default:
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedFormat, bits)
	}

	rowBytes := f.Width * bits / 8
	stride := f.Stride
	if stride == 0 {
		stride = rowBytes
	}
	if stride < rowBytes {
		return nil, fmt.Errorf("%w: stride %d shorter than row of %d bytes", ErrUnsupportedFormat, stride, rowBytes)
	}
	if need := (f.Height-1)*stride + rowBytes; len(raw) < need {
		return nil, fmt.Errorf("%w: buffer holds %d bytes, need %d", ErrUnsupportedFormat, len(raw), need)
	}

	out := make([]uint16, f.Width*f.Height)
	for y := 0; y < f.Height; y++ {
		row := raw[y*stride : y*stride+rowBytes]
		dst := out[y*f.Width : (y+1)*f.Width]
		switch bits {
		case 16:
			for x := range dst {
				dst[x] = byteOrder.Uint16(row[2*x:])
			}
		case 10:
			unpackRow10(row, dst)
		case 12:
			unpackRow12(row, dst)
		}
	}
	return NewFrame(f.Width, f.Height, out), nil
}

// unpackRow10 decodes 5-byte groups into 4 samples each: the first four bytes
// hold the high 8 bits, the fifth carries the two low bits of sample j at bit
// offset 2*j.
func unpackRow10(row []byte, dst []uint16) {
	for g := 0; g*5 < len(row); g++ {
		b := row[g*5 : g*5+5]
		for j := 0; j < 4; j++ {
			dst[g*4+j] = uint16(b[j])<<2 | uint16(b[4]>>(2*j))&3
		}
	}
}

// unpackRow12 decodes 3-byte groups into 2 samples each; the third byte holds
// the low nibbles.
func unpackRow12(row []byte, dst []uint16) {
	for g := 0; g*3 < len(row); g++ {
		b := row[g*3 : g*3+3]
		dst[g*2] = uint16(b[0])<<4 | uint16(b[2])&0x0F
		dst[g*2+1] = uint16(b[1])<<4 | uint16(b[2]>>4)&0x0F
	}
}
