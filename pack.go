package dng

import "math"

// packSamples encodes the frame's samples at the target per-pixel bit depth
// with no inter-pixel padding. 8-bit truncates, 10/12/14-bit pack groups of
// four samples into the minimal contiguous byte group, and everything else
// (16-bit integers, float32) is reinterpreted byte for byte. The 10-bit and
// 12-bit layouts are the exact inverses of Unpack; 14-bit and 8-bit have no
// decode path here, which is intentional.
func packSamples(f *Frame, bits int) []byte {
	if f.Format == SampleFloat {
		out := make([]byte, 4*len(f.PixF))
		for i, v := range f.PixF {
			byteOrder.PutUint32(out[4*i:], math.Float32bits(v))
		}
		return out
	}
	switch bits {
	case 8:
		out := make([]byte, len(f.Pix))
		for i, s := range f.Pix {
			out[i] = byte(s)
		}
		return out
	case 10:
		return pack10(f.Pix)
	case 12:
		return pack12(f.Pix)
	case 14:
		return pack14(f.Pix)
	default:
		out := make([]byte, 2*len(f.Pix))
		for i, s := range f.Pix {
			byteOrder.PutUint16(out[2*i:], s)
		}
		return out
	}
}

// pack10 emits 5 bytes per 4 samples: high 8 bits first, then one tail byte
// carrying the two low bits of sample j at bit offset 2*j. A trailing partial
// group still gets its tail byte, so the total is ceil(n*10/8).
func pack10(pix []uint16) []byte {
	out := make([]byte, (len(pix)*10+7)/8)
	o := 0
	for i := 0; i < len(pix); i += 4 {
		g := len(pix) - i
		if g > 4 {
			g = 4
		}
		var tail byte
		for j := 0; j < g; j++ {
			s := pix[i+j]
			out[o+j] = byte(s >> 2)
			tail |= byte(s&3) << (2 * j)
		}
		out[o+g] = tail
		o += g + 1
	}
	return out
}

// pack12 emits 3 bytes per 2 samples: two high bytes, then the low nibbles.
func pack12(pix []uint16) []byte {
	out := make([]byte, (len(pix)*12+7)/8)
	o := 0
	for i := 0; i < len(pix); i += 2 {
		s0 := pix[i]
		out[o] = byte(s0 >> 4)
		if i+1 < len(pix) {
			s1 := pix[i+1]
			out[o+1] = byte(s1 >> 4)
			out[o+2] = byte(s0&0x0F) | byte(s1&0x0F)<<4
			o += 3
		} else {
			out[o+1] = byte(s0 & 0x0F)
			o += 2
		}
	}
	return out
}

// pack14 emits 7 bytes per 4 samples: high 8 bits first, then the six low
// bits of sample j laid least-significant-first at bit offset 6*j across the
// tail bytes.
func pack14(pix []uint16) []byte {
	out := make([]byte, (len(pix)*14+7)/8)
	o := 0
	for i := 0; i < len(pix); i += 4 {
		g := len(pix) - i
		if g > 4 {
			g = 4
		}
		var tail uint32
		for j := 0; j < g; j++ {
			s := pix[i+j]
			out[o+j] = byte(s >> 6)
			tail |= uint32(s&0x3F) << (6 * j)
		}
		tailBytes := (6*g + 7) / 8
		for j := 0; j < tailBytes; j++ {
			out[o+g+j] = byte(tail >> (8 * j))
		}
		o += g + tailBytes
	}
	return out
}
