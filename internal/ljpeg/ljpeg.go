// Package ljpeg implements the lossless JPEG coder (1992 process, SOF3)
// used for predictive compression of single-component raw sensor images.
// It encodes one scan with a fixed Huffman table and supports the standard
// predictors 1-7.
package ljpeg

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOF3 = 0xC3
	markerDHT  = 0xC4
	markerSOS  = 0xDA
)

// huffBits holds the number of codes per code length (1..16) for the fixed
// difference-category table. Symbols 0..2 get two-bit codes, symbol k >= 3
// gets a k-bit code; the 16-bit all-ones code stays unused as the standard
// requires.
var huffBits = [16]byte{0, 3, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}

func huffCode(ssss int) (code uint32, length int) {
	if ssss < 3 {
		return uint32(ssss), 2
	}
	return uint32(1<<ssss) - 2, ssss
}

// Encode compresses width*height samples at the given precision (2..16 bits)
// with the given predictor (1..7). The sample slice is row-major.
func Encode(samples []uint16, width, height, bits, predictor int) ([]byte, error) {
	if width <= 0 || height <= 0 || len(samples) != width*height {
		return nil, fmt.Errorf("ljpeg: %d samples do not fill %dx%d", len(samples), width, height)
	}
	if bits < 2 || bits > 16 {
		return nil, fmt.Errorf("ljpeg: unsupported precision %d", bits)
	}
	if predictor < 1 || predictor > 7 {
		return nil, fmt.Errorf("ljpeg: unsupported predictor %d", predictor)
	}

	out := make([]byte, 0, len(samples)/2+64)
	out = append(out, 0xFF, markerSOI)

	// SOF3: precision, dimensions, one component.
	out = append(out, 0xFF, markerSOF3, 0, 11,
		byte(bits),
		byte(height>>8), byte(height),
		byte(width>>8), byte(width),
		1,    // components
		0,    // component id
		0x11, // 1x1 sampling
		0)    // quantization (unused in lossless)

	// DHT: class 0, table 0.
	out = append(out, 0xFF, markerDHT, 0, 2+1+16+17, 0x00)
	out = append(out, huffBits[:]...)
	for s := 0; s <= 16; s++ {
		out = append(out, byte(s))
	}

	// SOS: Ss selects the predictor, Al is the point transform (zero).
	out = append(out, 0xFF, markerSOS, 0, 8,
		1,    // components in scan
		0, 0, // component id, DC/AC table 0
		byte(predictor),
		0, // Se
		0) // Ah/Al

	w := bitWriter{buf: out}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s := samples[y*width+x]
			pred := predict(samples, width, x, y, bits, predictor)
			diff := int(int16(s - uint16(pred)))
			ssss := category(diff)
			code, n := huffCode(ssss)
			w.write(code, n)
			if ssss > 0 && ssss < 16 {
				v := diff
				if diff < 0 {
					v = diff - 1
				}
				w.write(uint32(v)&(1<<ssss-1), ssss)
			}
		}
	}
	out = w.flush()

	out = append(out, 0xFF, markerEOI)
	return out, nil
}

// predict returns the prediction for position (x, y) per T.81 H.1: the very
// first sample uses half the coding range, the rest of the first line uses
// the left neighbor, the first column uses the sample above, and everything
// else uses the selected predictor.
func predict(samples []uint16, width, x, y, bits, predictor int) int {
	if x == 0 && y == 0 {
		return 1 << (bits - 1)
	}
	if y == 0 {
		return int(samples[x-1])
	}
	if x == 0 {
		return int(samples[(y-1)*width])
	}
	ra := int(samples[y*width+x-1])
	rb := int(samples[(y-1)*width+x])
	rc := int(samples[(y-1)*width+x-1])
	switch predictor {
	case 1:
		return ra
	case 2:
		return rb
	case 3:
		return rc
	case 4:
		return ra + rb - rc
	case 5:
		return ra + ((rb - rc) >> 1)
	case 6:
		return rb + ((ra - rc) >> 1)
	default:
		return (ra + rb) >> 1
	}
}

// category is the number of magnitude bits of diff (SSSS). diff is in
// [-32768, 32767]; -32768 maps to the special category 16.
func category(diff int) int {
	if diff < 0 {
		if diff == -32768 {
			return 16
		}
		diff = -diff
	}
	n := 0
	for diff > 0 {
		diff >>= 1
		n++
	}
	return n
}

// bitWriter packs MSB-first bits with 0xFF byte stuffing.
type bitWriter struct {
	buf  []byte
	acc  uint32
	nacc int
}

func (w *bitWriter) write(v uint32, n int) {
	w.acc = w.acc<<n | (v & (1<<n - 1))
	w.nacc += n
	for w.nacc >= 8 {
		w.nacc -= 8
		b := byte(w.acc >> w.nacc)
		w.buf = append(w.buf, b)
		if b == 0xFF {
			w.buf = append(w.buf, 0x00)
		}
	}
}

// flush pads the final byte with one bits, as the entropy segment requires.
func (w *bitWriter) flush() []byte {
	if w.nacc > 0 {
		pad := 8 - w.nacc
		w.write(1<<pad-1, pad)
	}
	return w.buf
}

// Image is a decoded lossless JPEG scan.
type Image struct {
	Width     int
	Height    int
	Bits      int
	Predictor int
	Samples   []uint16
}

// Decode parses a single-component lossless JPEG stream produced by Encode
// (or any conforming coder using one scan and one Huffman table).
func Decode(data []byte) (*Image, error) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != markerSOI {
		return nil, errors.New("ljpeg: missing SOI")
	}
	img := &Image{}
	var table huffTable
	pos := 2
	for {
		if pos+4 > len(data) {
			return nil, errors.New("ljpeg: truncated stream")
		}
		if data[pos] != 0xFF {
			return nil, errors.New("ljpeg: marker expected")
		}
		marker := data[pos+1]
		segLen := int(binary.BigEndian.Uint16(data[pos+2:]))
		if pos+2+segLen > len(data) {
			return nil, errors.New("ljpeg: truncated segment")
		}
		seg := data[pos+4 : pos+2+segLen]
		pos += 2 + segLen

		switch marker {
		case markerSOF3:
			if len(seg) < 6 {
				return nil, errors.New("ljpeg: short SOF3")
			}
			img.Bits = int(seg[0])
			img.Height = int(seg[1])<<8 | int(seg[2])
			img.Width = int(seg[3])<<8 | int(seg[4])
			if seg[5] != 1 {
				return nil, fmt.Errorf("ljpeg: %d components not supported", seg[5])
			}
		case markerDHT:
			if err := table.parse(seg); err != nil {
				return nil, err
			}
		case markerSOS:
			if len(seg) < 4 {
				return nil, errors.New("ljpeg: short SOS")
			}
			img.Predictor = int(seg[1+2*int(seg[0])])
			if img.Width == 0 || img.Height == 0 {
				return nil, errors.New("ljpeg: SOS before SOF3")
			}
			return decodeScan(img, &table, data[pos:])
		default:
			// DRI and application segments are not produced by Encode.
		}
	}
}

func decodeScan(img *Image, table *huffTable, data []byte) (*Image, error) {
	r := bitReader{data: data}
	img.Samples = make([]uint16, img.Width*img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			ssss, err := table.decode(&r)
			if err != nil {
				return nil, err
			}
			var diff int
			switch {
			case ssss == 0:
			case ssss == 16:
				diff = 32768
			default:
				v, err := r.read(ssss)
				if err != nil {
					return nil, err
				}
				diff = int(v)
				if diff < 1<<(ssss-1) {
					diff += -(1 << ssss) + 1
				}
			}
			pred := predict(img.Samples, img.Width, x, y, img.Bits, img.Predictor)
			img.Samples[y*img.Width+x] = uint16(pred + diff)
		}
	}
	return img, nil
}

// huffTable holds canonical code bounds per length, the standard decoding
// arrangement (T.81 F.2.2.3).
type huffTable struct {
	mincode [17]int32
	maxcode [17]int32
	valptr  [17]int32
	vals    []byte
}

func (t *huffTable) parse(seg []byte) error {
	if len(seg) < 17 {
		return errors.New("ljpeg: short DHT")
	}
	counts := seg[1:17]
	total := 0
	for _, c := range counts {
		total += int(c)
	}
	if len(seg) < 17+total {
		return errors.New("ljpeg: short DHT values")
	}
	t.vals = seg[17 : 17+total]

	code := int32(0)
	k := int32(0)
	for l := 1; l <= 16; l++ {
		n := int32(counts[l-1])
		t.valptr[l] = k
		t.mincode[l] = code
		code += n
		t.maxcode[l] = code - 1
		if n == 0 {
			t.maxcode[l] = -1
		}
		k += n
		code <<= 1
	}
	return nil
}

func (t *huffTable) decode(r *bitReader) (int, error) {
	code := int32(0)
	for l := 1; l <= 16; l++ {
		b, err := r.read(1)
		if err != nil {
			return 0, err
		}
		code = code<<1 | int32(b)
		if t.maxcode[l] >= 0 && code <= t.maxcode[l] && code >= t.mincode[l] {
			return int(t.vals[t.valptr[l]+code-t.mincode[l]]), nil
		}
	}
	return 0, errors.New("ljpeg: invalid Huffman code")
}

// bitReader reads MSB-first bits, dropping 0xFF stuffing bytes.
type bitReader struct {
	data []byte
	pos  int
	acc  uint32
	nacc int
}

func (r *bitReader) read(n int) (uint32, error) {
	for r.nacc < n {
		if r.pos >= len(r.data) {
			return 0, errors.New("ljpeg: entropy data exhausted")
		}
		b := r.data[r.pos]
		r.pos++
		if b == 0xFF {
			if r.pos >= len(r.data) {
				return 0, errors.New("ljpeg: truncated stuffing")
			}
			next := r.data[r.pos]
			if next == 0x00 {
				r.pos++
			} else if next == markerEOI {
				// Padding bits run into EOI; serve ones.
				b = 0xFF
			} else {
				return 0, fmt.Errorf("ljpeg: unexpected marker 0x%02X in scan", next)
			}
		}
		r.acc = r.acc<<8 | uint32(b)
		r.nacc += 8
	}
	r.nacc -= n
	return r.acc >> r.nacc & (1<<n - 1), nil
}
