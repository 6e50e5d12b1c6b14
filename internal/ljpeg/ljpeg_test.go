package ljpeg

import (
	"fmt"
	"testing"
)

func testSamples(n, bits int) []uint16 {
	mask := uint16(1<<bits - 1)
	out := make([]uint16, n)
	state := uint32(0xBADC0DE)
	for i := range out {
		state = state*1664525 + 1013904223
		out[i] = uint16(state>>16) & mask
	}
	return out
}

func roundTrip(t *testing.T, samples []uint16, width, height, bits, predictor int) {
	t.Helper()
	data, err := Encode(samples, width, height, bits, predictor)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Width != width || img.Height != height || img.Bits != bits || img.Predictor != predictor {
		t.Fatalf("header %dx%d bits=%d pred=%d, want %dx%d bits=%d pred=%d",
			img.Width, img.Height, img.Bits, img.Predictor, width, height, bits, predictor)
	}
	for i := range samples {
		if img.Samples[i] != samples[i] {
			t.Fatalf("sample %d = %d, want %d", i, img.Samples[i], samples[i])
		}
	}
}

func TestRoundTripAllPredictors(t *testing.T) {
	const width, height, bits = 17, 9, 12
	samples := testSamples(width*height, bits)
	for p := 1; p <= 7; p++ {
		t.Run(fmt.Sprintf("predictor=%d", p), func(t *testing.T) {
			roundTrip(t, samples, width, height, bits, p)
		})
	}
}

func TestRoundTripPrecisionEdges(t *testing.T) {
	for _, bits := range []int{2, 8, 10, 14, 16} {
		t.Run(fmt.Sprintf("bits=%d", bits), func(t *testing.T) {
			roundTrip(t, testSamples(16*4, bits), 16, 4, bits, 1)
		})
	}
}

// A zero first sample against the 1<<15 starting prediction produces the
// -32768 difference, the only one in the special 16th category with no
// magnitude bits.
func TestRoundTripExtremeDifference(t *testing.T) {
	samples := []uint16{0, 0xFFFF, 0, 0x8000, 0x7FFF, 0, 0xFFFF, 1}
	roundTrip(t, samples, 4, 2, 16, 1)
}

func TestRoundTripFlatImage(t *testing.T) {
	samples := make([]uint16, 32*8)
	for i := range samples {
		samples[i] = 2048
	}
	roundTrip(t, samples, 32, 8, 12, 2)
}

func TestRoundTripSingleColumn(t *testing.T) {
	roundTrip(t, testSamples(9, 12), 1, 9, 12, 4)
}

func TestRoundTripSinglePixel(t *testing.T) {
	roundTrip(t, []uint16{7}, 1, 1, 12, 1)
}

// Every 0xFF in the entropy segment must be followed by a stuffed zero or
// the closing marker.
func TestEntropyByteStuffing(t *testing.T) {
	samples := testSamples(64*32, 16)
	data, err := Encode(samples, 64, 32, 16, 1)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// Skip the headers: the scan starts after the SOS segment.
	scan := -1
	for i := 2; i+3 < len(data); {
		if data[i] != 0xFF {
			t.Fatalf("marker expected at %d", i)
		}
		segLen := int(data[i+2])<<8 | int(data[i+3])
		if data[i+1] == markerSOS {
			scan = i + 2 + segLen
			break
		}
		i += 2 + segLen
	}
	if scan < 0 {
		t.Fatalf("no SOS segment found")
	}
	stuffed := false
	for i := scan; i < len(data)-1; i++ {
		if data[i] != 0xFF {
			continue
		}
		switch data[i+1] {
		case 0x00:
			stuffed = true
			i++
		case markerEOI:
		default:
			t.Fatalf("bare 0xFF %02X at offset %d", data[i+1], i)
		}
	}
	if !stuffed {
		t.Skip("no 0xFF bytes produced by this input")
	}
}

func TestEncodeRejects(t *testing.T) {
	samples := testSamples(8, 12)
	cases := []struct {
		name                            string
		n, width, height, bits, predictor int
	}{
		{"sample count", 8, 3, 3, 12, 1},
		{"zero width", 0, 0, 2, 12, 1},
		{"bits low", 8, 4, 2, 1, 1},
		{"bits high", 8, 4, 2, 17, 1},
		{"predictor low", 8, 4, 2, 12, 0},
		{"predictor high", 8, 4, 2, 12, 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Encode(samples[:tc.n], tc.width, tc.height, tc.bits, tc.predictor); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestDecodeRejects(t *testing.T) {
	good, err := Encode(testSamples(16, 12), 4, 4, 12, 1)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"missing SOI", []byte{0x00, 0x01, 0x02, 0x03}},
		{"truncated headers", good[:10]},
		{"truncated scan", good[:len(good)-6]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.data); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func BenchmarkEncode(b *testing.B) {
	const width, height = 2028, 1520
	samples := testSamples(width*height, 12)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(samples, width, height, 12, 6); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	const width, height = 2028, 1520
	data, err := Encode(testSamples(width*height, 12), width, height, 12, 6)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}
