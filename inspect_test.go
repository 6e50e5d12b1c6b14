package dng

import "testing"

func TestInspect(t *testing.T) {
	const width, height, bits = 32, 8, 12
	conv, err := NewConverter(baseTags(width, height, bits), func(o *Options) {
		o.StripRows = 4
	})
	if err != nil {
		t.Fatalf("new converter: %v", err)
	}
	res, err := conv.Convert(NewFrame(width, height, testSamples(width*height, bits)))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	info, err := Inspect(res.Buf)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if info.Width != width || info.Height != height || info.BitsPerSample != bits {
		t.Fatalf("geometry = %dx%d/%d", info.Width, info.Height, info.BitsPerSample)
	}
	if info.Compression != CompressionNone || info.SampleFormat != SampleUint {
		t.Fatalf("compression/format = %d/%d", info.Compression, info.SampleFormat)
	}
	if info.Strips != 2 {
		t.Fatalf("strips = %d, want 2", info.Strips)
	}
	if info.StripBytes != width*height*bits/8 {
		t.Fatalf("strip bytes = %d, want %d", info.StripBytes, width*height*bits/8)
	}
	if info.Software != software {
		t.Fatalf("software = %q", info.Software)
	}
}

func TestInspectRejects(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
	}{
		{"empty", nil},
		{"wrong byte order", []byte{'M', 'M', 0, 42, 0, 0, 0, 8}},
		{"offset beyond buffer", []byte{'I', 'I', 42, 0, 0xFF, 0, 0, 0}},
		{"truncated directory", []byte{'I', 'I', 42, 0, 8, 0, 0, 0, 9, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Inspect(tc.buf); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
