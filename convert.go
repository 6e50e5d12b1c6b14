package dng

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Options configure one conversion profile.
type Options struct {
	OutputDir string     // joined with the filename on file output
	Compress  bool       // lossless JPEG strips instead of bit packing
	Predictor int        // 1 or 6; meaningful only with Compress
	Deflate   bool       // Deflate strips (scheme 8), the DNG 1.4 route for float samples
	Filter    Filter     // optional transform on the canonical samples
	Coder     Compressor // lossless coder; defaults to the bundled LJ92
	StripRows int        // rows per strip on the uncompressed path; 0 writes one strip
}

// Result is a completed conversion: the materialized container plus the
// per-tag encode warnings collected while the directory was built.
type Result struct {
	Buf      []byte
	Warnings []EncodingWarning
}

// Converter turns canonical sample frames into DNG containers. One Converter
// holds one frozen tag table; it may convert many frames sequentially but is
// not safe for concurrent use — run parallel conversions on independent
// instances.
type Converter struct {
	tags *TagSet
	opt  Options
}

// NewConverter validates the tag table and freezes the conversion options.
// Image width, image length and bits-per-sample must be present; their
// absence fails here, before any buffer is allocated.
func NewConverter(tags *TagSet, opts ...func(*Options)) (*Converter, error) {
	if tags == nil {
		return nil, fmt.Errorf("%w: no tags", ErrMissingRequiredTag)
	}
	for _, id := range []TagID{TagImageWidth, TagImageLength, TagBitsPerSample} {
		if !tags.Has(id) {
			return nil, fmt.Errorf("%w: tag %d", ErrMissingRequiredTag, id)
		}
	}
	opt := Options{Predictor: 6, Coder: LJ92{}}
	for _, o := range opts {
		o(&opt)
	}
	if opt.Compress && opt.Deflate {
		return nil, errors.New("choose either lossless JPEG or Deflate, not both")
	}
	if opt.Coder == nil {
		opt.Coder = LJ92{}
	}
	return &Converter{tags: tags, opt: opt}, nil
}

// Convert runs the full pipeline on one frame and returns the container
// bytes. Validation and format errors abort before anything is allocated or
// the coder is invoked; per-tag encode failures are collected into the result
// instead of aborting.
func (c *Converter) Convert(f *Frame) (*Result, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	bpp, ok := c.tags.firstInt(TagBitsPerSample)
	if !ok {
		return nil, fmt.Errorf("%w: bits-per-sample is not numeric", ErrMissingRequiredTag)
	}

	scheme := CompressionNone
	if c.opt.Compress {
		scheme = CompressionLJ92
	} else if c.opt.Deflate {
		scheme = CompressionDeflate
	}

	sampleFormat := SampleUint
	backward := dngVersion10
	if f.Format == SampleFloat {
		sampleFormat = SampleFloat
		// Floating-point samples require DNG 1.4.
		backward = dngVersion14
		if scheme == CompressionLJ92 {
			return nil, ErrUnsupportedCompression
		}
	}

	filtered, err := applyFilter(f, c.opt.Filter)
	if err != nil {
		return nil, err
	}

	var strips [][]byte
	rowsPerStrip := filtered.Height
	switch scheme {
	case CompressionLJ92:
		strip, err := compressFrame(filtered, c.opt.Coder, bpp, c.opt.Predictor)
		if err != nil {
			return nil, err
		}
		strips = [][]byte{strip}
	case CompressionDeflate:
		strip, err := deflateStrip(packSamples(filtered, bpp))
		if err != nil {
			return nil, err
		}
		strips = [][]byte{strip}
	default:
		strips, rowsPerStrip = splitStrips(packSamples(filtered, bpp), filtered.Height, c.opt.StripRows)
	}

	ifd, ph, warnings, err := c.buildIFD(strips, scheme, backward, sampleFormat, rowsPerStrip)
	if err != nil {
		return nil, err
	}

	container := NewContainer()
	container.AddIFD(ifd)
	for _, s := range strips {
		container.AddStrip(s)
	}
	container.TrackStripOffsets(ph)

	buf, err := container.Materialize()
	if err != nil {
		return nil, err
	}
	return &Result{Buf: buf, Warnings: warnings}, nil
}

// ConvertFile converts the frame and writes the result under the configured
// output directory, enforcing the .dng extension. The file appears only after
// the buffer is complete; a failed conversion writes nothing. It returns the
// path written.
func (c *Converter) ConvertFile(f *Frame, filename string) (string, *Result, error) {
	if filename == "" {
		return "", nil, errors.New("no filename given")
	}
	res, err := c.Convert(f)
	if err != nil {
		return "", nil, err
	}
	if !strings.HasSuffix(filename, ".dng") {
		filename += ".dng"
	}
	path := filepath.Join(c.opt.OutputDir, filename)
	if err := os.WriteFile(path, res.Buf, 0o644); err != nil {
		return "", nil, err
	}
	return path, res, nil
}

// splitStrips cuts encoded pixel bytes into row-aligned strips. When the
// packed rows do not fall on byte boundaries, or stripRows does not divide
// the image usefully, the whole payload stays in one strip.
func splitStrips(data []byte, height, stripRows int) ([][]byte, int) {
	if stripRows <= 0 || stripRows >= height || len(data)%height != 0 {
		return [][]byte{data}, height
	}
	bytesPerRow := len(data) / height
	var out [][]byte
	for row := 0; row < height; row += stripRows {
		n := stripRows
		if row+n > height {
			n = height - row
		}
		out = append(out, data[row*bytesPerRow:(row+n)*bytesPerRow])
	}
	return out, stripRows
}

// bookkeepingTags are written by the converter itself; caller-supplied values
// for them are skipped with a warning since duplicate ids are non-conformant.
var bookkeepingTags = map[TagID]bool{
	TagNewSubfileType:     true,
	TagStripOffsets:       true,
	TagStripByteCounts:    true,
	TagCompression:        true,
	TagSoftware:           true,
	TagDNGVersion:         true,
	TagDNGBackwardVersion: true,
	TagSampleFormat:       true,
}

// buildIFD is the placeholder-construction pass: the strip-offsets tag starts
// as zeroes behind a bind handle, the byte counts are known already, then the
// fixed bookkeeping tags and finally every caller tag that encodes cleanly.
func (c *Converter) buildIFD(strips [][]byte, scheme int, backward []byte, sampleFormat, rowsPerStrip int) (*IFD, *offsetPlaceholder, []EncodingWarning, error) {
	d := &IFD{}

	stripTag, ph, err := newStripOffsetsTag(len(strips))
	if err != nil {
		return nil, nil, nil, err
	}
	d.Add(stripTag)

	counts := make([]int, len(strips))
	for i, s := range strips {
		counts[i] = len(s)
	}
	fixed := []struct {
		id    TagID
		value any
	}{
		{TagNewSubfileType, 0},
		{TagStripByteCounts, counts},
		{TagCompression, scheme},
		{TagSoftware, software},
		{TagDNGVersion, dngVersion14},
		{TagDNGBackwardVersion, backward},
		{TagSampleFormat, sampleFormat},
	}
	for _, ft := range fixed {
		t, err := NewTag(ft.id, ft.value)
		if err != nil {
			return nil, nil, nil, err
		}
		d.Add(t)
	}
	if !c.tags.Has(TagRowsPerStrip) {
		t, err := NewTag(TagRowsPerStrip, rowsPerStrip)
		if err != nil {
			return nil, nil, nil, err
		}
		d.Add(t)
	}

	var warnings []EncodingWarning
	for _, id := range c.tags.ids() {
		if bookkeepingTags[id] {
			warnings = append(warnings, EncodingWarning{Tag: id, Err: errors.New("collides with a bookkeeping tag")})
			continue
		}
		v, _ := c.tags.Get(id)
		t, err := NewTag(id, v)
		if err != nil {
			warnings = append(warnings, EncodingWarning{Tag: id, Err: err})
			continue
		}
		d.Add(t)
	}
	return d, ph, warnings, nil
}
