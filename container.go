package dng

import (
	"errors"
	"fmt"
)

// offsetPlaceholder is the two-phase handle for the strip-offsets value: the
// tag is built with zero placeholders during directory construction and bound
// to the resolved offsets once the total layout is known. This is the single
// sanctioned write into a tag table after it is frozen.
type offsetPlaceholder struct {
	tag *Tag
}

// newStripOffsetsTag builds the placeholder tag for n strips together with
// its bind handle.
func newStripOffsetsTag(n int) (*Tag, *offsetPlaceholder, error) {
	t, err := NewTag(TagStripOffsets, make([]int, n))
	if err != nil {
		return nil, nil, err
	}
	return t, &offsetPlaceholder{tag: t}, nil
}

func (p *offsetPlaceholder) bind(offsets []uint32) error {
	return p.tag.setLongs(offsets)
}

// Container owns the IFDs and strips of one conversion and materializes them
// into a byte-exact buffer. An instance serves exactly one conversion and is
// not safe for concurrent use; parallel conversions need independent
// instances.
type Container struct {
	ifds    []*IFD
	strips  [][]byte
	offsets *offsetPlaceholder
}

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{}
}

// AddIFD appends a directory. The first one becomes IFD0; later ones chain
// through the next-IFD pointer.
func (c *Container) AddIFD(d *IFD) {
	c.ifds = append(c.ifds, d)
}

// AddStrip appends one strip of encoded pixel bytes. Its absolute offset is
// resolved during materialization.
func (c *Container) AddStrip(b []byte) {
	c.strips = append(c.strips, b)
}

// StripCount returns the number of strips added so far.
func (c *Container) StripCount() int { return len(c.strips) }

// TrackStripOffsets registers the placeholder handle whose value is bound to
// the resolved strip offsets during materialization.
func (c *Container) TrackStripOffsets(p *offsetPlaceholder) {
	c.offsets = p
}

// Len is the closed-form total byte length: header, every directory block
// with its overflow, then every strip, in that fixed on-disk order.
func (c *Container) Len() int {
	n := headerLen
	for _, d := range c.ifds {
		n += d.size()
	}
	for _, s := range c.strips {
		n += len(s)
	}
	return n
}

// StripOffsets resolves each strip's absolute file offset: the end of the
// directory region plus the lengths of all preceding strips.
func (c *Container) StripOffsets() []uint32 {
	pos := headerLen
	for _, d := range c.ifds {
		pos += d.size()
	}
	out := make([]uint32, len(c.strips))
	for i, s := range c.strips {
		out[i] = uint32(pos)
		pos += len(s)
	}
	return out
}

// Materialize computes the total length, binds the strip-offsets placeholder,
// and writes header, directories and strips into a single buffer of exactly
// that length. A mismatch between the computed and written lengths is an
// internal invariant violation and panics; it cannot be reached from valid
// input.
func (c *Container) Materialize() ([]byte, error) {
	if len(c.ifds) == 0 {
		return nil, errors.New("container has no directory")
	}

	total := c.Len()

	if c.offsets != nil {
		if err := c.offsets.bind(c.StripOffsets()); err != nil {
			return nil, err
		}
	}

	buf := make([]byte, total)
	buf[0] = 'I'
	buf[1] = 'I'
	byteOrder.PutUint16(buf[2:], 42)
	byteOrder.PutUint32(buf[4:], headerLen)

	pos := headerLen
	for i, d := range c.ifds {
		next := 0
		if i+1 < len(c.ifds) {
			next = pos + d.size()
		}
		n := d.encode(buf, pos, next)
		if n != d.size() {
			panic(fmt.Sprintf("dng: directory %d wrote %d bytes, computed %d", i, n, d.size()))
		}
		pos += n
	}
	for _, s := range c.strips {
		pos += copy(buf[pos:], s)
	}
	if pos != total {
		panic(fmt.Sprintf("dng: wrote %d bytes, computed %d", pos, total))
	}
	return buf, nil
}
