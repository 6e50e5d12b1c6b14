package dng

import "sort"

// IFD is one image file directory: an ordered set of encoded tags plus the
// overflow region for values wider than four bytes.
type IFD struct {
	tags []*Tag
}

// Add appends an encoded tag. Ids must be unique across one directory; the
// on-disk order is always ascending by id regardless of insertion order.
func (d *IFD) Add(t *Tag) {
	d.tags = append(d.tags, t)
}

// Tags returns the directory's tags in serialization order.
func (d *IFD) Tags() []*Tag {
	out := append([]*Tag(nil), d.tags...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of entries.
func (d *IFD) Len() int { return len(d.tags) }

// size is the encoded byte length of the directory block: entry count,
// entries, next-IFD pointer and the overflow region. It depends only on the
// tag contents, never on where the block lands in the file.
func (d *IFD) size() int {
	n := ifdCountLen + len(d.tags)*ifdEntryLen + ifdNextLen
	for _, t := range d.tags {
		if t.payloadLen() > entryValueLen {
			n += int(t.payloadLen())
		}
	}
	return n
}

// encode writes the directory block at buf[base:], with next as the absolute
// offset of the following IFD (zero for the last one). It returns the number
// of bytes written, which always equals size().
func (d *IFD) encode(buf []byte, base, next int) int {
	tags := d.Tags()

	byteOrder.PutUint16(buf[base:], uint16(len(tags)))
	pos := base + ifdCountLen
	overflow := base + ifdCountLen + len(tags)*ifdEntryLen + ifdNextLen

	for _, t := range tags {
		byteOrder.PutUint16(buf[pos:], uint16(t.ID))
		byteOrder.PutUint16(buf[pos+2:], uint16(t.Type))
		byteOrder.PutUint32(buf[pos+4:], t.Count)
		if t.payloadLen() <= entryValueLen {
			copy(buf[pos+8:pos+12], t.payload)
		} else {
			byteOrder.PutUint32(buf[pos+8:], uint32(overflow))
			copy(buf[overflow:], t.payload)
			overflow += int(t.payloadLen())
		}
		pos += ifdEntryLen
	}
	byteOrder.PutUint32(buf[pos:], uint32(next))

	return overflow - base
}
