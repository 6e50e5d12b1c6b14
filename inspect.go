package dng

import (
	"errors"
	"fmt"
)

// Info summarizes the first image directory of a materialized container.
type Info struct {
	Width         int
	Height        int
	BitsPerSample int
	Compression   int
	SampleFormat  int
	Strips        int
	StripBytes    int
	Software      string
}

// Inspect parses the container header and first directory and returns the
// image summary. It reads only directory structure, never strip data, so it
// is cheap on large files.
func Inspect(buf []byte) (*Info, error) {
	if len(buf) < headerLen || buf[0] != 'I' || buf[1] != 'I' || byteOrder.Uint16(buf[2:]) != 42 {
		return nil, errors.New("not a little-endian TIFF container")
	}
	dir := int(byteOrder.Uint32(buf[4:]))
	if dir+ifdCountLen > len(buf) {
		return nil, errors.New("directory offset beyond buffer")
	}
	n := int(byteOrder.Uint16(buf[dir:]))
	if dir+ifdCountLen+n*ifdEntryLen+ifdNextLen > len(buf) {
		return nil, errors.New("truncated directory")
	}

	info := &Info{Compression: CompressionNone, SampleFormat: SampleUint}
	for i := 0; i < n; i++ {
		pos := dir + ifdCountLen + i*ifdEntryLen
		id := TagID(byteOrder.Uint16(buf[pos:]))
		typ := FieldType(byteOrder.Uint16(buf[pos+2:]))
		count := int(byteOrder.Uint32(buf[pos+4:]))
		size := count * int(typ.size())
		value := buf[pos+8 : pos+8+entryValueLen]
		if size > entryValueLen {
			off := int(byteOrder.Uint32(value))
			if off+size > len(buf) {
				return nil, fmt.Errorf("tag %d: value beyond buffer", id)
			}
			value = buf[off : off+size]
		}

		first := func() int {
			switch typ {
			case TypeShort:
				return int(byteOrder.Uint16(value))
			case TypeLong:
				return int(byteOrder.Uint32(value))
			case TypeByte:
				return int(value[0])
			default:
				return 0
			}
		}
		switch id {
		case TagImageWidth:
			info.Width = first()
		case TagImageLength:
			info.Height = first()
		case TagBitsPerSample:
			info.BitsPerSample = first()
		case TagCompression:
			info.Compression = first()
		case TagSampleFormat:
			info.SampleFormat = first()
		case TagStripByteCounts:
			info.Strips = count
			for s := 0; s < count; s++ {
				if typ == TypeLong {
					info.StripBytes += int(byteOrder.Uint32(value[4*s:]))
				} else {
					info.StripBytes += int(byteOrder.Uint16(value[2*s:]))
				}
			}
		case TagSoftware:
			if typ == TypeASCII && len(value) > 0 {
				s := value
				if s[len(s)-1] == 0 {
					s = s[:len(s)-1]
				}
				info.Software = string(s)
			}
		}
	}
	if info.Width == 0 || info.Height == 0 {
		return nil, errors.New("directory carries no image dimensions")
	}
	return info, nil
}
