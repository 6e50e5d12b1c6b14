package dng

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
)

// All multi-byte fields in one container share this byte order.
var byteOrder = binary.LittleEndian

// Rational is an unsigned TIFF rational (numerator, denominator).
type Rational struct {
	Num uint32
	Den uint32
}

// SRational is a signed TIFF rational.
type SRational struct {
	Num int32
	Den int32
}

// RationalFromFloat approximates v by continued fractions with denominators
// up to maxDen.
func RationalFromFloat(v float64, maxDen int64) (num, den int64) {
	if v == 0 {
		return 0, 1
	}
	sign := int64(1)
	if v < 0 {
		sign = -1
		v = -v
	}
	z := v
	n0, d0 := int64(0), int64(1)
	n1, d1 := int64(1), int64(0)
	for i := 0; i < 50; i++ {
		a := int64(z)
		n2 := n1*a + n0
		d2 := d1*a + d0
		if d2 > maxDen {
			break
		}
		n0, d0 = n1, d1
		n1, d1 = n2, d2
		if z == float64(a) {
			break
		}
		z = 1.0 / (z - float64(a))
	}
	return sign * n1, d1
}

// Tag is one encoded directory entry value: id, field type, value count and
// the value bytes in container byte order.
type Tag struct {
	ID    TagID
	Type  FieldType
	Count uint32

	payload []byte
}

// NewTag encodes value for id using the type fixed by the tag registry.
// Accepted value forms depend on that type: integers (int, uint16, uint32 and
// slices thereof) for the integral types, string for ASCII, []byte for
// byte/undefined, Rational/SRational slices or float64 slices for the
// rational types, and float slices for float/double.
func NewTag(id TagID, value any) (*Tag, error) {
	typ, ok := tagTypes[id]
	if !ok {
		return nil, fmt.Errorf("tag %d is not in the registry", id)
	}
	t := &Tag{ID: id, Type: typ}
	if err := t.encode(value); err != nil {
		return nil, fmt.Errorf("tag %d: %w", id, err)
	}
	return t, nil
}

// payloadLen is the encoded value length in bytes. Values longer than four
// bytes live in the directory overflow region.
func (t *Tag) payloadLen() uint32 { return uint32(len(t.payload)) }

func (t *Tag) encode(value any) error {
	switch t.Type {
	case TypeByte, TypeUndefined, TypeSByte:
		b, err := toBytes(value)
		if err != nil {
			return err
		}
		t.payload = b
		t.Count = uint32(len(b))
	case TypeASCII:
		s, ok := value.(string)
		if !ok {
			return errors.New("ASCII tag value must be a string")
		}
		t.payload = append([]byte(s), 0)
		t.Count = uint32(len(t.payload))
	case TypeShort:
		vs, err := toInts(value)
		if err != nil {
			return err
		}
		t.payload = make([]byte, 2*len(vs))
		for i, v := range vs {
			if v < 0 || v > math.MaxUint16 {
				return fmt.Errorf("value %d out of SHORT range", v)
			}
			byteOrder.PutUint16(t.payload[2*i:], uint16(v))
		}
		t.Count = uint32(len(vs))
	case TypeSShort:
		vs, err := toInts(value)
		if err != nil {
			return err
		}
		t.payload = make([]byte, 2*len(vs))
		for i, v := range vs {
			if v < math.MinInt16 || v > math.MaxInt16 {
				return fmt.Errorf("value %d out of SSHORT range", v)
			}
			byteOrder.PutUint16(t.payload[2*i:], uint16(int16(v)))
		}
		t.Count = uint32(len(vs))
	case TypeLong:
		vs, err := toInts(value)
		if err != nil {
			return err
		}
		t.payload = make([]byte, 4*len(vs))
		for i, v := range vs {
			if v < 0 || v > math.MaxUint32 {
				return fmt.Errorf("value %d out of LONG range", v)
			}
			byteOrder.PutUint32(t.payload[4*i:], uint32(v))
		}
		t.Count = uint32(len(vs))
	case TypeSLong:
		vs, err := toInts(value)
		if err != nil {
			return err
		}
		t.payload = make([]byte, 4*len(vs))
		for i, v := range vs {
			if v < math.MinInt32 || v > math.MaxInt32 {
				return fmt.Errorf("value %d out of SLONG range", v)
			}
			byteOrder.PutUint32(t.payload[4*i:], uint32(int32(v)))
		}
		t.Count = uint32(len(vs))
	case TypeRational:
		rs, err := toRationals(value)
		if err != nil {
			return err
		}
		t.payload = make([]byte, 8*len(rs))
		for i, r := range rs {
			byteOrder.PutUint32(t.payload[8*i:], r.Num)
			byteOrder.PutUint32(t.payload[8*i+4:], r.Den)
		}
		t.Count = uint32(len(rs))
	case TypeSRational:
		rs, err := toSRationals(value)
		if err != nil {
			return err
		}
		t.payload = make([]byte, 8*len(rs))
		for i, r := range rs {
			byteOrder.PutUint32(t.payload[8*i:], uint32(r.Num))
			byteOrder.PutUint32(t.payload[8*i+4:], uint32(r.Den))
		}
		t.Count = uint32(len(rs))
	case TypeFloat:
		vs, err := toFloats(value)
		if err != nil {
			return err
		}
		t.payload = make([]byte, 4*len(vs))
		for i, v := range vs {
			byteOrder.PutUint32(t.payload[4*i:], math.Float32bits(float32(v)))
		}
		t.Count = uint32(len(vs))
	case TypeDouble:
		vs, err := toFloats(value)
		if err != nil {
			return err
		}
		t.payload = make([]byte, 8*len(vs))
		for i, v := range vs {
			byteOrder.PutUint64(t.payload[8*i:], math.Float64bits(v))
		}
		t.Count = uint32(len(vs))
	default:
		return fmt.Errorf("unsupported field type %d", t.Type)
	}
	if t.Count == 0 {
		return errors.New("empty value")
	}
	return nil
}

// setLongs replaces the payload of a LONG tag in place, keeping the count.
// Used only by the strip-offsets placeholder bind.
func (t *Tag) setLongs(vs []uint32) error {
	if t.Type != TypeLong {
		return fmt.Errorf("tag %d is not LONG", t.ID)
	}
	if uint32(len(vs)) != t.Count {
		return fmt.Errorf("tag %d: value count changed from %d to %d", t.ID, t.Count, len(vs))
	}
	for i, v := range vs {
		byteOrder.PutUint32(t.payload[4*i:], v)
	}
	return nil
}

func toBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return append([]byte(nil), v...), nil
	case byte:
		return []byte{v}, nil
	case []int:
		out := make([]byte, len(v))
		for i, x := range v {
			if x < 0 || x > math.MaxUint8 {
				return nil, fmt.Errorf("value %d out of BYTE range", x)
			}
			out[i] = byte(x)
		}
		return out, nil
	case int:
		if v < 0 || v > math.MaxUint8 {
			return nil, fmt.Errorf("value %d out of BYTE range", v)
		}
		return []byte{byte(v)}, nil
	}
	return nil, fmt.Errorf("cannot encode %T as bytes", value)
}

func toInts(value any) ([]int, error) {
	switch v := value.(type) {
	case int:
		return []int{v}, nil
	case []int:
		return v, nil
	case uint16:
		return []int{int(v)}, nil
	case []uint16:
		out := make([]int, len(v))
		for i, x := range v {
			out[i] = int(x)
		}
		return out, nil
	case uint32:
		return []int{int(v)}, nil
	case []uint32:
		out := make([]int, len(v))
		for i, x := range v {
			out[i] = int(x)
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot encode %T as integers", value)
}

func toFloats(value any) ([]float64, error) {
	switch v := value.(type) {
	case float64:
		return []float64{v}, nil
	case []float64:
		return v, nil
	case float32:
		return []float64{float64(v)}, nil
	case []float32:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot encode %T as floats", value)
}

func toRationals(value any) ([]Rational, error) {
	switch v := value.(type) {
	case Rational:
		return []Rational{v}, nil
	case []Rational:
		return v, nil
	case float64, []float64:
		fs, _ := toFloats(v)
		out := make([]Rational, len(fs))
		for i, f := range fs {
			num, den := RationalFromFloat(f, 1<<26)
			if num < 0 {
				return nil, fmt.Errorf("value %v out of RATIONAL range", f)
			}
			out[i] = Rational{Num: uint32(num), Den: uint32(den)}
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot encode %T as rationals", value)
}

func toSRationals(value any) ([]SRational, error) {
	switch v := value.(type) {
	case SRational:
		return []SRational{v}, nil
	case []SRational:
		return v, nil
	case float64, []float64:
		fs, _ := toFloats(v)
		out := make([]SRational, len(fs))
		for i, f := range fs {
			num, den := RationalFromFloat(f, 1<<26)
			out[i] = SRational{Num: int32(num), Den: int32(den)}
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot encode %T as signed rationals", value)
}

// TagSet is the caller-facing tag table: raw values keyed by tag id, unique
// per id, encoded during directory construction. Serialization order is
// always ascending by id no matter the insertion order.
type TagSet struct {
	values map[TagID]any
}

// NewTagSet returns an empty tag table.
func NewTagSet() *TagSet {
	return &TagSet{values: map[TagID]any{}}
}

// Set stores value for id, replacing any previous value. Encoding (and
// encoding failure) happens when the directory is built.
func (s *TagSet) Set(id TagID, value any) {
	s.values[id] = value
}

// Get returns the raw value stored for id.
func (s *TagSet) Get(id TagID) (any, bool) {
	v, ok := s.values[id]
	return v, ok
}

// Has reports whether id is present.
func (s *TagSet) Has(id TagID) bool {
	_, ok := s.values[id]
	return ok
}

// Len returns the number of stored tags.
func (s *TagSet) Len() int { return len(s.values) }

// ids returns the stored tag ids in ascending order.
func (s *TagSet) ids() []TagID {
	out := make([]TagID, 0, len(s.values))
	for id := range s.values {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// firstInt extracts the first integral value stored for id. Used for the
// required geometry tags.
func (s *TagSet) firstInt(id TagID) (int, bool) {
	v, ok := s.values[id]
	if !ok {
		return 0, false
	}
	vs, err := toInts(v)
	if err != nil || len(vs) == 0 {
		return 0, false
	}
	return vs[0], true
}
