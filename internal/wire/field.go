package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Kind is the 3-bit wire type carried in every field key.
type Kind uint8

const (
	KindVarint     Kind = 0
	KindFixed64    Kind = 1
	KindBytes      Kind = 2
	KindStartGroup Kind = 3
	KindEndGroup   Kind = 4
	KindFixed32    Kind = 5
)

func (k Kind) String() string {
	switch k {
	case KindVarint:
		return "varint"
	case KindFixed64:
		return "fixed64"
	case KindBytes:
		return "length-delimited"
	case KindStartGroup:
		return "start-group"
	case KindEndGroup:
		return "end-group"
	case KindFixed32:
		return "fixed32"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is the payload of a decoded field. It is always one of Varint,
// Fixed32, Fixed64 or Region.
type Value interface {
	kind() Kind
}

type (
	Varint  uint64
	Fixed32 [4]byte
	Fixed64 [8]byte
	// Region is a view into the parent buffer.
	Region []byte
)

func (Varint) kind() Kind  { return KindVarint }
func (Fixed32) kind() Kind { return KindFixed32 }
func (Fixed64) kind() Kind { return KindFixed64 }
func (Region) kind() Kind  { return KindBytes }

type Field struct {
	Number uint64
	Value  Value
}

func (f Field) Kind() Kind { return f.Value.kind() }

func (f Field) Uint64() (uint64, error) {
	switch v := f.Value.(type) {
	case Varint:
		return uint64(v), nil
	default:
		return 0, f.mismatch(KindVarint)
	}
}

// Int64 reinterprets a varint as two's complement, which is how negative
// int32/int64 values travel on the wire.
func (f Field) Int64() (int64, error) {
	u, err := f.Uint64()
	return int64(u), err
}

// Float32 decodes a fixed32 payload as a little-endian IEEE-754 float.
func (f Field) Float32() (float32, error) {
	switch v := f.Value.(type) {
	case Fixed32:
		return math.Float32frombits(binary.LittleEndian.Uint32(v[:])), nil
	default:
		return 0, f.mismatch(KindFixed32)
	}
}

func (f Field) Float64() (float64, error) {
	switch v := f.Value.(type) {
	case Fixed64:
		return math.Float64frombits(binary.LittleEndian.Uint64(v[:])), nil
	default:
		return 0, f.mismatch(KindFixed64)
	}
}

func (f Field) Region() ([]byte, error) {
	switch v := f.Value.(type) {
	case Region:
		return v, nil
	default:
		return nil, fmt.Errorf("field %d is %s: %w", f.Number, f.Kind(), ErrInvalidRegionCast)
	}
}

func (f Field) Text() (string, error) {
	r, err := f.Region()
	if err != nil {
		return "", err
	}
	return string(r), nil
}

func (f Field) mismatch(want Kind) error {
	return fmt.Errorf("field %d is %s, want %s: %w", f.Number, f.Kind(), want, ErrFieldKindMismatch)
}

// NextField decodes one key/payload pair and advances the cursor past it.
func (c *Cursor) NextField() (Field, error) {
	start := c.pos
	key, err := c.ReadVarint()
	if err != nil {
		return Field{}, err
	}
	f := Field{Number: key >> 3}
	switch k := Kind(key & 0x7); k {
	case KindVarint:
		v, err := c.ReadVarint()
		if err != nil {
			return Field{}, err
		}
		f.Value = Varint(v)
	case KindFixed32:
		b, err := c.ReadFixed(4)
		if err != nil {
			return Field{}, err
		}
		f.Value = Fixed32([4]byte(b))
	case KindFixed64:
		b, err := c.ReadFixed(8)
		if err != nil {
			return Field{}, err
		}
		f.Value = Fixed64([8]byte(b))
	case KindBytes:
		n, err := c.ReadVarint()
		if err != nil {
			return Field{}, err
		}
		sub, err := c.slice(n)
		if err != nil {
			return Field{}, fmt.Errorf("field %d: %w", f.Number, err)
		}
		f.Value = Region(sub)
	default:
		return Field{}, fmt.Errorf("field %d at offset %d has %s: %w", f.Number, start, k, ErrUnsupportedWireType)
	}
	return f, nil
}

// Walk decodes every field in region in order. Reaching exactly the end of
// the region is the only clean finish; the first error aborts the walk.
func Walk(region []byte, fn func(Field) error) error {
	c := NewCursor(region)
	for c.Remaining() > 0 {
		f, err := c.NextField()
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// PackedVarints reads an unframed run of varints filling the whole region.
func PackedVarints(region []byte) ([]uint64, error) {
	c := NewCursor(region)
	var out []uint64
	for c.Remaining() > 0 {
		v, err := c.ReadVarint()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// PackedFloat32 reads an unframed run of little-endian float32 values.
func PackedFloat32(region []byte) ([]float32, error) {
	c := NewCursor(region)
	var out []float32
	for c.Remaining() > 0 {
		b, err := c.ReadFixed(4)
		if err != nil {
			return nil, err
		}
		out = append(out, math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
	return out, nil
}
