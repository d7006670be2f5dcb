// Package wiretest builds framed byte streams for tests.
package wiretest

import (
	"encoding/binary"
	"math"

	"pogodps/internal/wire"
)

// Message accumulates encoded fields.
type Message struct {
	buf []byte
}

func (m *Message) Encode() []byte { return m.buf }

func (m *Message) key(num uint64, k wire.Kind) {
	m.buf = binary.AppendUvarint(m.buf, num<<3|uint64(k))
}

func (m *Message) Varint(num, v uint64) *Message {
	m.key(num, wire.KindVarint)
	m.buf = binary.AppendUvarint(m.buf, v)
	return m
}

// Int encodes a signed value the way int32/int64 fields are encoded.
func (m *Message) Int(num uint64, v int64) *Message {
	return m.Varint(num, uint64(v))
}

func (m *Message) Float32(num uint64, v float32) *Message {
	m.key(num, wire.KindFixed32)
	m.buf = binary.LittleEndian.AppendUint32(m.buf, math.Float32bits(v))
	return m
}

func (m *Message) Fixed64(num uint64, v uint64) *Message {
	m.key(num, wire.KindFixed64)
	m.buf = binary.LittleEndian.AppendUint64(m.buf, v)
	return m
}

func (m *Message) Bytes(num uint64, b []byte) *Message {
	m.key(num, wire.KindBytes)
	m.buf = binary.AppendUvarint(m.buf, uint64(len(b)))
	m.buf = append(m.buf, b...)
	return m
}

func (m *Message) Text(num uint64, s string) *Message {
	return m.Bytes(num, []byte(s))
}

func (m *Message) Sub(num uint64, sub *Message) *Message {
	return m.Bytes(num, sub.buf)
}

// Raw appends bytes without framing.
func (m *Message) Raw(b ...byte) *Message {
	m.buf = append(m.buf, b...)
	return m
}

// PackedVarints encodes values back to back with no keys.
func PackedVarints(vs ...uint64) []byte {
	var out []byte
	for _, v := range vs {
		out = binary.AppendUvarint(out, v)
	}
	return out
}

func PackedFloat32(vs ...float32) []byte {
	var out []byte
	for _, v := range vs {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}
