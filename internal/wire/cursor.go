package wire

import "fmt"

// maxVarintLen is the longest encoding of a 64-bit value.
const maxVarintLen = 10

// Cursor reads sequentially from a byte region. Sub-regions handed out by
// NextField alias the same backing array; nothing is copied except by ReadFixed.
type Cursor struct {
	buf []byte
	pos int
}

func NewCursor(region []byte) *Cursor {
	return &Cursor{buf: region}
}

func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }
func (c *Cursor) Offset() int    { return c.pos }

// ReadByte returns the next byte. At the end of the region it fails and the
// cursor stays where it is.
func (c *Cursor) ReadByte() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, fmt.Errorf("read byte at offset %d: %w", c.pos, ErrBufferExhausted)
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// ReadVarint decodes a base-128 little-endian unsigned varint. The tenth byte
// is always the last one consumed; bits beyond 64 are dropped.
func (c *Cursor) ReadVarint() (uint64, error) {
	var v uint64
	for i := 0; i < maxVarintLen; i++ {
		b, err := c.ReadByte()
		if err != nil {
			return 0, err
		}
		v |= uint64(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			break
		}
	}
	return v, nil
}

// ReadFixed copies exactly n bytes. On shortfall nothing is consumed.
func (c *Cursor) ReadFixed(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, fmt.Errorf("read %d bytes at offset %d (%d left): %w", n, c.pos, c.Remaining(), ErrBufferExhausted)
	}
	out := make([]byte, n)
	copy(out, c.buf[c.pos:c.pos+n])
	c.pos += n
	return out, nil
}

// slice hands out the next n bytes without copying.
func (c *Cursor) slice(n uint64) ([]byte, error) {
	if n > uint64(c.Remaining()) {
		return nil, fmt.Errorf("length %d at offset %d exceeds %d remaining: %w", n, c.pos, c.Remaining(), ErrTruncatedMessage)
	}
	end := c.pos + int(n)
	sub := c.buf[c.pos:end:end]
	c.pos = end
	return sub, nil
}
