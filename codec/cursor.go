// Package codec implements the fixed-width and variable-length primitive
// encodings used by every record field: signed/unsigned integers, floats,
// booleans, the MSB-first varint, length-prefixed strings, and the tagged
// FlexibleInt. All multi-byte values are little-endian.
package codec

import (
	"math"
	"unicode/utf8"

	"github.com/dsp-tools/dspsave/dsperr"
)

// Cursor reads primitives sequentially from a byte slice, tracking position
// so callers can record a record's source byte range.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor wraps b for sequential reading starting at offset 0.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Pos returns the current read offset.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the total number of bytes available.
func (c *Cursor) Len() int { return len(c.buf) }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, dsperr.ErrUnexpectedEOF
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadBytes reads and returns the next n raw bytes (used for uint8[n]
// array fields).
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadInt8 reads a signed 8-bit integer.
func (c *Cursor) ReadInt8() (int8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

// ReadUint8 reads an unsigned 8-bit integer.
func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadBool reads a single byte as a boolean (nonzero is true).
func (c *Cursor) ReadBool() (bool, error) {
	b, err := c.ReadUint8()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// ReadInt16 reads a little-endian signed 16-bit integer.
func (c *Cursor) ReadInt16() (int16, error) {
	v, err := c.readUintLE(2)
	return int16(v), err
}

// ReadUint16 reads a little-endian unsigned 16-bit integer.
func (c *Cursor) ReadUint16() (uint16, error) {
	v, err := c.readUintLE(2)
	return uint16(v), err
}

// ReadInt24 reads a 3-byte little-endian integer, sign-extended to int32.
func (c *Cursor) ReadInt24() (int32, error) {
	v, err := c.readUintLE(3)
	if err != nil {
		return 0, err
	}
	if v&0x800000 != 0 {
		v |= ^uint64(0xFFFFFF)
	}
	return int32(v), nil
}

// ReadInt32 reads a little-endian signed 32-bit integer.
func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.readUintLE(4)
	return int32(v), err
}

// ReadUint32 reads a little-endian unsigned 32-bit integer.
func (c *Cursor) ReadUint32() (uint32, error) {
	v, err := c.readUintLE(4)
	return uint32(v), err
}

// ReadInt64 reads a little-endian signed 64-bit integer.
func (c *Cursor) ReadInt64() (int64, error) {
	v, err := c.readUintLE(8)
	return int64(v), err
}

// ReadUint64 reads a little-endian unsigned 64-bit integer.
func (c *Cursor) ReadUint64() (uint64, error) {
	return c.readUintLE(8)
}

func (c *Cursor) readUintLE(n int) (uint64, error) {
	b, err := c.take(n)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := n - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

// ReadFloat32 reads a little-endian IEEE-754 single-precision float.
func (c *Cursor) ReadFloat32() (float32, error) {
	v, err := c.readUintLE(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

// ReadFloat64 reads a little-endian IEEE-754 double-precision float.
func (c *Cursor) ReadFloat64() (float64, error) {
	v, err := c.readUintLE(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadVarint reads an unsigned variable-length integer: 7 bits per byte,
// MSB-first accumulation (v = v<<7 | byte&0x7F), continuation bit in the
// high bit. This is not LEB128-compatible.
func (c *Cursor) ReadVarint() (uint64, error) {
	var v uint64
	for {
		b, err := c.ReadUint8()
		if err != nil {
			return 0, err
		}
		v = v<<7 | uint64(b&0x7F)
		if b&0x80 == 0 {
			return v, nil
		}
	}
}

// ReadString reads a varint length prefix followed by that many UTF-8
// bytes.
func (c *Cursor) ReadString() (string, error) {
	n, err := c.ReadVarint()
	if err != nil {
		return "", err
	}
	b, err := c.take(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", dsperr.ErrUTF8
	}
	return string(b), nil
}

// ReadFlexibleInt reads a tagged variable-length integer: indicator 0
// means zero, 1..3 means that many unsigned LE bytes, 4 means 4 signed
// LE bytes, and indicator values above 4 are the value itself.
func (c *Cursor) ReadFlexibleInt() (int32, error) {
	indicator, err := c.ReadUint8()
	if err != nil {
		return 0, err
	}
	switch {
	case indicator == 0:
		return 0, nil
	case indicator <= 3:
		v, err := c.readUintLE(int(indicator))
		if err != nil {
			return 0, err
		}
		return int32(v), nil
	case indicator == 4:
		v, err := c.readUintLE(4)
		if err != nil {
			return 0, err
		}
		return int32(v), nil
	default:
		return int32(indicator), nil
	}
}
