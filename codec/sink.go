package codec

import (
	"math"
	"sync"
)

// Sink accumulates encoded bytes during serialization. Every Write method
// appends; only Reset removes bytes.
type Sink struct {
	Bytes []byte
}

// Reset clears the sink's contents but keeps the allocated backing array.
func (s *Sink) Reset() {
	s.Bytes = s.Bytes[:0]
}

var sinkPool = sync.Pool{
	New: func() any { return &Sink{} },
}

// NewSinkFromPool obtains a reset Sink from the pool. Call ReturnToPool
// when finished with it.
func NewSinkFromPool() *Sink {
	s := sinkPool.Get().(*Sink)
	s.Reset()
	return s
}

// ReturnToPool releases the Sink back to the pool. Using it afterwards is
// undefined behavior.
func (s *Sink) ReturnToPool() {
	sinkPool.Put(s)
}

// WriteBytes appends a raw byte buffer (used for uint8[n] array fields).
func (s *Sink) WriteBytes(b []byte) {
	s.Bytes = append(s.Bytes, b...)
}

// WriteInt8 appends a signed 8-bit integer.
func (s *Sink) WriteInt8(v int8) {
	s.Bytes = append(s.Bytes, byte(v))
}

// WriteUint8 appends an unsigned 8-bit integer.
func (s *Sink) WriteUint8(v uint8) {
	s.Bytes = append(s.Bytes, v)
}

// WriteBool appends a boolean as a single byte (0 or 1).
func (s *Sink) WriteBool(v bool) {
	if v {
		s.WriteUint8(1)
	} else {
		s.WriteUint8(0)
	}
}

func (s *Sink) writeUintLE(v uint64, n int) {
	for i := 0; i < n; i++ {
		s.Bytes = append(s.Bytes, byte(v))
		v >>= 8
	}
}

// WriteInt16 appends a little-endian signed 16-bit integer.
func (s *Sink) WriteInt16(v int16) { s.writeUintLE(uint64(uint16(v)), 2) }

// WriteUint16 appends a little-endian unsigned 16-bit integer.
func (s *Sink) WriteUint16(v uint16) { s.writeUintLE(uint64(v), 2) }

// WriteInt24 appends the low 24 bits of v as a 3-byte little-endian
// integer.
func (s *Sink) WriteInt24(v int32) { s.writeUintLE(uint64(uint32(v))&0xFFFFFF, 3) }

// WriteInt32 appends a little-endian signed 32-bit integer.
func (s *Sink) WriteInt32(v int32) { s.writeUintLE(uint64(uint32(v)), 4) }

// WriteUint32 appends a little-endian unsigned 32-bit integer.
func (s *Sink) WriteUint32(v uint32) { s.writeUintLE(uint64(v), 4) }

// WriteInt64 appends a little-endian signed 64-bit integer.
func (s *Sink) WriteInt64(v int64) { s.writeUintLE(uint64(v), 8) }

// WriteUint64 appends a little-endian unsigned 64-bit integer.
func (s *Sink) WriteUint64(v uint64) { s.writeUintLE(v, 8) }

// WriteFloat32 appends a little-endian IEEE-754 single-precision float.
func (s *Sink) WriteFloat32(v float32) { s.writeUintLE(uint64(math.Float32bits(v)), 4) }

// WriteFloat64 appends a little-endian IEEE-754 double-precision float.
func (s *Sink) WriteFloat64(v float64) { s.writeUintLE(math.Float64bits(v), 8) }

// WriteVarint appends v as an unsigned MSB-first 7-bit varint (the inverse
// of Cursor.ReadVarint). A value of 0 is a single 0x00 byte.
func (s *Sink) WriteVarint(v uint64) {
	// Collect 7-bit groups least-significant first, then emit them in
	// reverse (MSB-first) with continuation bits set on every byte but
	// the last.
	var groups [10]byte
	n := 0
	groups[0] = byte(v & 0x7F)
	n = 1
	v >>= 7
	for v > 0 {
		groups[n] = byte(v & 0x7F)
		n++
		v >>= 7
	}
	for i := n - 1; i >= 0; i-- {
		b := groups[i]
		if i != 0 {
			b |= 0x80
		}
		s.Bytes = append(s.Bytes, b)
	}
}

// WriteString appends a varint length prefix followed by the UTF-8 bytes
// of v.
func (s *Sink) WriteString(v string) {
	s.WriteVarint(uint64(len(v)))
	s.Bytes = append(s.Bytes, v...)
}

// WriteFlexibleInt appends v using the smallest indicator that preserves
// the value, with one asymmetric rule: non-negative values in [1,4] are
// written as indicator 0x01 followed by one unsigned byte (never as a
// bare indicator, which would collide with the "indicator is the
// value" range starting at 5).
func (s *Sink) WriteFlexibleInt(v int32) {
	switch {
	case v == 0:
		s.WriteUint8(0)
	case v < 0:
		s.WriteUint8(4)
		s.writeUintLE(uint64(uint32(v)), 4)
	case v <= 4:
		s.WriteUint8(1)
		s.writeUintLE(uint64(v), 1)
	case v <= 0xFF:
		s.WriteUint8(uint8(v))
	case v <= 0xFFFF:
		s.WriteUint8(2)
		s.writeUintLE(uint64(v), 2)
	case v <= 0xFFFFFF:
		s.WriteUint8(3)
		s.writeUintLE(uint64(v), 3)
	default:
		s.WriteUint8(4)
		s.writeUintLE(uint64(uint32(v)), 4)
	}
}
